package usecase

import (
	"sync"
	"time"
)

// Scheduler runs deferred session tasks.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func())
}

// TimerScheduler backs deferred tasks with time.AfterFunc and can cancel everything still pending.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[*time.Timer]struct{})}
}

func (that *TimerScheduler) AfterFunc(delay time.Duration, fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.stopped {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		that.mu.Lock()
		delete(that.timers, timer)
		that.mu.Unlock()

		fn()
	})
	that.timers[timer] = struct{}{}
}

// Stop - cancels all pending tasks; later AfterFunc calls are ignored.
func (that *TimerScheduler) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopped = true
	for timer := range that.timers {
		timer.Stop()
	}
	clear(that.timers)
}

func (that *TimerScheduler) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.timers)
}
