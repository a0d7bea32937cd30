package usecase

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/repository"
	"github.com/rocketscienceinc/arcade-backend/internal/variant"
)

type recorder struct {
	mu     sync.Mutex
	events map[string][]*entity.Event
}

func newRecorder() *recorder {
	return &recorder{events: make(map[string][]*entity.Event)}
}

func (that *recorder) Send(playerID string, event *entity.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events[playerID] = append(that.events[playerID], event)
}

func (that *recorder) of(playerID string) []*entity.Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]*entity.Event(nil), that.events[playerID]...)
}

func (that *recorder) last(playerID string) *entity.Event {
	events := that.of(playerID)
	if len(events) == 0 {
		return nil
	}

	return events[len(events)-1]
}

type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (that *manualScheduler) AfterFunc(_ time.Duration, fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.tasks = append(that.tasks, fn)
}

func (that *manualScheduler) pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.tasks)
}

func (that *manualScheduler) runAll() {
	that.mu.Lock()
	tasks := that.tasks
	that.tasks = nil
	that.mu.Unlock()

	for _, task := range tasks {
		task()
	}
}

type engine struct {
	*GameManager
	registry  *repository.SessionRegistry
	events    *recorder
	scheduler *manualScheduler
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newEngine(t *testing.T, opts ...Option) *engine {
	t.Helper()

	registry := repository.NewSessionRegistry()
	events := newRecorder()
	scheduler := &manualScheduler{}
	validators := variant.NewSet(variant.Options{
		DotsSize:    2,
		MemoryPairs: 2,
		Random:      rand.New(rand.NewPCG(7, 11)),
	})

	manager := NewGameManager(testLogger(), registry, validators, events, scheduler, Rules{
		WinScore:    3,
		RevealDelay: time.Second,
	}, opts...)

	return &engine{GameManager: manager, registry: registry, events: events, scheduler: scheduler}
}

// startGame - p1 creates a game of the given kind and p2 joins it.
func (that *engine) startGame(t *testing.T, kind entity.GameType) string {
	t.Helper()

	ctx := context.Background()

	gameID, err := that.CreateGame(ctx, "p1", kind, "Alice")
	require.NoError(t, err)
	require.NoError(t, that.JoinGame(ctx, "p2", gameID, "Bob"))

	return gameID
}

func (that *engine) snapshot(t *testing.T, gameID string) *entity.Snapshot {
	t.Helper()

	snapshot, ok := that.registry.Lookup(gameID)
	require.True(t, ok, "game %s not found", gameID)

	return snapshot
}

func (that *engine) setBoard(t *testing.T, gameID string, board entity.Board) {
	t.Helper()

	require.NoError(t, that.registry.Update(gameID, func(session *entity.Session) error {
		session.Board = board
		return nil
	}))
}

func index(v int) *entity.Move {
	return &entity.Move{Index: &v}
}
