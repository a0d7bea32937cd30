package usecase

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

const defaultMirrorQueue = 256

type snapshotRepo interface {
	CreateOrUpdate(ctx context.Context, snapshot *entity.Snapshot) error
	DeleteByID(ctx context.Context, id string) error
}

type mirrorTask struct {
	snapshot *entity.Snapshot
	deleteID string
}

// SnapshotMirror copies public snapshots to an external store off the session lock, in publish order.
type SnapshotMirror struct {
	logger *slog.Logger
	repo   snapshotRepo
	queue  chan mirrorTask
}

func NewSnapshotMirror(logger *slog.Logger, repo snapshotRepo, size int) *SnapshotMirror {
	if size <= 0 {
		size = defaultMirrorQueue
	}

	return &SnapshotMirror{
		logger: logger.With("component", "snapshot_mirror"),
		repo:   repo,
		queue:  make(chan mirrorTask, size),
	}
}

func (that *SnapshotMirror) Publish(snapshot *entity.Snapshot) {
	that.enqueue(mirrorTask{snapshot: snapshot})
}

func (that *SnapshotMirror) Forget(id string) {
	that.enqueue(mirrorTask{deleteID: id})
}

// Run - drains the queue until ctx is done.
func (that *SnapshotMirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-that.queue:
			that.apply(ctx, task)
		}
	}
}

func (that *SnapshotMirror) enqueue(task mirrorTask) {
	select {
	case that.queue <- task:
	default:
		that.logger.Warn("mirror queue is full, dropping task")
	}
}

func (that *SnapshotMirror) apply(ctx context.Context, task mirrorTask) {
	log := that.logger.With("method", "apply")

	if task.snapshot != nil {
		if err := that.repo.CreateOrUpdate(ctx, task.snapshot); err != nil {
			log.Error("failed to save snapshot", "gameID", task.snapshot.ID, "error", err)
		}

		return
	}

	if err := that.repo.DeleteByID(ctx, task.deleteID); err != nil {
		log.Debug("failed to delete snapshot", "gameID", task.deleteID, "error", err)
	}
}

type noopMirror struct{}

func (noopMirror) Publish(*entity.Snapshot) {}
func (noopMirror) Forget(string)            {}
