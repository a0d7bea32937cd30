package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/arcade-backend/internal/repository"
)

type snapshotReader interface {
	GetByID(ctx context.Context, id string) ([]byte, error)
}

type Handlers struct {
	logger    *slog.Logger
	snapshots snapshotReader
}

func NewHandlers(logger *slog.Logger, snapshots snapshotReader) *Handlers {
	return &Handlers{
		logger:    logger.With("component", "rest"),
		snapshots: snapshots,
	}
}

func (that *Handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// GetGame - the public snapshot of a live session.
func (that *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetGame")

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "game id is required", http.StatusBadRequest)
		return
	}

	body, err := that.snapshots.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		log.Error("failed to get snapshot", "gameID", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(body); err != nil {
		log.Error("failed to write response", "error", err)
	}
}
