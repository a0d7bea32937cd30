package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/pkg"
)

type entry struct {
	mu      sync.Mutex
	session *entity.Session
	removed bool
}

// SessionRegistry is the process-wide store of live sessions. Every mutation of a session runs
// under that session's own lock; lock order is always entry before registry.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	players  map[string]string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*entry),
		players:  make(map[string]string),
	}
}

// Create - stores a new empty session of the given kind and returns its id.
func (that *SessionRegistry) Create(kind entity.GameType) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, kind)
	}

	id := pkg.GenerateGameID()

	that.mu.Lock()
	that.sessions[id] = &entry{session: entity.NewSession(id, kind)}
	that.mu.Unlock()

	return id, nil
}

// Update - runs fn with exclusive access to the session.
func (that *SessionRegistry) Update(id string, fn func(session *entity.Session) error) error {
	e, err := that.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return fn(e.session)
}

// Join - seats the player and runs onSeated under the same lock. Fails with ErrGameNotFound or ErrGameFull.
func (that *SessionRegistry) Join(id string, player *entity.Player, onSeated func(session *entity.Session) error) error {
	return that.Update(id, func(session *entity.Session) error {
		if err := session.Seat(player); err != nil {
			return fmt.Errorf("game %s: %w", id, err)
		}

		that.mu.Lock()
		that.players[player.ID] = id
		that.mu.Unlock()

		if onSeated == nil {
			return nil
		}

		return onSeated(session)
	})
}

// Remove - destroys the session; onRemoved sees its final state before any other caller is released.
func (that *SessionRegistry) Remove(id string, onRemoved func(session *entity.Session)) error {
	e, err := that.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}
	e.removed = true

	that.mu.Lock()
	delete(that.sessions, id)
	for _, player := range e.session.Players {
		if that.players[player.ID] == id {
			delete(that.players, player.ID)
		}
	}
	that.mu.Unlock()

	if onRemoved != nil {
		onRemoved(e.session)
	}

	return nil
}

// Lookup - the public snapshot of the session, false if it does not exist.
func (that *SessionRegistry) Lookup(id string) (*entity.Snapshot, bool) {
	var snapshot *entity.Snapshot

	err := that.Update(id, func(session *entity.Session) error {
		snapshot = session.Snapshot("")
		return nil
	})
	if err != nil {
		return nil, false
	}

	return snapshot, true
}

// SessionOf - the id of the session the player is seated in.
func (that *SessionRegistry) SessionOf(playerID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	id, ok := that.players[playerID]

	return id, ok
}

func (that *SessionRegistry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *SessionRegistry) entry(id string) (*entry, error) {
	that.mu.RLock()
	e, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return e, nil
}

// MemorySnapshots serves snapshot lookups straight from the registry.
type MemorySnapshots struct {
	registry *SessionRegistry
}

func NewMemorySnapshots(registry *SessionRegistry) *MemorySnapshots {
	return &MemorySnapshots{registry: registry}
}

func (that *MemorySnapshots) GetByID(_ context.Context, id string) ([]byte, error) {
	snapshot, ok := that.registry.Lookup(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("could not marshal snapshot: %w", err)
	}

	return body, nil
}
