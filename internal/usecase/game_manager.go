package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/metrics"
	"github.com/rocketscienceinc/arcade-backend/internal/variant"
)

const (
	msgJoinFailed      = "Game not found or is full."
	msgUnknownGameType = "Unknown game type."
)

var errStaleTask = errors.New("deferred task is stale")

type sessionRegistry interface {
	Create(kind entity.GameType) (string, error)
	Update(id string, fn func(session *entity.Session) error) error
	Join(id string, player *entity.Player, onSeated func(session *entity.Session) error) error
	Remove(id string, onRemoved func(session *entity.Session)) error
	SessionOf(playerID string) (string, bool)
	Len() int
}

// Broadcaster delivers outbound events to a connected player. Send must not block.
type Broadcaster interface {
	Send(playerID string, event *entity.Event)
}

type snapshotMirror interface {
	Publish(snapshot *entity.Snapshot)
	Forget(id string)
}

type Rules struct {
	WinScore    int
	RevealDelay time.Duration
}

// GameManager is the engine façade: it routes commands to the registry, the variant validators,
// the turn arbiter and the round lifecycle, and broadcasts the resulting state.
type GameManager struct {
	logger *slog.Logger

	registry    sessionRegistry
	validators  variant.Set
	broadcaster Broadcaster
	scheduler   Scheduler
	mirror      snapshotMirror
	rules       Rules
}

type Option func(*GameManager)

// WithMirror - copies every public snapshot to the given mirror.
func WithMirror(mirror snapshotMirror) Option {
	return func(that *GameManager) {
		that.mirror = mirror
	}
}

func NewGameManager(
	logger *slog.Logger,
	registry sessionRegistry,
	validators variant.Set,
	broadcaster Broadcaster,
	scheduler Scheduler,
	rules Rules,
	opts ...Option,
) *GameManager {
	manager := &GameManager{
		logger: logger.With("component", "game_manager"),

		registry:    registry,
		validators:  validators,
		broadcaster: broadcaster,
		scheduler:   scheduler,
		mirror:      noopMirror{},
		rules:       rules,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// Handle - routes one parsed command from the given player.
func (that *GameManager) Handle(ctx context.Context, playerID string, cmd *entity.Command) error {
	var err error

	label := string(cmd.Type)

	switch cmd.Type {
	case entity.CommandCreate:
		_, err = that.CreateGame(ctx, playerID, cmd.GameType, cmd.Name)
	case entity.CommandJoin:
		err = that.JoinGame(ctx, playerID, cmd.GameID, cmd.Name)
	case entity.CommandMove:
		err = that.MakeMove(ctx, playerID, cmd.GameID, cmd.Move)
	case entity.CommandChat:
		err = that.Chat(ctx, playerID, cmd.GameID, cmd.Name, cmd.Message)
	case entity.CommandResetRound:
		err = that.ResetRound(ctx, playerID, cmd.GameID)
	case entity.CommandLeave:
		err = that.Leave(ctx, playerID, cmd.GameID)
	default:
		label = "unknown"
		err = fmt.Errorf("%w: %q", apperror.ErrUnknownCommand, cmd.Type)
	}

	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	metrics.Commands.WithLabelValues(label, outcome).Inc()

	return err
}

// CreateGame - opens a new session with the player in seat 0.
func (that *GameManager) CreateGame(ctx context.Context, playerID string, kind entity.GameType, name string) (string, error) {
	log := that.logger.With("method", "CreateGame", "playerID", playerID)

	if _, err := that.validators.For(kind); err != nil {
		that.broadcaster.Send(playerID, entity.ErrorEvent(msgUnknownGameType))
		return "", err
	}

	that.leaveCurrent(ctx, playerID)

	gameID, err := that.registry.Create(kind)
	if err != nil {
		that.broadcaster.Send(playerID, entity.ErrorEvent(msgUnknownGameType))
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	err = that.registry.Join(gameID, entity.NewPlayer(playerID, name), func(session *entity.Session) error {
		that.broadcaster.Send(playerID, entity.CreatedEvent(gameID))
		that.broadcastState(session)

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to seat creator: %w", err)
	}

	metrics.SessionsActive.Set(float64(that.registry.Len()))
	log.Info("game created", "gameID", gameID, "gameType", kind)

	return gameID, nil
}

// JoinGame - fills the second seat and starts the match. A failed join leaves the player where they were.
func (that *GameManager) JoinGame(ctx context.Context, playerID, gameID, name string) error {
	log := that.logger.With("method", "JoinGame", "playerID", playerID, "gameID", gameID)

	previous, seated := that.registry.SessionOf(playerID)
	if seated && previous == gameID {
		return that.registry.Update(gameID, func(session *entity.Session) error {
			that.broadcastState(session)
			return nil
		})
	}

	err := that.registry.Join(gameID, entity.NewPlayer(playerID, name), func(session *entity.Session) error {
		validator, err := that.validators.For(session.Type)
		if err != nil {
			return err
		}

		startRound(session, validator)
		that.broadcastState(session)

		return nil
	})
	if err != nil {
		log.Info("failed to join game", "error", err)
		that.broadcaster.Send(playerID, entity.ErrorEvent(msgJoinFailed))

		return fmt.Errorf("failed to join game: %w", err)
	}

	// The previous seat is given up only once the new one is held.
	if seated {
		if err = that.closeGame(ctx, playerID, previous); err != nil {
			log.Warn("failed to leave previous game", "previousID", previous, "error", err)
		}
	}

	log.Info("player joined game")

	return nil
}

// MakeMove - validates and applies a move. Rejected moves change nothing and are not answered.
func (that *GameManager) MakeMove(_ context.Context, playerID, gameID string, move *entity.Move) error {
	log := that.logger.With("method", "MakeMove", "playerID", playerID, "gameID", gameID)

	if move == nil {
		return fmt.Errorf("%w: move is required", apperror.ErrInvalidMove)
	}

	err := that.registry.Update(gameID, func(session *entity.Session) error {
		seat, ok := session.SeatOf(playerID)
		if !ok {
			return apperror.ErrNotInGame
		}

		if err := session.ConfirmPlayable(); err != nil {
			return err
		}

		if !session.Type.IsSimultaneous() && session.Turn != playerID {
			return apperror.ErrNotYourTurn
		}

		validator, err := that.validators.For(session.Type)
		if err != nil {
			return err
		}

		outcome, err := validator.Apply(session, seat, *move)
		if err != nil {
			return err
		}

		that.resolve(session, seat, outcome)
		checkMatchOver(session, that.rules.WinScore)
		that.broadcastState(session)

		return nil
	})
	if err != nil {
		log.Debug("move rejected", "error", err)
		return fmt.Errorf("failed make move: %w", err)
	}

	return nil
}

// ResetRound - starts a new round keeping the match score. Rejected once the match is over.
func (that *GameManager) ResetRound(_ context.Context, playerID, gameID string) error {
	err := that.registry.Update(gameID, func(session *entity.Session) error {
		if _, ok := session.SeatOf(playerID); !ok {
			return apperror.ErrNotInGame
		}

		if session.MatchOver {
			return apperror.ErrMatchOver
		}

		if !session.IsFull() {
			return apperror.ErrGameNotStarted
		}

		validator, err := that.validators.For(session.Type)
		if err != nil {
			return err
		}

		startRound(session, validator)
		that.broadcastState(session)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset round: %w", err)
	}

	return nil
}

// Chat - relays a message to both seats of the sender's session.
func (that *GameManager) Chat(_ context.Context, playerID, gameID, name, message string) error {
	err := that.registry.Update(gameID, func(session *entity.Session) error {
		seat, ok := session.SeatOf(playerID)
		if !ok {
			return apperror.ErrNotInGame
		}

		if name == "" {
			name = session.PlayerAt(seat).Name
		}

		event := entity.ChatEvent(name, message)
		for _, player := range session.Players {
			that.broadcaster.Send(player.ID, event)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to relay chat: %w", err)
	}

	return nil
}

// Leave - tears the player's session down and tells the remaining seat. An empty gameID means
// whatever session the player is seated in.
func (that *GameManager) Leave(ctx context.Context, playerID, gameID string) error {
	current, ok := that.registry.SessionOf(playerID)
	if !ok || (gameID != "" && gameID != current) {
		return apperror.ErrNotInGame
	}

	return that.closeGame(ctx, playerID, current)
}

// Disconnect - a dropped connection is fatal to its session.
func (that *GameManager) Disconnect(ctx context.Context, playerID string) {
	if err := that.Leave(ctx, playerID, ""); err != nil && !errors.Is(err, apperror.ErrNotInGame) {
		that.logger.Error("failed to close game on disconnect", "playerID", playerID, "error", err)
	}
}

func (that *GameManager) closeGame(_ context.Context, playerID, gameID string) error {
	err := that.registry.Remove(gameID, func(session *entity.Session) {
		for _, player := range session.Players {
			if player.ID != playerID {
				that.broadcaster.Send(player.ID, entity.OpponentLeftEvent())
			}
		}
		that.mirror.Forget(gameID)
	})
	if err != nil {
		return fmt.Errorf("failed to close game: %w", err)
	}

	metrics.SessionsActive.Set(float64(that.registry.Len()))
	that.logger.Info("game closed", "gameID", gameID, "playerID", playerID)

	return nil
}

func (that *GameManager) leaveCurrent(ctx context.Context, playerID string) {
	if current, ok := that.registry.SessionOf(playerID); ok {
		if err := that.closeGame(ctx, playerID, current); err != nil {
			that.logger.Warn("failed to leave previous game", "playerID", playerID, "error", err)
		}
	}
}

// resolve - feeds the validator outcome to the round lifecycle or the turn arbiter.
func (that *GameManager) resolve(session *entity.Session, seat int, outcome variant.Outcome) {
	switch outcome.Result {
	case variant.Win:
		endRound(session, &outcome.Winner)
	case variant.Draw:
		endRound(session, nil)
	default:
		if advanceTurn(session, seat, outcome.Turn) {
			that.scheduleConceal(session.ID, session.Epoch)
		}
	}
}

// scheduleConceal - the deferred task is bound to the round epoch and becomes a no-op once it changes.
func (that *GameManager) scheduleConceal(gameID string, epoch uint64) {
	that.scheduler.AfterFunc(that.rules.RevealDelay, func() {
		that.concealRevealed(gameID, epoch)
	})
}

func (that *GameManager) concealRevealed(gameID string, epoch uint64) {
	log := that.logger.With("method", "concealRevealed", "gameID", gameID)

	err := that.registry.Update(gameID, func(session *entity.Session) error {
		if session.Epoch != epoch || session.RoundOver || session.MatchOver {
			return errStaleTask
		}

		validator, err := that.validators.For(session.Type)
		if err != nil {
			return err
		}

		concealer, ok := validator.(variant.Concealer)
		if !ok || !concealer.Conceal(session) {
			return errStaleTask
		}

		seat, ok := session.TurnSeat()
		if !ok {
			return errStaleTask
		}

		giveTurn(session, 1-seat)
		that.broadcastState(session)

		return nil
	})
	if err != nil {
		log.Debug("deferred conceal dropped", "error", err)
	}
}

// broadcastState - every seat gets its own view of the session.
func (that *GameManager) broadcastState(session *entity.Session) {
	for _, player := range session.Players {
		that.broadcaster.Send(player.ID, entity.GameStateEvent(session.Snapshot(player.ID)))
	}

	that.mirror.Publish(session.Snapshot(""))
}
