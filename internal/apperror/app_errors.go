package apperror

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFull        = errors.New("game is full")
	ErrGameNotStarted  = errors.New("game is not started")
	ErrRoundOver       = errors.New("round is already over")
	ErrMatchOver       = errors.New("match is already over")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrNotInGame       = errors.New("player is not seated in this game")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidMove     = errors.New("invalid move")
	ErrUnknownGameType = errors.New("unknown game type")
	ErrUnknownCommand  = errors.New("unknown command")
)
