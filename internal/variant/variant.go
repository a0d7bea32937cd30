// Package variant holds the rules of every supported game kind. Validators are pure:
// they read and mutate only the board of the session they are given.
package variant

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

var ErrBoardMismatch = errors.New("board does not match game type")

type Result int

const (
	Continue Result = iota
	Win
	Draw
)

func (that Result) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "continue"
	}
}

// TurnRule tells the turn arbiter what to do after an accepted move that did not end the round.
type TurnRule int

const (
	// PassTurn hands the turn to the other seat.
	PassTurn TurnRule = iota
	// KeepTurn grants the mover another move.
	KeepTurn
	// HoldTurn keeps the turn with the mover until a deferred action resolves it.
	HoldTurn
	// NoTurn is used by simultaneous variants.
	NoTurn
)

// Outcome is the result of an accepted move.
type Outcome struct {
	Result Result
	Winner int
	Turn   TurnRule
}

func proceed(rule TurnRule) Outcome {
	return Outcome{Result: Continue, Winner: -1, Turn: rule}
}

func winner(seat int) Outcome {
	return Outcome{Result: Win, Winner: seat}
}

func draw() Outcome {
	return Outcome{Result: Draw, Winner: -1}
}

// Validator applies moves for one game kind. A rejected move returns an error and leaves the board untouched.
type Validator interface {
	Kind() entity.GameType
	NewBoard() entity.Board
	Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error)
}

// Concealer is implemented by variants whose HoldTurn outcome must be resolved later.
type Concealer interface {
	// Conceal resolves the held state and reports whether anything changed.
	Conceal(session *entity.Session) bool
}

// Random is the randomness source used for board setup.
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n) //nolint: gosec // game setup, not security sensitive
}

type Options struct {
	DotsSize    int
	MemoryPairs int
	Random      Random
}

// Set maps every game kind to its validator.
type Set map[entity.GameType]Validator

func NewSet(opts Options) Set {
	random := opts.Random
	if random == nil {
		random = globalRandom{}
	}

	validators := []Validator{
		NewTicTacToe(),
		NewConnectFour(),
		NewCheckers(),
		NewBattleship(random),
		NewRockPaperScissors(),
		NewMemoryMatch(opts.MemoryPairs, random),
		NewDotsAndBoxes(opts.DotsSize),
	}

	set := make(Set, len(validators))
	for _, validator := range validators {
		set[validator.Kind()] = validator
	}

	return set
}

// For - the validator for the given game kind.
func (that Set) For(kind entity.GameType) (Validator, error) {
	validator, ok := that[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownGameType, kind)
	}

	return validator, nil
}

func boardMismatch(session *entity.Session) error {
	return fmt.Errorf("%w: session %s (%s)", ErrBoardMismatch, session.ID, session.Type)
}

func invalidMove(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperror.ErrInvalidMove, fmt.Sprintf(format, args...))
}

func shuffle(random Random, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, random.IntN(i+1))
	}
}
