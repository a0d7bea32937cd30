package entity

import (
	"fmt"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

type GameType string

const (
	TicTacToe         GameType = "tictactoe"
	ConnectFour       GameType = "connect4"
	Checkers          GameType = "checkers"
	Battleship        GameType = "battleship"
	RockPaperScissors GameType = "rps"
	MemoryMatch       GameType = "memory"
	DotsAndBoxes      GameType = "dots"
)

// MaxSeats is the number of players a session holds.
const MaxSeats = 2

// GameTypes lists every supported variant.
var GameTypes = []GameType{TicTacToe, ConnectFour, Checkers, Battleship, RockPaperScissors, MemoryMatch, DotsAndBoxes}

func (that GameType) IsValid() bool {
	for _, kind := range GameTypes {
		if kind == that {
			return true
		}
	}

	return false
}

// IsSimultaneous reports whether both seats may act at any time (no turn owner).
func (that GameType) IsSimultaneous() bool {
	return that == RockPaperScissors
}

// Session is the aggregate root of a two-seat game. It is not safe for concurrent use;
// the registry serialises access per session id.
type Session struct {
	ID         string
	Type       GameType
	Players    []*Player
	Board      Board
	Turn       string
	MatchScore map[string]int
	RoundOver  bool
	MatchOver  bool
	Status     string
	Epoch      uint64
}

func NewSession(id string, kind GameType) *Session {
	return &Session{
		ID:     id,
		Type:   kind,
		Status: "Waiting for an opponent...",
	}
}

// Seat - places the player in the next free seat.
func (that *Session) Seat(player *Player) error {
	if len(that.Players) >= MaxSeats {
		return fmt.Errorf("%w: %d players", apperror.ErrGameFull, len(that.Players))
	}

	if _, ok := that.SeatOf(player.ID); ok {
		return fmt.Errorf("%w: player %s already seated", apperror.ErrGameFull, player.ID)
	}

	player.Seat = len(that.Players)
	player.Wins = 0
	if player.Name == "" {
		player.Name = fmt.Sprintf("Player %d", player.Seat+1)
	}
	that.Players = append(that.Players, player)

	if that.IsFull() {
		that.MatchScore = make(map[string]int, MaxSeats)
		for _, p := range that.Players {
			that.MatchScore[p.ID] = 0
		}
	}

	return nil
}

func (that *Session) IsFull() bool {
	return len(that.Players) == MaxSeats
}

// IsPlayable reports whether both seats are filled and a board is in place.
func (that *Session) IsPlayable() bool {
	return that.IsFull() && that.Board != nil
}

func (that *Session) SeatOf(playerID string) (int, bool) {
	for _, player := range that.Players {
		if player.ID == playerID {
			return player.Seat, true
		}
	}

	return -1, false
}

func (that *Session) PlayerAt(seat int) *Player {
	if seat < 0 || seat >= len(that.Players) {
		return nil
	}

	return that.Players[seat]
}

// TurnSeat - the seat allowed to move, false for simultaneous variants or before the match starts.
func (that *Session) TurnSeat() (int, bool) {
	if that.Turn == "" {
		return -1, false
	}

	return that.SeatOf(that.Turn)
}

// AwardWin - adds one round win to the seat's match score.
func (that *Session) AwardWin(seat int) {
	player := that.PlayerAt(seat)
	if player == nil || that.MatchScore == nil {
		return
	}

	that.MatchScore[player.ID]++
	player.Wins = that.MatchScore[player.ID]
}

// ConfirmPlayable - checks whether a move may be applied at all.
func (that *Session) ConfirmPlayable() error {
	switch {
	case that.MatchOver:
		return apperror.ErrMatchOver
	case !that.IsPlayable():
		return apperror.ErrGameNotStarted
	case that.RoundOver:
		return apperror.ErrRoundOver
	default:
		return nil
	}
}

// Snapshot - the outbound view of the session for the given viewer. An empty viewer id
// (or a non-seated one) gets the public view with every hidden detail masked.
func (that *Session) Snapshot(viewerID string) *Snapshot {
	seat, _ := that.SeatOf(viewerID)

	players := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		p := *player
		players = append(players, &p)
	}

	var score map[string]int
	if that.MatchScore != nil {
		score = make(map[string]int, len(that.MatchScore))
		for id, wins := range that.MatchScore {
			score[id] = wins
		}
	}

	var board Board
	if that.Board != nil {
		board = that.Board.Masked(seat)
	}

	return &Snapshot{
		ID:         that.ID,
		Type:       that.Type,
		Players:    players,
		Board:      board,
		Turn:       that.Turn,
		MatchScore: score,
		RoundOver:  that.RoundOver,
		MatchOver:  that.MatchOver,
		Status:     that.Status,
		Epoch:      that.Epoch,
	}
}

// Snapshot is the serialised form of a session sent to clients.
type Snapshot struct {
	ID         string         `json:"gameId"`
	Type       GameType       `json:"gameType"`
	Players    []*Player      `json:"players"`
	Board      Board          `json:"board,omitempty"`
	Turn       string         `json:"turn,omitempty"`
	MatchScore map[string]int `json:"matchScore,omitempty"`
	RoundOver  bool           `json:"roundOver"`
	MatchOver  bool           `json:"gameOver"`
	Status     string         `json:"status"`
	Epoch      uint64         `json:"epoch"`
}
