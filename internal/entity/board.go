package entity

import "encoding/json"

// Board is the variant-tagged board state of a session. Exactly one concrete type exists per GameType.
type Board interface {
	Kind() GameType
	// Masked returns a copy of the board as the given seat may see it; seat -1 is an outside observer.
	Masked(seat int) Board
}

const (
	EmptyCell = ""
	PlayerX   = "X"
	PlayerO   = "O"

	// NoOwner marks an empty grid cell, an undrawn edge or an unclaimed box.
	NoOwner = 0
)

// SeatSymbol - tic-tac-toe symbol for a seat.
func SeatSymbol(seat int) string {
	if seat == 0 {
		return PlayerX
	}

	return PlayerO
}

type TicTacToeBoard struct {
	Cells [9]string `json:"cells"`
}

func (that *TicTacToeBoard) Kind() GameType { return TicTacToe }

func (that *TicTacToeBoard) Masked(int) Board {
	board := *that
	return &board
}

const (
	ConnectFourRows    = 6
	ConnectFourColumns = 7
)

type ConnectFourBoard struct {
	Grid [ConnectFourRows][ConnectFourColumns]int `json:"grid"`
}

func (that *ConnectFourBoard) Kind() GameType { return ConnectFour }

func (that *ConnectFourBoard) Masked(int) Board {
	board := *that
	return &board
}

const (
	CheckersSize = 8
	// KingFactor - a king is stored as its man value multiplied by this factor (1 -> 11, 2 -> 22).
	KingFactor = 11
)

type CheckersBoard struct {
	Grid [CheckersSize][CheckersSize]int `json:"grid"`
}

func (that *CheckersBoard) Kind() GameType { return Checkers }

func (that *CheckersBoard) Masked(int) Board {
	board := *that
	return &board
}

// PieceOwner - the seat mark (1 or 2) owning a checkers piece value, NoOwner for an empty square.
func PieceOwner(value int) int {
	if IsKing(value) {
		return value / KingFactor
	}

	return value
}

func IsKing(value int) bool {
	return value > 10
}

const (
	BattleshipSize  = 10
	BattleshipCells = BattleshipSize * BattleshipSize
)

// BattleshipFleet lists the ship lengths every seat places.
var BattleshipFleet = []int{5, 4, 3, 3, 2}

type Shot int

const (
	ShotUnknown Shot = iota
	ShotHit
	ShotMiss
)

// BattleshipGrid is one seat's ocean: the shots fired into it and its ship cells.
type BattleshipGrid struct {
	Shots [BattleshipCells]Shot `json:"shots"`
	Ships []int                 `json:"ships,omitempty"`
}

func (that *BattleshipGrid) HasShipAt(index int) bool {
	for _, cell := range that.Ships {
		if cell == index {
			return true
		}
	}

	return false
}

// AllSunk - every ship cell has been hit.
func (that *BattleshipGrid) AllSunk() bool {
	for _, cell := range that.Ships {
		if that.Shots[cell] != ShotHit {
			return false
		}
	}

	return len(that.Ships) > 0
}

type BattleshipBoard struct {
	Seats [MaxSeats]BattleshipGrid `json:"seats"`
}

func (that *BattleshipBoard) Kind() GameType { return Battleship }

// Masked hides the ship cells of every grid the seat does not own.
func (that *BattleshipBoard) Masked(seat int) Board {
	masked := *that
	for i := range masked.Seats {
		if i != seat {
			masked.Seats[i].Ships = nil
		}
	}

	return &masked
}

const (
	Rock     = "rock"
	Paper    = "paper"
	Scissors = "scissors"
)

// RPSBoard holds the pending choices of the current round and the last resolved pair.
type RPSBoard struct {
	Choices     map[string]string
	LastChoices map[string]string
}

func NewRPSBoard() *RPSBoard {
	return &RPSBoard{Choices: make(map[string]string, MaxSeats)}
}

func (that *RPSBoard) Kind() GameType { return RockPaperScissors }

func (that *RPSBoard) Masked(int) Board {
	return &RPSBoard{
		Choices:     copyChoices(that.Choices),
		LastChoices: copyChoices(that.LastChoices),
	}
}

func copyChoices(choices map[string]string) map[string]string {
	if choices == nil {
		return nil
	}

	copied := make(map[string]string, len(choices))
	for id, choice := range choices {
		copied[id] = choice
	}

	return copied
}

// MarshalJSON only reveals who has chosen, never what.
func (that *RPSBoard) MarshalJSON() ([]byte, error) {
	pending := make(map[string]bool, len(that.Choices))
	for id := range that.Choices {
		pending[id] = true
	}

	return json.Marshal(struct {
		Pending     map[string]bool   `json:"pending"`
		LastChoices map[string]string `json:"lastChoices,omitempty"`
	}{
		Pending:     pending,
		LastChoices: that.LastChoices,
	})
}

type Card struct {
	Symbol  string `json:"symbol,omitempty"`
	FaceUp  bool   `json:"faceUp"`
	Matched bool   `json:"matched"`
}

// MemoryBoard holds the deck, the face-up cards awaiting resolution and each seat's pair tally.
type MemoryBoard struct {
	Cards    []Card        `json:"cards"`
	Revealed []int         `json:"revealed"`
	Points   [MaxSeats]int `json:"points"`
}

func (that *MemoryBoard) Kind() GameType { return MemoryMatch }

// Masked hides the symbol of every face-down card.
func (that *MemoryBoard) Masked(int) Board {
	masked := *that
	masked.Cards = make([]Card, len(that.Cards))
	for i, card := range that.Cards {
		if !card.FaceUp && !card.Matched {
			card.Symbol = ""
		}
		masked.Cards[i] = card
	}
	masked.Revealed = append([]int(nil), that.Revealed...)

	return &masked
}

func (that *MemoryBoard) AllMatched() bool {
	for _, card := range that.Cards {
		if !card.Matched {
			return false
		}
	}

	return true
}

// DotsBoard is a Size x Size grid of boxes. Horizontal is (Size+1) x Size, Vertical is Size x (Size+1).
type DotsBoard struct {
	Size       int     `json:"size"`
	Horizontal [][]int `json:"horizontal"`
	Vertical   [][]int `json:"vertical"`
	Boxes      [][]int `json:"boxes"`
}

func NewDotsBoard(size int) *DotsBoard {
	return &DotsBoard{
		Size:       size,
		Horizontal: newGrid(size+1, size),
		Vertical:   newGrid(size, size+1),
		Boxes:      newGrid(size, size),
	}
}

func (that *DotsBoard) Kind() GameType { return DotsAndBoxes }

func (that *DotsBoard) Masked(int) Board {
	return &DotsBoard{
		Size:       that.Size,
		Horizontal: copyGrid(that.Horizontal),
		Vertical:   copyGrid(that.Vertical),
		Boxes:      copyGrid(that.Boxes),
	}
}

// BoxClosed - all four edges around box (r, c) are drawn.
func (that *DotsBoard) BoxClosed(r, c int) bool {
	return that.Horizontal[r][c] != NoOwner && that.Horizontal[r+1][c] != NoOwner &&
		that.Vertical[r][c] != NoOwner && that.Vertical[r][c+1] != NoOwner
}

// BoxCount - boxes owned by the given seat mark.
func (that *DotsBoard) BoxCount(mark int) int {
	count := 0
	for _, row := range that.Boxes {
		for _, owner := range row {
			if owner == mark {
				count++
			}
		}
	}

	return count
}

func copyGrid(grid [][]int) [][]int {
	copied := make([][]int, len(grid))
	for i, row := range grid {
		copied[i] = append([]int(nil), row...)
	}

	return copied
}

func newGrid(rows, cols int) [][]int {
	grid := make([][]int, rows)
	for i := range grid {
		grid[i] = make([]int, cols)
	}

	return grid
}
