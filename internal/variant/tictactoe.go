package variant

import (
	"fmt"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

const playerTie = "-"

var winCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type TicTacToe struct{}

func NewTicTacToe() *TicTacToe {
	return &TicTacToe{}
}

func (that *TicTacToe) Kind() entity.GameType {
	return entity.TicTacToe
}

func (that *TicTacToe) NewBoard() entity.Board {
	return &entity.TicTacToeBoard{}
}

func (that *TicTacToe) Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error) {
	board, ok := session.Board.(*entity.TicTacToeBoard)
	if !ok {
		return Outcome{}, boardMismatch(session)
	}

	if err := validateCell(board, move); err != nil {
		return Outcome{}, fmt.Errorf("invalid turn: %w", err)
	}

	board.Cells[*move.Index] = entity.SeatSymbol(seat)

	switch result := checkGameStatus(board.Cells); result {
	case entity.PlayerX:
		return winner(0), nil
	case entity.PlayerO:
		return winner(1), nil
	case playerTie:
		return draw(), nil
	default:
		return proceed(PassTurn), nil
	}
}

// validateCell - checks if the target cell exists and is free.
func validateCell(board *entity.TicTacToeBoard, move entity.Move) error {
	if move.Index == nil {
		return invalidMove("index is required")
	}

	cell := *move.Index
	if cell < 0 || cell >= len(board.Cells) {
		return invalidMove("cell %d", cell)
	}

	if board.Cells[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

func checkGameStatus(cells [9]string) string {
	for _, combo := range winCombos {
		a, b, c := cells[combo[0]], cells[combo[1]], cells[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	// the round continues until all the squares are full
	for _, cell := range cells {
		if cell == entity.EmptyCell {
			return ""
		}
	}

	return playerTie
}
