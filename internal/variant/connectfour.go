package variant

import (
	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

const connectLength = 4

var directions = [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

type ConnectFour struct{}

func NewConnectFour() *ConnectFour {
	return &ConnectFour{}
}

func (that *ConnectFour) Kind() entity.GameType {
	return entity.ConnectFour
}

func (that *ConnectFour) NewBoard() entity.Board {
	return &entity.ConnectFourBoard{}
}

func (that *ConnectFour) Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error) {
	board, ok := session.Board.(*entity.ConnectFourBoard)
	if !ok {
		return Outcome{}, boardMismatch(session)
	}

	if move.Column == nil {
		return Outcome{}, invalidMove("column is required")
	}

	column := *move.Column
	if column < 0 || column >= entity.ConnectFourColumns {
		return Outcome{}, invalidMove("column %d", column)
	}

	row := lowestEmptyRow(board, column)
	if row < 0 {
		return Outcome{}, apperror.ErrCellOccupied
	}

	mark := entity.SeatMark(seat)
	board.Grid[row][column] = mark

	if hasConnectFour(board, mark) {
		return winner(seat), nil
	}

	if isFull(board) {
		return draw(), nil
	}

	return proceed(PassTurn), nil
}

func lowestEmptyRow(board *entity.ConnectFourBoard, column int) int {
	for row := entity.ConnectFourRows - 1; row >= 0; row-- {
		if board.Grid[row][column] == entity.NoOwner {
			return row
		}
	}

	return -1
}

// hasConnectFour - scans every window of four in all directions across the whole grid.
func hasConnectFour(board *entity.ConnectFourBoard, mark int) bool {
	for row := 0; row < entity.ConnectFourRows; row++ {
		for col := 0; col < entity.ConnectFourColumns; col++ {
			for _, dir := range directions {
				if lineOf(board, mark, row, col, dir) {
					return true
				}
			}
		}
	}

	return false
}

func lineOf(board *entity.ConnectFourBoard, mark, row, col int, dir [2]int) bool {
	for step := 0; step < connectLength; step++ {
		r, c := row+dir[0]*step, col+dir[1]*step
		if r < 0 || r >= entity.ConnectFourRows || c < 0 || c >= entity.ConnectFourColumns {
			return false
		}
		if board.Grid[r][c] != mark {
			return false
		}
	}

	return true
}

func isFull(board *entity.ConnectFourBoard) bool {
	for col := 0; col < entity.ConnectFourColumns; col++ {
		if board.Grid[0][col] == entity.NoOwner {
			return false
		}
	}

	return true
}
