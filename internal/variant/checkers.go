package variant

import (
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

// Checkers supports simple diagonal steps and single jumps. A jump always ends the turn:
// chained multi-jumps are not implemented.
type Checkers struct{}

func NewCheckers() *Checkers {
	return &Checkers{}
}

func (that *Checkers) Kind() entity.GameType {
	return entity.Checkers
}

// NewBoard - seat 2 men on the three top rows, seat 1 men on the three bottom rows, dark squares only.
func (that *Checkers) NewBoard() entity.Board {
	board := &entity.CheckersBoard{}
	for row := 0; row < entity.CheckersSize; row++ {
		for col := 0; col < entity.CheckersSize; col++ {
			if (row+col)%2 == 0 {
				continue
			}

			switch {
			case row < 3:
				board.Grid[row][col] = entity.SeatMark(1)
			case row > 4:
				board.Grid[row][col] = entity.SeatMark(0)
			}
		}
	}

	return board
}

func (that *Checkers) Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error) {
	board, ok := session.Board.(*entity.CheckersBoard)
	if !ok {
		return Outcome{}, boardMismatch(session)
	}

	if move.From == nil || move.To == nil {
		return Outcome{}, invalidMove("from and to are required")
	}

	from, to := *move.From, *move.To
	if !onBoard(from) || !onBoard(to) {
		return Outcome{}, invalidMove("square out of range")
	}

	mark := entity.SeatMark(seat)
	piece := board.Grid[from.Row][from.Col]
	if piece == entity.NoOwner || entity.PieceOwner(piece) != mark {
		return Outcome{}, invalidMove("no own piece at %d,%d", from.Row, from.Col)
	}

	if board.Grid[to.Row][to.Col] != entity.NoOwner {
		return Outcome{}, invalidMove("destination %d,%d is occupied", to.Row, to.Col)
	}

	dy, dx := to.Row-from.Row, to.Col-from.Col
	if !entity.IsKing(piece) && !forward(mark, dy) {
		return Outcome{}, invalidMove("men only move forward")
	}

	switch {
	case abs(dy) == 2 && abs(dx) == 2:
		midRow, midCol := from.Row+dy/2, from.Col+dx/2
		jumped := board.Grid[midRow][midCol]
		if jumped == entity.NoOwner || entity.PieceOwner(jumped) == mark {
			return Outcome{}, invalidMove("must jump an opponent piece")
		}
		board.Grid[midRow][midCol] = entity.NoOwner
	case abs(dy) == 1 && abs(dx) == 1:
	default:
		return Outcome{}, invalidMove("not a diagonal step or jump")
	}

	board.Grid[to.Row][to.Col] = piece
	board.Grid[from.Row][from.Col] = entity.NoOwner

	if !entity.IsKing(piece) && to.Row == backRank(mark) {
		board.Grid[to.Row][to.Col] = mark * entity.KingFactor
	}

	if countPieces(board, opponentMark(mark)) == 0 {
		return winner(seat), nil
	}

	return proceed(PassTurn), nil
}

func onBoard(square entity.Square) bool {
	return square.Row >= 0 && square.Row < entity.CheckersSize && square.Col >= 0 && square.Col < entity.CheckersSize
}

// forward - seat 1 moves up the board (towards row 0), seat 2 moves down.
func forward(mark, dy int) bool {
	if mark == entity.SeatMark(0) {
		return dy < 0
	}

	return dy > 0
}

// backRank - the row on which a man of the given mark is promoted.
func backRank(mark int) int {
	if mark == entity.SeatMark(0) {
		return 0
	}

	return entity.CheckersSize - 1
}

func opponentMark(mark int) int {
	if mark == entity.SeatMark(0) {
		return entity.SeatMark(1)
	}

	return entity.SeatMark(0)
}

func countPieces(board *entity.CheckersBoard, mark int) int {
	count := 0
	for _, row := range board.Grid {
		for _, value := range row {
			if value != entity.NoOwner && entity.PieceOwner(value) == mark {
				count++
			}
		}
	}

	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
