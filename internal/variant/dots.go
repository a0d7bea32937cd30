package variant

import (
	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

const (
	horizontalEdge = "h"
	verticalEdge   = "v"

	defaultDotsSize = 4
)

// DotsAndBoxes claims one edge per move; closing a box grants another move.
type DotsAndBoxes struct {
	size int
}

func NewDotsAndBoxes(size int) *DotsAndBoxes {
	if size < 1 {
		size = defaultDotsSize
	}

	return &DotsAndBoxes{size: size}
}

func (that *DotsAndBoxes) Kind() entity.GameType {
	return entity.DotsAndBoxes
}

func (that *DotsAndBoxes) NewBoard() entity.Board {
	return entity.NewDotsBoard(that.size)
}

func (that *DotsAndBoxes) Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error) {
	board, ok := session.Board.(*entity.DotsBoard)
	if !ok {
		return Outcome{}, boardMismatch(session)
	}

	if move.Row == nil || move.Col == nil {
		return Outcome{}, invalidMove("r and c are required")
	}

	r, c := *move.Row, *move.Col

	var edges [][]int
	switch move.Edge {
	case horizontalEdge:
		edges = board.Horizontal
	case verticalEdge:
		edges = board.Vertical
	default:
		return Outcome{}, invalidMove("edge type %q", move.Edge)
	}

	if r < 0 || r >= len(edges) || c < 0 || c >= len(edges[r]) {
		return Outcome{}, invalidMove("edge %s %d,%d", move.Edge, r, c)
	}

	if edges[r][c] != entity.NoOwner {
		return Outcome{}, apperror.ErrCellOccupied
	}

	mark := entity.SeatMark(seat)
	edges[r][c] = mark

	completed := 0
	for _, box := range adjacentBoxes(move.Edge, r, c) {
		row, col := box[0], box[1]
		if row < 0 || row >= board.Size || col < 0 || col >= board.Size {
			continue
		}

		if board.Boxes[row][col] == entity.NoOwner && board.BoxClosed(row, col) {
			board.Boxes[row][col] = mark
			completed++
		}
	}

	first, second := board.BoxCount(entity.SeatMark(0)), board.BoxCount(entity.SeatMark(1))
	if first+second == board.Size*board.Size {
		switch {
		case first > second:
			return winner(0), nil
		case second > first:
			return winner(1), nil
		default:
			return draw(), nil
		}
	}

	if completed > 0 {
		return proceed(KeepTurn), nil
	}

	return proceed(PassTurn), nil
}

// adjacentBoxes - the (up to two) boxes bounded by an edge.
func adjacentBoxes(edge string, r, c int) [][2]int {
	if edge == horizontalEdge {
		return [][2]int{{r - 1, c}, {r, c}}
	}

	return [][2]int{{r, c - 1}, {r, c}}
}
