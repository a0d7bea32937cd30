package variant

import (
	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

type Battleship struct {
	random Random
}

func NewBattleship(random Random) *Battleship {
	return &Battleship{random: random}
}

func (that *Battleship) Kind() entity.GameType {
	return entity.Battleship
}

// NewBoard - places the fleet of each seat independently at random.
func (that *Battleship) NewBoard() entity.Board {
	board := &entity.BattleshipBoard{}
	for seat := range board.Seats {
		board.Seats[seat].Ships = placeFleet(that.random)
	}

	return board
}

func (that *Battleship) Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error) {
	board, ok := session.Board.(*entity.BattleshipBoard)
	if !ok {
		return Outcome{}, boardMismatch(session)
	}

	if move.Index == nil {
		return Outcome{}, invalidMove("index is required")
	}

	cell := *move.Index
	if cell < 0 || cell >= entity.BattleshipCells {
		return Outcome{}, invalidMove("cell %d", cell)
	}

	target := &board.Seats[1-seat]
	if target.Shots[cell] != entity.ShotUnknown {
		return Outcome{}, apperror.ErrCellOccupied
	}

	if !target.HasShipAt(cell) {
		target.Shots[cell] = entity.ShotMiss
		return proceed(PassTurn), nil
	}

	target.Shots[cell] = entity.ShotHit
	if target.AllSunk() {
		return winner(seat), nil
	}

	return proceed(PassTurn), nil
}

// placeFleet - retries each ship until it fits inside the grid without overlapping the others.
func placeFleet(random Random) []int {
	occupied := make(map[int]bool)
	cells := make([]int, 0, 17)

	for _, length := range entity.BattleshipFleet {
		for {
			horizontal := random.IntN(2) == 0

			var row, col int
			if horizontal {
				row, col = random.IntN(entity.BattleshipSize), random.IntN(entity.BattleshipSize-length+1)
			} else {
				row, col = random.IntN(entity.BattleshipSize-length+1), random.IntN(entity.BattleshipSize)
			}

			ship := make([]int, 0, length)
			for i := 0; i < length; i++ {
				r, c := row, col+i
				if !horizontal {
					r, c = row+i, col
				}
				ship = append(ship, r*entity.BattleshipSize+c)
			}

			if overlaps(occupied, ship) {
				continue
			}

			for _, cell := range ship {
				occupied[cell] = true
			}
			cells = append(cells, ship...)

			break
		}
	}

	return cells
}

func overlaps(occupied map[int]bool, ship []int) bool {
	for _, cell := range ship {
		if occupied[cell] {
			return true
		}
	}

	return false
}
