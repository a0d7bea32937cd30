package variant

import (
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

// RockPaperScissors records both choices independently and resolves once the second one arrives.
type RockPaperScissors struct{}

func NewRockPaperScissors() *RockPaperScissors {
	return &RockPaperScissors{}
}

func (that *RockPaperScissors) Kind() entity.GameType {
	return entity.RockPaperScissors
}

func (that *RockPaperScissors) NewBoard() entity.Board {
	return entity.NewRPSBoard()
}

func (that *RockPaperScissors) Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error) {
	board, ok := session.Board.(*entity.RPSBoard)
	if !ok {
		return Outcome{}, boardMismatch(session)
	}

	if !isChoice(move.Choice) {
		return Outcome{}, invalidMove("choice %q", move.Choice)
	}

	player := session.PlayerAt(seat)
	if _, chosen := board.Choices[player.ID]; chosen {
		return Outcome{}, invalidMove("already chose this round")
	}

	board.Choices[player.ID] = move.Choice
	if len(board.Choices) < entity.MaxSeats {
		return proceed(NoTurn), nil
	}

	first, second := session.PlayerAt(0).ID, session.PlayerAt(1).ID
	outcome := decide(board.Choices[first], board.Choices[second])

	board.LastChoices = board.Choices
	board.Choices = make(map[string]string, entity.MaxSeats)

	switch outcome {
	case "win":
		return winner(0), nil
	case "lose":
		return winner(1), nil
	default:
		return draw(), nil
	}
}

func isChoice(choice string) bool {
	return choice == entity.Rock || choice == entity.Paper || choice == entity.Scissors
}

// decide - result of move A against move B.
func decide(moveA, moveB string) string {
	if moveA == moveB {
		return "draw"
	}

	switch moveA {
	case entity.Rock:
		if moveB == entity.Scissors {
			return "win"
		}
	case entity.Paper:
		if moveB == entity.Rock {
			return "win"
		}
	case entity.Scissors:
		if moveB == entity.Paper {
			return "win"
		}
	}

	return "lose"
}
