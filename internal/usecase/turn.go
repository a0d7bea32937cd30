package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/variant"
)

// advanceTurn - decides who moves next after an accepted move that did not end the round.
// It reports whether the move left a deferred resolution pending.
func advanceTurn(session *entity.Session, seat int, rule variant.TurnRule) bool {
	switch rule {
	case variant.NoTurn:
		session.Turn = ""
		session.Status = simultaneousStatus(session)
	case variant.KeepTurn:
		giveTurn(session, seat)
	case variant.HoldTurn:
		session.Turn = session.PlayerAt(seat).ID
		session.Status = "No match! Cards flip back shortly."

		return true
	default:
		giveTurn(session, 1-seat)
	}

	return false
}

func giveTurn(session *entity.Session, seat int) {
	next := session.PlayerAt(seat)
	session.Turn = next.ID
	session.Status = fmt.Sprintf("It's %s's turn.", next.Name)
}

func simultaneousStatus(session *entity.Session) string {
	board, ok := session.Board.(*entity.RPSBoard)
	if !ok || len(board.Choices) == 0 {
		return "Make your choice!"
	}

	for _, player := range session.Players {
		if _, chosen := board.Choices[player.ID]; !chosen {
			return fmt.Sprintf("Waiting for %s...", player.Name)
		}
	}

	return "Make your choice!"
}
