package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/metrics"
	"github.com/rocketscienceinc/arcade-backend/internal/variant"
)

// startRound - fresh board for the session's variant; seat 0 opens every round.
func startRound(session *entity.Session, validator variant.Validator) {
	session.Board = validator.NewBoard()
	session.RoundOver = false
	session.Epoch++

	if session.Type.IsSimultaneous() {
		session.Turn = ""
		session.Status = simultaneousStatus(session)

		return
	}

	giveTurn(session, 0)
}

// endRound - marks the round finished; a nil seat is a draw.
func endRound(session *entity.Session, winnerSeat *int) {
	session.RoundOver = true
	session.Turn = ""

	if winnerSeat == nil {
		session.Status = "It's a draw!"
		metrics.RoundsFinished.WithLabelValues(string(session.Type), variant.Draw.String()).Inc()

		return
	}

	session.AwardWin(*winnerSeat)
	session.Status = fmt.Sprintf("%s wins the round!", session.PlayerAt(*winnerSeat).Name)
	metrics.RoundsFinished.WithLabelValues(string(session.Type), variant.Win.String()).Inc()
}

// checkMatchOver - ends the match once a seat reaches the win score.
func checkMatchOver(session *entity.Session, winScore int) {
	if !session.IsFull() || session.MatchOver {
		return
	}

	for _, player := range session.Players {
		if session.MatchScore[player.ID] >= winScore {
			session.MatchOver = true
			session.Status = fmt.Sprintf("%s wins the match!", player.Name)

			return
		}
	}
}
