package variant

import (
	"strconv"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

const (
	minMemoryPairs     = 2
	defaultMemoryPairs = 8
)

var memorySymbols = []string{"🍎", "🍌", "🍒", "🍇", "🍉", "🍋", "🍑", "🍍", "🥝", "🥥", "🍓", "🫐"}

// MemoryMatch flips one card per move. A mismatched pair stays face up until Conceal is called.
type MemoryMatch struct {
	pairs  int
	random Random
}

func NewMemoryMatch(pairs int, random Random) *MemoryMatch {
	if pairs < minMemoryPairs {
		pairs = defaultMemoryPairs
	}

	return &MemoryMatch{pairs: pairs, random: random}
}

func (that *MemoryMatch) Kind() entity.GameType {
	return entity.MemoryMatch
}

func (that *MemoryMatch) NewBoard() entity.Board {
	cards := make([]entity.Card, 0, that.pairs*2)
	for i := 0; i < that.pairs; i++ {
		symbol := strconv.Itoa(i + 1)
		if i < len(memorySymbols) {
			symbol = memorySymbols[i]
		}
		cards = append(cards, entity.Card{Symbol: symbol}, entity.Card{Symbol: symbol})
	}

	shuffle(that.random, len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &entity.MemoryBoard{Cards: cards}
}

func (that *MemoryMatch) Apply(session *entity.Session, seat int, move entity.Move) (Outcome, error) {
	board, ok := session.Board.(*entity.MemoryBoard)
	if !ok {
		return Outcome{}, boardMismatch(session)
	}

	if move.Index == nil {
		return Outcome{}, invalidMove("index is required")
	}

	index := *move.Index
	if index < 0 || index >= len(board.Cards) {
		return Outcome{}, invalidMove("card %d", index)
	}

	if len(board.Revealed) >= 2 {
		return Outcome{}, invalidMove("waiting for revealed cards to turn back")
	}

	card := &board.Cards[index]
	if card.FaceUp || card.Matched {
		return Outcome{}, apperror.ErrCellOccupied
	}

	card.FaceUp = true
	board.Revealed = append(board.Revealed, index)
	if len(board.Revealed) < 2 {
		return proceed(KeepTurn), nil
	}

	first, second := &board.Cards[board.Revealed[0]], &board.Cards[board.Revealed[1]]
	if first.Symbol != second.Symbol {
		return proceed(HoldTurn), nil
	}

	first.Matched, second.Matched = true, true
	board.Revealed = nil
	board.Points[seat]++

	if !board.AllMatched() {
		return proceed(KeepTurn), nil
	}

	switch {
	case board.Points[0] > board.Points[1]:
		return winner(0), nil
	case board.Points[1] > board.Points[0]:
		return winner(1), nil
	default:
		return draw(), nil
	}
}

// Conceal - turns the mismatched pair face down again.
func (that *MemoryMatch) Conceal(session *entity.Session) bool {
	board, ok := session.Board.(*entity.MemoryBoard)
	if !ok || len(board.Revealed) == 0 {
		return false
	}

	for _, index := range board.Revealed {
		board.Cards[index].FaceUp = false
	}
	board.Revealed = nil

	return true
}
