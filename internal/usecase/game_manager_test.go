package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

type cellMove struct {
	player string
	cell   int
}

// playTicTacToeRound - plays a full round that the given seat wins. Seat 0 always opens.
func playTicTacToeRound(t *testing.T, e *engine, gameID string, winnerSeat int) {
	t.Helper()

	moves := []cellMove{{"p1", 0}, {"p2", 3}, {"p1", 1}, {"p2", 4}, {"p1", 2}}
	if winnerSeat == 1 {
		moves = []cellMove{{"p1", 0}, {"p2", 3}, {"p1", 1}, {"p2", 4}, {"p1", 8}, {"p2", 5}}
	}

	for _, move := range moves {
		require.NoError(t, e.MakeMove(context.Background(), move.player, gameID, index(move.cell)))
	}
}

func TestGameManager_CreateGame(t *testing.T) {
	t.Run("CreateGame_Success", func(t *testing.T) {
		e := newEngine(t)

		// When: a player creates a connect-four game
		gameID, err := e.CreateGame(context.Background(), "p1", entity.ConnectFour, "Alice")
		require.NoError(t, err)

		// Then: the creator gets created and a waiting game state
		events := e.events.of("p1")
		require.Len(t, events, 2)
		assert.Equal(t, entity.CreatedEvent(gameID), events[0])
		assert.Equal(t, entity.EventGameState, events[1].Type)
		assert.Equal(t, "Waiting for an opponent...", events[1].Game.Status)
		assert.Nil(t, events[1].Game.Board)

		current, ok := e.registry.SessionOf("p1")
		require.True(t, ok)
		assert.Equal(t, gameID, current)
	})

	t.Run("CreateGame_UnknownType", func(t *testing.T) {
		e := newEngine(t)

		_, err := e.CreateGame(context.Background(), "p1", "chess", "")

		require.ErrorIs(t, err, apperror.ErrUnknownGameType)
		assert.Equal(t, entity.EventError, e.events.last("p1").Type)
		assert.Equal(t, 0, e.registry.Len())
	})

	t.Run("CreateGame_LeavesPreviousGame", func(t *testing.T) {
		e := newEngine(t)
		oldID := e.startGame(t, entity.TicTacToe)

		// When: p1 creates another game while seated
		newID, err := e.CreateGame(context.Background(), "p1", entity.Checkers, "Alice")
		require.NoError(t, err)

		// Then: the old game is torn down and the opponent is told
		_, ok := e.registry.Lookup(oldID)
		assert.False(t, ok)
		assert.Equal(t, entity.OpponentLeftEvent(), e.events.last("p2"))

		current, _ := e.registry.SessionOf("p1")
		assert.Equal(t, newID, current)
		assert.Equal(t, 1, e.registry.Len())
	})
}

func TestGameManager_JoinGame(t *testing.T) {
	t.Run("JoinGame_Success", func(t *testing.T) {
		e := newEngine(t)

		// When: p2 joins p1's game
		gameID := e.startGame(t, entity.TicTacToe)

		// Then: both seats get the started game with seat 0 to move
		for _, player := range []string{"p1", "p2"} {
			event := e.events.last(player)
			require.Equal(t, entity.EventGameState, event.Type, player)
			assert.Equal(t, gameID, event.Game.ID)
			assert.Equal(t, "p1", event.Game.Turn)
			assert.Equal(t, "It's Alice's turn.", event.Game.Status)
			assert.Equal(t, map[string]int{"p1": 0, "p2": 0}, event.Game.MatchScore)
			assert.Equal(t, uint64(1), event.Game.Epoch)
			assert.NotNil(t, event.Game.Board)
		}
	})

	t.Run("JoinGame_Full", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)

		err := e.JoinGame(context.Background(), "p3", gameID, "")

		require.ErrorIs(t, err, apperror.ErrGameFull)
		assert.Equal(t, entity.ErrorEvent("Game not found or is full."), e.events.last("p3"))
	})

	t.Run("JoinGame_NotFound", func(t *testing.T) {
		e := newEngine(t)

		err := e.JoinGame(context.Background(), "p3", "missing", "")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Equal(t, entity.ErrorEvent("Game not found or is full."), e.events.last("p3"))
	})

	t.Run("JoinGame_OwnGame", func(t *testing.T) {
		e := newEngine(t)
		gameID, err := e.CreateGame(context.Background(), "p1", entity.TicTacToe, "")
		require.NoError(t, err)

		// When: the creator joins their own game
		err = e.JoinGame(context.Background(), "p1", gameID, "")

		// Then: the state is resent and the session stays waiting
		require.NoError(t, err)
		assert.Equal(t, entity.EventGameState, e.events.last("p1").Type)
		assert.Len(t, e.snapshot(t, gameID).Players, 1)
	})

	t.Run("JoinGame_FailureKeepsCurrentGame", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)
		aliceEvents := len(e.events.of("p1"))

		// When: a seated player fails to join a game that does not exist
		err := e.JoinGame(context.Background(), "p2", "does-not-exist", "Bob")

		// Then: only the requester hears about it and the live game is untouched
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Equal(t, entity.ErrorEvent("Game not found or is full."), e.events.last("p2"))
		assert.Len(t, e.events.of("p1"), aliceEvents)

		current, ok := e.registry.SessionOf("p2")
		require.True(t, ok)
		assert.Equal(t, gameID, current)
		assert.Len(t, e.snapshot(t, gameID).Players, 2)
		require.NoError(t, e.MakeMove(context.Background(), "p1", gameID, index(4)))
	})

	t.Run("JoinGame_FullKeepsCurrentGame", func(t *testing.T) {
		e := newEngine(t)
		fullID := e.startGame(t, entity.TicTacToe)
		ownID, err := e.CreateGame(context.Background(), "p3", entity.Checkers, "Carol")
		require.NoError(t, err)

		err = e.JoinGame(context.Background(), "p3", fullID, "Carol")

		require.ErrorIs(t, err, apperror.ErrGameFull)
		current, ok := e.registry.SessionOf("p3")
		require.True(t, ok)
		assert.Equal(t, ownID, current)
		assert.Equal(t, 2, e.registry.Len())
	})

	t.Run("JoinGame_LeavesPreviousGameAfterSeating", func(t *testing.T) {
		e := newEngine(t)
		oldID := e.startGame(t, entity.TicTacToe)
		newID, err := e.CreateGame(context.Background(), "p3", entity.ConnectFour, "Carol")
		require.NoError(t, err)

		// When: p2 moves to Carol's game
		require.NoError(t, e.JoinGame(context.Background(), "p2", newID, "Bob"))

		// Then: the old game is gone, Alice is told and Bob plays in the new one
		_, ok := e.registry.Lookup(oldID)
		assert.False(t, ok)
		assert.Equal(t, entity.OpponentLeftEvent(), e.events.last("p1"))

		current, ok := e.registry.SessionOf("p2")
		require.True(t, ok)
		assert.Equal(t, newID, current)
		assert.Len(t, e.snapshot(t, newID).Players, 2)
		assert.Equal(t, entity.EventGameState, e.events.last("p2").Type)
		assert.Equal(t, 1, e.registry.Len())
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	t.Run("Turn passes after an accepted move", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)

		require.NoError(t, e.MakeMove(context.Background(), "p1", gameID, index(4)))

		snapshot := e.snapshot(t, gameID)
		assert.Equal(t, "p2", snapshot.Turn)
		assert.Equal(t, "It's Bob's turn.", snapshot.Status)
		assert.Equal(t, entity.PlayerX, snapshot.Board.(*entity.TicTacToeBoard).Cells[4])
	})

	t.Run("Rejected moves are silent and change nothing", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)
		ctx := context.Background()

		before := len(e.events.of("p1")) + len(e.events.of("p2"))

		err := e.MakeMove(ctx, "p2", gameID, index(0))
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		err = e.MakeMove(ctx, "p3", gameID, index(0))
		require.ErrorIs(t, err, apperror.ErrNotInGame)

		err = e.MakeMove(ctx, "p1", gameID, index(42))
		require.ErrorIs(t, err, apperror.ErrInvalidMove)

		err = e.MakeMove(ctx, "p1", gameID, nil)
		require.ErrorIs(t, err, apperror.ErrInvalidMove)

		err = e.MakeMove(ctx, "p1", "missing", index(0))
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		assert.Equal(t, before, len(e.events.of("p1"))+len(e.events.of("p2")))
		assert.Equal(t, [9]string{}, e.snapshot(t, gameID).Board.(*entity.TicTacToeBoard).Cells)
	})

	t.Run("Error before the second seat joins", func(t *testing.T) {
		e := newEngine(t)
		gameID, err := e.CreateGame(context.Background(), "p1", entity.TicTacToe, "")
		require.NoError(t, err)

		err = e.MakeMove(context.Background(), "p1", gameID, index(0))
		require.ErrorIs(t, err, apperror.ErrGameNotStarted)
	})

	t.Run("Winning a round scores and blocks further moves", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)

		playTicTacToeRound(t, e, gameID, 0)

		snapshot := e.snapshot(t, gameID)
		assert.True(t, snapshot.RoundOver)
		assert.False(t, snapshot.MatchOver)
		assert.Empty(t, snapshot.Turn)
		assert.Equal(t, "Alice wins the round!", snapshot.Status)
		assert.Equal(t, map[string]int{"p1": 1, "p2": 0}, snapshot.MatchScore)
		assert.Equal(t, 1, snapshot.Players[0].Wins)

		err := e.MakeMove(context.Background(), "p2", gameID, index(8))
		require.ErrorIs(t, err, apperror.ErrRoundOver)
	})

	t.Run("Simultaneous variant has no turn owner", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.RockPaperScissors)
		ctx := context.Background()

		assert.Empty(t, e.snapshot(t, gameID).Turn)
		assert.Equal(t, "Make your choice!", e.snapshot(t, gameID).Status)

		require.NoError(t, e.MakeMove(ctx, "p2", gameID, &entity.Move{Choice: entity.Paper}))
		assert.Equal(t, "Waiting for Alice...", e.snapshot(t, gameID).Status)

		require.NoError(t, e.MakeMove(ctx, "p1", gameID, &entity.Move{Choice: entity.Rock}))

		snapshot := e.snapshot(t, gameID)
		assert.True(t, snapshot.RoundOver)
		assert.Equal(t, map[string]int{"p1": 0, "p2": 1}, snapshot.MatchScore)
		assert.Equal(t, "Bob wins the round!", snapshot.Status)
	})

	t.Run("Closing a box grants another move", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.DotsAndBoxes)
		ctx := context.Background()

		edge := func(kind string, r, c int) *entity.Move {
			return &entity.Move{Edge: kind, Row: &r, Col: &c}
		}

		require.NoError(t, e.MakeMove(ctx, "p1", gameID, edge("h", 0, 0)))
		require.NoError(t, e.MakeMove(ctx, "p2", gameID, edge("h", 1, 0)))
		require.NoError(t, e.MakeMove(ctx, "p1", gameID, edge("v", 0, 0)))
		require.NoError(t, e.MakeMove(ctx, "p2", gameID, edge("v", 0, 1)))

		snapshot := e.snapshot(t, gameID)
		assert.Equal(t, "p2", snapshot.Turn)
		assert.Equal(t, 2, snapshot.Board.(*entity.DotsBoard).Boxes[0][0])
	})
}

func memoryBoard() *entity.MemoryBoard {
	return &entity.MemoryBoard{Cards: []entity.Card{
		{Symbol: "A"}, {Symbol: "B"}, {Symbol: "A"}, {Symbol: "B"},
	}}
}

func TestGameManager_MemoryConceal(t *testing.T) {
	t.Run("Mismatch flips back and passes the turn", func(t *testing.T) {
		// Given: a memory game with a known deck
		e := newEngine(t)
		gameID := e.startGame(t, entity.MemoryMatch)
		e.setBoard(t, gameID, memoryBoard())
		ctx := context.Background()

		// When: p1 flips a mismatched pair
		require.NoError(t, e.MakeMove(ctx, "p1", gameID, index(0)))
		require.NoError(t, e.MakeMove(ctx, "p1", gameID, index(1)))

		// Then: the cards stay face up, the turn is held and further flips are rejected
		snapshot := e.snapshot(t, gameID)
		assert.Equal(t, "p1", snapshot.Turn)
		assert.Equal(t, "B", snapshot.Board.(*entity.MemoryBoard).Cards[1].Symbol)
		require.Equal(t, 1, e.scheduler.pending())

		err := e.MakeMove(ctx, "p1", gameID, index(2))
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		err = e.MakeMove(ctx, "p2", gameID, index(2))
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		// When: the reveal delay elapses
		e.scheduler.runAll()

		// Then: both cards are hidden and p2 moves next
		snapshot = e.snapshot(t, gameID)
		board := snapshot.Board.(*entity.MemoryBoard)
		assert.Equal(t, "p2", snapshot.Turn)
		assert.False(t, board.Cards[0].FaceUp)
		assert.Empty(t, board.Cards[1].Symbol)
		assert.Empty(t, board.Revealed)
		assert.Equal(t, snapshot.Turn, e.events.last("p2").Game.Turn)
	})

	t.Run("Stale task after a reset is a no-op", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.MemoryMatch)
		e.setBoard(t, gameID, memoryBoard())
		ctx := context.Background()

		require.NoError(t, e.MakeMove(ctx, "p1", gameID, index(0)))
		require.NoError(t, e.MakeMove(ctx, "p1", gameID, index(1)))

		// When: the round is reset before the delay elapses
		require.NoError(t, e.ResetRound(ctx, "p2", gameID))
		e.setBoard(t, gameID, memoryBoard())
		require.NoError(t, e.MakeMove(ctx, "p1", gameID, index(0)))

		before := len(e.events.of("p1"))
		e.scheduler.runAll()

		// Then: the new round is untouched
		snapshot := e.snapshot(t, gameID)
		assert.Equal(t, "p1", snapshot.Turn)
		assert.True(t, snapshot.Board.(*entity.MemoryBoard).Cards[0].FaceUp)
		assert.Len(t, e.events.of("p1"), before)
	})

	t.Run("Task for a removed session is dropped", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.MemoryMatch)
		e.setBoard(t, gameID, memoryBoard())
		ctx := context.Background()

		require.NoError(t, e.MakeMove(ctx, "p1", gameID, index(0)))
		require.NoError(t, e.MakeMove(ctx, "p1", gameID, index(1)))
		e.Disconnect(ctx, "p2")

		before := len(e.events.of("p1"))
		e.scheduler.runAll()

		assert.Len(t, e.events.of("p1"), before)
	})
}

func TestGameManager_ResetRound(t *testing.T) {
	t.Run("Reset keeps the match score", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)
		playTicTacToeRound(t, e, gameID, 1)

		require.NoError(t, e.ResetRound(context.Background(), "p1", gameID))

		snapshot := e.snapshot(t, gameID)
		assert.False(t, snapshot.RoundOver)
		assert.Equal(t, "p1", snapshot.Turn)
		assert.Equal(t, uint64(2), snapshot.Epoch)
		assert.Equal(t, map[string]int{"p1": 0, "p2": 1}, snapshot.MatchScore)
		assert.Equal(t, [9]string{}, snapshot.Board.(*entity.TicTacToeBoard).Cells)
	})

	t.Run("Match ends at the win score", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)
		ctx := context.Background()

		for round := 0; round < 3; round++ {
			if round > 0 {
				require.NoError(t, e.ResetRound(ctx, "p2", gameID))
			}
			playTicTacToeRound(t, e, gameID, 0)
		}

		snapshot := e.snapshot(t, gameID)
		assert.True(t, snapshot.MatchOver)
		assert.Equal(t, "Alice wins the match!", snapshot.Status)
		assert.Equal(t, 3, snapshot.MatchScore["p1"])

		err := e.ResetRound(ctx, "p1", gameID)
		require.ErrorIs(t, err, apperror.ErrMatchOver)

		err = e.MakeMove(ctx, "p1", gameID, index(8))
		require.ErrorIs(t, err, apperror.ErrMatchOver)
	})

	t.Run("Error from an outsider or before the match starts", func(t *testing.T) {
		e := newEngine(t)
		gameID, err := e.CreateGame(context.Background(), "p1", entity.TicTacToe, "")
		require.NoError(t, err)

		err = e.ResetRound(context.Background(), "p1", gameID)
		require.ErrorIs(t, err, apperror.ErrGameNotStarted)

		err = e.ResetRound(context.Background(), "p9", gameID)
		require.ErrorIs(t, err, apperror.ErrNotInGame)
	})
}

func TestGameManager_Chat(t *testing.T) {
	e := newEngine(t)
	gameID := e.startGame(t, entity.Checkers)

	require.NoError(t, e.Chat(context.Background(), "p2", gameID, "", "good luck"))

	assert.Equal(t, entity.ChatEvent("Bob", "good luck"), e.events.last("p1"))
	assert.Equal(t, entity.ChatEvent("Bob", "good luck"), e.events.last("p2"))

	err := e.Chat(context.Background(), "p3", gameID, "Eve", "hi")
	require.ErrorIs(t, err, apperror.ErrNotInGame)
}

func TestGameManager_Leave(t *testing.T) {
	t.Run("Disconnect tears the session down", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.Battleship)
		p1Events := len(e.events.of("p1"))

		// When: p1 disconnects
		e.Disconnect(context.Background(), "p1")

		// Then: only p2 is told, and the session is gone
		assert.Equal(t, entity.OpponentLeftEvent(), e.events.last("p2"))
		assert.Len(t, e.events.of("p1"), p1Events)

		_, ok := e.registry.Lookup(gameID)
		assert.False(t, ok)
		_, ok = e.registry.SessionOf("p2")
		assert.False(t, ok)

		// Then: a second disconnect is harmless
		e.Disconnect(context.Background(), "p2")
	})

	t.Run("Leave another game is rejected", func(t *testing.T) {
		e := newEngine(t)
		gameID := e.startGame(t, entity.TicTacToe)

		err := e.Leave(context.Background(), "p1", "other")
		require.ErrorIs(t, err, apperror.ErrNotInGame)

		require.NoError(t, e.Leave(context.Background(), "p1", gameID))
		assert.Equal(t, 0, e.registry.Len())
	})
}

func TestGameManager_Handle(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Handle(ctx, "p1", &entity.Command{Type: entity.CommandCreate, GameType: entity.TicTacToe}))
	created := e.events.of("p1")[0]
	require.Equal(t, entity.EventCreated, created.Type)

	require.NoError(t, e.Handle(ctx, "p2", &entity.Command{Type: entity.CommandJoin, GameID: created.GameID}))
	require.NoError(t, e.Handle(ctx, "p1", &entity.Command{Type: entity.CommandMove, GameID: created.GameID, Move: index(0)}))
	require.NoError(t, e.Handle(ctx, "p2", &entity.Command{Type: entity.CommandChat, GameID: created.GameID, Message: "hi"}))
	require.NoError(t, e.Handle(ctx, "p2", &entity.Command{Type: entity.CommandResetRound, GameID: created.GameID}))
	require.NoError(t, e.Handle(ctx, "p2", &entity.Command{Type: entity.CommandLeave, GameID: created.GameID}))

	err := e.Handle(ctx, "p1", &entity.Command{Type: "dance"})
	require.ErrorIs(t, err, apperror.ErrUnknownCommand)
}

type fakeMirror struct {
	published []*entity.Snapshot
	forgotten []string
}

func (that *fakeMirror) Publish(snapshot *entity.Snapshot) {
	that.published = append(that.published, snapshot)
}

func (that *fakeMirror) Forget(id string) {
	that.forgotten = append(that.forgotten, id)
}

func TestGameManager_Mirror(t *testing.T) {
	// Given: an engine mirroring snapshots
	mirror := &fakeMirror{}
	e := newEngine(t, WithMirror(mirror))

	// When: a battleship game starts and ends
	gameID := e.startGame(t, entity.Battleship)
	e.Disconnect(context.Background(), "p1")

	// Then: public snapshots without ships were published, then the id was forgotten
	require.NotEmpty(t, mirror.published)
	last := mirror.published[len(mirror.published)-1]
	board := last.Board.(*entity.BattleshipBoard)
	assert.Nil(t, board.Seats[0].Ships)
	assert.Nil(t, board.Seats[1].Ships)
	assert.Equal(t, []string{gameID}, mirror.forgotten)
}

func TestGameManager_MatchScoreInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newEngine(t)
		ctx := context.Background()

		gameID, err := e.CreateGame(ctx, "p1", entity.TicTacToe, "Alice")
		if err != nil {
			rt.Fatalf("create: %v", err)
		}
		if err = e.JoinGame(ctx, "p2", gameID, "Bob"); err != nil {
			rt.Fatalf("join: %v", err)
		}

		steps := rapid.IntRange(1, 120).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			player := rapid.SampledFrom([]string{"p1", "p2"}).Draw(rt, "player")
			if rapid.IntRange(0, 9).Draw(rt, "action") == 0 {
				_ = e.ResetRound(ctx, player, gameID)
			} else {
				_ = e.MakeMove(ctx, player, gameID, index(rapid.IntRange(0, 8).Draw(rt, "cell")))
			}

			snapshot, ok := e.registry.Lookup(gameID)
			if !ok {
				rt.Fatalf("session vanished")
			}

			reached := false
			for id, score := range snapshot.MatchScore {
				if score > 3 {
					rt.Fatalf("%s score %d exceeds the win score", id, score)
				}
				reached = reached || score == 3
			}

			if reached != snapshot.MatchOver {
				rt.Fatalf("matchOver=%v with score %v", snapshot.MatchOver, snapshot.MatchScore)
			}

			if !snapshot.RoundOver && snapshot.Turn != "p1" && snapshot.Turn != "p2" {
				rt.Fatalf("turn %q is not a seated player", snapshot.Turn)
			}
		}
	})
}
