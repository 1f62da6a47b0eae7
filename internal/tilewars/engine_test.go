package tilewars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tilewars-backend/internal/apperror"
	"github.com/rocketscienceinc/tilewars-backend/internal/entity"
)

// startedGame returns a running game with the given participants joined
// in order.
func startedGame(t *testing.T, ids ...string) *Game {
	t.Helper()

	game := NewGame("42")
	for _, id := range ids {
		require.True(t, game.AddPlayer(id, "name-"+id))
	}
	require.True(t, game.Start())

	return game
}

// holdTile plants a known tile into slot 0 of a participant's hand so a
// move can be scripted despite the shuffled bag.
func holdTile(t *testing.T, game *Game, id, tile string) {
	t.Helper()

	player, ok := game.Player(id)
	require.True(t, ok)
	player.Hand[0] = tile
}

func TestGame_AddPlayer(t *testing.T) {
	t.Run("Accepts joins up to capacity", func(t *testing.T) {
		game := NewGame("1")

		for _, id := range []string{"a", "b", "c", "d", "e"} {
			assert.True(t, game.AddPlayer(id, id))
		}

		// Then: the sixth participant is turned away
		assert.False(t, game.AddPlayer("f", "f"))
		assert.Equal(t, MaxPlayers, game.PlayerCount())
	})

	t.Run("Rejects joins once the game started", func(t *testing.T) {
		game := startedGame(t, "a", "b")

		assert.False(t, game.AddPlayer("c", "c"))
	})
}

func TestGame_Start(t *testing.T) {
	t.Run("Needs at least two participants", func(t *testing.T) {
		game := NewGame("1")
		game.AddPlayer("a", "a")

		assert.False(t, game.Start())
		assert.True(t, game.IsWaiting())
	})

	t.Run("Activates the first joiner", func(t *testing.T) {
		game := NewGame("1")
		game.AddPlayer("a", "a")
		game.AddPlayer("b", "b")

		require.True(t, game.Start())

		assert.True(t, game.IsOngoing())
		assert.Equal(t, "a", game.ActivePlayer())
	})

	t.Run("Cannot start twice", func(t *testing.T) {
		game := startedGame(t, "a", "b")

		assert.False(t, game.Start())
	})
}

func TestGame_SubmitMove_Validation(t *testing.T) {
	t.Run("Rejects moves before the game starts", func(t *testing.T) {
		game := NewGame("1")
		game.AddPlayer("a", "a")
		game.AddPlayer("b", "b")

		_, err := game.SubmitMove("a", 0, 0, 0)

		require.ErrorIs(t, err, apperror.ErrGameNotRunning)
	})

	t.Run("Rejects a move out of turn", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		holdTile(t, game, "b", entity.Wildcard)

		_, err := game.SubmitMove("b", 0, 0, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects a character that does not fit the cell", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		// Given: the letter B in hand, which only fits column 1
		holdTile(t, game, "a", "B")

		_, err := game.SubmitMove("a", 0, 0, 0)

		require.ErrorIs(t, err, apperror.ErrIllegalPlacement)
	})

	t.Run("Rejects coordinates off the board", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		holdTile(t, game, "a", entity.Wildcard)

		_, err := game.SubmitMove("a", 0, 9, 0)

		require.ErrorIs(t, err, apperror.ErrIllegalPlacement)
	})

	t.Run("Rejects a hand selection out of range", func(t *testing.T) {
		game := startedGame(t, "a", "b")

		_, err := game.SubmitMove("a", entity.HandSize, 0, 0)

		require.ErrorIs(t, err, apperror.ErrIllegalPlacement)
	})

	t.Run("Rejects replacing your own tile even with a legal character", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		game.Board.Place(0, 0, "a", "1")
		holdTile(t, game, "a", entity.Wildcard)

		_, err := game.SubmitMove("a", 0, 0, 0)

		require.ErrorIs(t, err, apperror.ErrCannotReplaceOwnTile)
		assert.Equal(t, "1", game.Board.Character(0, 0))
	})

	t.Run("Rejects a capture that would split the opponent's group", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		// Given: b owns a connected line of three
		game.Board.Place(4, 3, "b", entity.Wildcard)
		game.Board.Place(4, 4, "b", entity.Wildcard)
		game.Board.Place(4, 5, "b", entity.Wildcard)
		holdTile(t, game, "a", entity.Wildcard)

		// When: a tries to eat the middle cell
		_, err := game.SubmitMove("a", 0, 4, 4)

		// Then: the move is rejected and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrWouldSplitGroup)
		assert.Equal(t, "b", game.Board.Owner(4, 4))
		assert.Equal(t, "a", game.ActivePlayer())
	})
}

func TestGame_SubmitMove_Commit(t *testing.T) {
	t.Run("Places on an empty cell, draws and advances the turn", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		holdTile(t, game, "a", entity.Wildcard)

		result, err := game.SubmitMove("a", 0, 3, 7)

		require.NoError(t, err)
		assert.Equal(t, entity.Wildcard, result.Placed)
		assert.NotEmpty(t, result.Drawn)
		assert.Nil(t, result.Displaced)
		assert.Equal(t, 3, result.X)
		assert.Equal(t, 7, result.Y)
		assert.Equal(t, "b", result.NextActive)

		player, _ := game.Player("a")
		assert.Equal(t, result.Drawn, player.Hand[0])
		assert.Equal(t, "a", game.Board.Owner(3, 7))
	})

	t.Run("Capturing an end tile records the displaced tile", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		game.Board.Place(4, 3, "b", entity.Wildcard)
		game.Board.Place(4, 4, "b", entity.Wildcard)
		game.Board.Place(4, 5, "b", "F")
		holdTile(t, game, "a", entity.Wildcard)

		result, err := game.SubmitMove("a", 0, 4, 5)

		require.NoError(t, err)
		require.NotNil(t, result.Displaced)
		assert.Equal(t, entity.CapturedTile{Owner: "b", Character: "F"}, *result.Displaced)
		assert.Equal(t, "a", game.Board.Owner(4, 5))

		player, _ := game.Player("a")
		require.Len(t, player.Captured, 1)
		assert.Equal(t, *result.Displaced, player.Captured[0])
	})

	t.Run("The turn cycles through every participant each round", func(t *testing.T) {
		game := startedGame(t, "a", "b", "c")

		cells := [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
		expected := []string{"b", "c", "a", "b", "c", "a"}

		for i, cell := range cells {
			active := game.ActivePlayer()
			holdTile(t, game, active, entity.Wildcard)

			result, err := game.SubmitMove(active, 0, cell[0], cell[1])

			require.NoError(t, err)
			assert.Equal(t, expected[i], result.NextActive)
		}
	})
}

func TestGame_FullGame(t *testing.T) {
	// Two participants playing their whole round budget: every move is a
	// wildcard on a fresh cell, so the game runs to the end-of-game
	// sentinel with both draw pools exactly drained.
	game := startedGame(t, "a", "b")

	moves := 2 * 23
	for i := 0; i < moves; i++ {
		active := game.ActivePlayer()
		holdTile(t, game, active, entity.Wildcard)

		result, err := game.SubmitMove(active, 0, i/entity.BoardSize, i%entity.BoardSize)
		require.NoError(t, err)

		if i < moves-1 {
			require.NotEmpty(t, result.NextActive, "move %d", i)
		} else {
			// Then: the final move carries the end-of-game sentinel
			assert.Empty(t, result.NextActive)
		}
	}

	assert.True(t, game.IsFinished())

	for _, id := range []string{"a", "b"} {
		player, _ := game.Player(id)
		assert.Equal(t, 0, player.PoolSize(), "player %s", id)
	}

	// and no further moves are accepted
	_, err := game.SubmitMove("a", 0, 8, 8)
	require.ErrorIs(t, err, apperror.ErrGameNotRunning)
}

func TestGame_End(t *testing.T) {
	t.Run("Fewest groups wins", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		// Given: a fragmented into two groups, b consolidated into one
		game.Board.Place(0, 0, "a", entity.Wildcard)
		game.Board.Place(2, 2, "a", entity.Wildcard)
		game.Board.Place(4, 4, "b", entity.Wildcard)

		outcome := game.End()

		assert.Equal(t, OutcomeWin, outcome.Kind)
		assert.Equal(t, []string{"b"}, outcome.Winners)
		assert.True(t, game.IsFinished())
	})

	t.Run("Fewer captures breaks a group tie", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		game.Board.Place(0, 0, "a", entity.Wildcard)
		game.Board.Place(8, 8, "b", entity.Wildcard)

		playerB, _ := game.Player("b")
		playerB.RecordCapture(entity.CapturedTile{Owner: "a", Character: "1"})

		outcome := game.End()

		assert.Equal(t, OutcomeWin, outcome.Kind)
		assert.Equal(t, []string{"a"}, outcome.Winners)
	})

	t.Run("Equal groups and captures is a tie", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		game.Board.Place(0, 0, "a", entity.Wildcard)
		game.Board.Place(8, 8, "b", entity.Wildcard)

		outcome := game.End()

		assert.Equal(t, OutcomeTie, outcome.Kind)
		assert.ElementsMatch(t, []string{"a", "b"}, outcome.Winners)
	})
}

func TestGame_RowScenario(t *testing.T) {
	// a fills the whole of row 0 over nine of their turns while b plays
	// row 8; a ends up with a single connected group.
	game := startedGame(t, "a", "b")

	for y := 0; y < entity.BoardSize; y++ {
		holdTile(t, game, "a", "1")
		_, err := game.SubmitMove("a", 0, 0, y)
		require.NoError(t, err)

		holdTile(t, game, "b", "9")
		_, err = game.SubmitMove("b", 0, 8, y)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, CountGroups(&game.Board, "a"))
	assert.Equal(t, 1, CountGroups(&game.Board, "b"))
}

func TestGame_ReassignPlayer(t *testing.T) {
	t.Run("Remaps player state, turn order and territory", func(t *testing.T) {
		game := startedGame(t, "a", "b")
		game.Board.Place(0, 0, "a", "1")

		require.True(t, game.ReassignPlayer("a", "a2"))

		_, ok := game.Player("a")
		assert.False(t, ok)
		_, ok = game.Player("a2")
		assert.True(t, ok)
		assert.Equal(t, "a2", game.ActivePlayer())
		assert.Equal(t, "a2", game.Board.Owner(0, 0))
	})

	t.Run("Chained reassignments leave one live mapping", func(t *testing.T) {
		game := startedGame(t, "a", "b")

		require.True(t, game.ReassignPlayer("a", "a2"))
		require.True(t, game.ReassignPlayer("a2", "a3"))

		_, ok := game.Player("a")
		assert.False(t, ok)
		_, ok = game.Player("a2")
		assert.False(t, ok)
		_, ok = game.Player("a3")
		assert.True(t, ok)
		assert.Equal(t, 2, game.PlayerCount())
	})

	t.Run("Unknown identifier is refused", func(t *testing.T) {
		game := startedGame(t, "a", "b")

		assert.False(t, game.ReassignPlayer("ghost", "g2"))
	})
}
