package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
)

func TestNewGame(t *testing.T) {
	// When: creating a new game
	game := NewGame()

	// Then: it should be in the initial state
	require.NotNil(t, game)
	assert.NotEmpty(t, game.ID)
	assert.Equal(t, Board{}, game.Board)
	assert.Equal(t, SlotX, game.Turn)
	assert.Equal(t, StatusInProgress, game.Status)
	assert.Equal(t, EmptyCell, game.Winner)
	assert.Zero(t, game.Moves)
}

func TestGame_ConfirmInProgress(t *testing.T) {
	t.Run("Returns nil when game is in progress", func(t *testing.T) {
		// Given: a game in progress
		game := &Game{Status: StatusInProgress}

		// When: confirming the state
		err := game.ConfirmInProgress()

		// Then: no error should be returned
		assert.NoError(t, err)
	})

	t.Run("Returns ErrGameFinished when game is won", func(t *testing.T) {
		// Given: a won game
		game := &Game{Status: StatusWon}

		// When: confirming the state
		err := game.ConfirmInProgress()

		// Then: ErrGameFinished should be returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Returns ErrGameFinished when game is a draw", func(t *testing.T) {
		// Given: a drawn game
		game := &Game{Status: StatusDraw}

		// When: confirming the state
		err := game.ConfirmInProgress()

		// Then: ErrGameFinished should be returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with unknown status
		game := &Game{Status: "unknown"}

		// When: confirming the state
		err := game.ConfirmInProgress()

		// Then: an error should be returned
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown game status")
	})
}

func TestGame_UpdateGameState(t *testing.T) {
	t.Run("Updates game state when X completes a line", func(t *testing.T) {
		// Given: a board where X has a complete row
		game := &Game{
			Board: Board{
				{MarkX, MarkX, MarkX},
				{MarkO, MarkO, EmptyCell},
				{EmptyCell, EmptyCell, EmptyCell},
			},
			Status: StatusInProgress,
			Turn:   SlotO,
		}

		// When: updating the game state
		game.UpdateGameState()

		// Then: X should be the winner and nobody has the turn
		assert.Equal(t, StatusWon, game.Status)
		assert.Equal(t, MarkX, game.Winner)
		assert.Zero(t, game.Turn)
	})

	t.Run("Full board with a line is a win, not a draw", func(t *testing.T) {
		// Given: a full board where X also completed the main diagonal
		game := &Game{
			Board: Board{
				{MarkX, MarkO, MarkX},
				{MarkO, MarkX, MarkO},
				{MarkO, MarkX, MarkX},
			},
			Status: StatusInProgress,
		}

		// When: updating the game state
		game.UpdateGameState()

		// Then: the game is won by X
		assert.Equal(t, StatusWon, game.Status)
		assert.Equal(t, MarkX, game.Winner)
	})

	t.Run("Updates game state when the game is a draw", func(t *testing.T) {
		// Given: a full board without any line
		game := &Game{
			Board: Board{
				{MarkX, MarkO, MarkX},
				{MarkX, MarkO, MarkO},
				{MarkO, MarkX, MarkX},
			},
			Status: StatusInProgress,
			Turn:   SlotO,
		}

		// When: updating the game state
		game.UpdateGameState()

		// Then: the game should be a draw
		assert.Equal(t, StatusDraw, game.Status)
		assert.Equal(t, EmptyCell, game.Winner)
		assert.Zero(t, game.Turn)
	})

	t.Run("Game remains in progress when there is no winner or draw", func(t *testing.T) {
		// Given: a partially filled board
		game := &Game{
			Board: Board{
				{MarkX, MarkO, EmptyCell},
				{EmptyCell, MarkX, EmptyCell},
				{EmptyCell, EmptyCell, MarkO},
			},
			Status: StatusInProgress,
			Turn:   SlotX,
		}

		// When: updating the game state
		game.UpdateGameState()

		// Then: nothing changes
		assert.Equal(t, StatusInProgress, game.Status)
		assert.Equal(t, EmptyCell, game.Winner)
		assert.Equal(t, SlotX, game.Turn)
	})
}

func TestGame_Clone(t *testing.T) {
	// Given: a game with a mark on the board
	game := NewGame()
	require.NoError(t, game.Board.Place(0, 0, MarkX))

	// When: cloning it and mutating the original
	clone := game.Clone()
	require.NoError(t, game.Board.Place(1, 1, MarkO))

	// Then: the clone keeps the old board
	assert.Equal(t, MarkX, clone.Board[0][0])
	assert.Equal(t, EmptyCell, clone.Board[1][1])
}

func TestSymbolForSlot(t *testing.T) {
	assert.Equal(t, MarkX, SymbolForSlot(SlotX))
	assert.Equal(t, MarkO, SymbolForSlot(SlotO))
	assert.Equal(t, EmptyCell, SymbolForSlot(3))
	assert.Equal(t, SlotO, OpponentSlot(SlotX))
	assert.Equal(t, SlotX, OpponentSlot(SlotO))
}

func TestNewResult(t *testing.T) {
	finishedAt := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Won game records the winner symbol", func(t *testing.T) {
		// Given: a game won by O
		game := &Game{ID: "g1", Status: StatusWon, Winner: MarkO, Moves: 6}

		// When: building its result
		result := NewResult(game, finishedAt)

		// Then: the winner is O
		assert.Equal(t, &Result{GameID: "g1", Winner: "O", Moves: 6, FinishedAt: finishedAt}, result)
	})

	t.Run("Drawn game records a draw", func(t *testing.T) {
		// Given: a drawn game
		game := &Game{ID: "g2", Status: StatusDraw, Moves: 9}

		// When: building its result
		result := NewResult(game, finishedAt)

		// Then: the winner is "draw"
		assert.Equal(t, ResultDraw, result.Winner)
		assert.Equal(t, 9, result.Moves)
	})
}
