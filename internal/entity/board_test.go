package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Places a mark into an empty cell", func(t *testing.T) {
		// Given: an empty board
		var board Board

		// When: placing X in the center
		err := board.Place(1, 1, MarkX)

		// Then: the cell holds X
		require.NoError(t, err)
		assert.Equal(t, MarkX, board[1][1])
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: a board with X in the corner
		var board Board
		require.NoError(t, board.Place(0, 0, MarkX))

		// When: O tries the same cell
		err := board.Place(0, 0, MarkO)

		// Then: ErrCellOccupied is returned and the cell keeps X
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, MarkX, board[0][0])
	})

	t.Run("Error on out of range coordinates", func(t *testing.T) {
		for _, tc := range []struct{ row, col int }{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}} {
			// Given: an empty board
			var board Board

			// When: placing outside the grid
			err := board.Place(tc.row, tc.col, MarkX)

			// Then: ErrOutOfRange is returned and the board is untouched
			require.ErrorIs(t, err, apperror.ErrOutOfRange)
			assert.Equal(t, Board{}, board)
		}
	})
}

func TestBoard_Winner(t *testing.T) {
	t.Run("Row", func(t *testing.T) {
		board := Board{
			{EmptyCell, EmptyCell, EmptyCell},
			{MarkO, MarkO, MarkO},
			{MarkX, MarkX, EmptyCell},
		}

		assert.Equal(t, MarkO, board.Winner())
	})

	t.Run("Column", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, EmptyCell},
			{MarkX, MarkO, EmptyCell},
			{MarkX, EmptyCell, EmptyCell},
		}

		assert.Equal(t, MarkX, board.Winner())
	})

	t.Run("Anti diagonal", func(t *testing.T) {
		board := Board{
			{MarkX, MarkX, MarkO},
			{EmptyCell, MarkO, EmptyCell},
			{MarkO, EmptyCell, MarkX},
		}

		assert.Equal(t, MarkO, board.Winner())
	})

	t.Run("No line", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, MarkX},
			{EmptyCell, MarkO, EmptyCell},
			{EmptyCell, MarkX, EmptyCell},
		}

		assert.Equal(t, EmptyCell, board.Winner())
	})
}

func TestBoard_IsFull(t *testing.T) {
	full := Board{
		{MarkX, MarkO, MarkX},
		{MarkX, MarkO, MarkO},
		{MarkO, MarkX, MarkX},
	}
	assert.True(t, full.IsFull())

	full[2][2] = EmptyCell
	assert.False(t, full.IsFull())

	var empty Board
	assert.False(t, empty.IsFull())
}

func TestBoard_PlaceNeverOverwrites(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var board Board
		placed := 0

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			row := rapid.IntRange(-1, 3).Draw(t, "row")
			col := rapid.IntRange(-1, 3).Draw(t, "col")
			symbol := rapid.SampledFrom([]Cell{MarkX, MarkO}).Draw(t, "symbol")

			before := board
			if err := board.Place(row, col, symbol); err != nil {
				if board != before {
					t.Fatalf("failed place mutated the board at (%d,%d)", row, col)
				}
				continue
			}
			placed++
		}

		count := 0
		for _, r := range board {
			for _, c := range r {
				if c != EmptyCell {
					count++
				}
			}
		}
		if count != placed {
			t.Fatalf("non-empty cells %d, successful placements %d", count, placed)
		}
	})
}
