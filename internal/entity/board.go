package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
)

const BoardSize = 3

type Cell string

const (
	EmptyCell Cell = ""
	MarkX     Cell = "X"
	MarkO     Cell = "O"
)

// lines lists every row, then every column, then both diagonals.
var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a 3x3 grid addressed as Board[row][col], 0-based.
type Board [BoardSize][BoardSize]Cell

// Place - puts the symbol into an empty cell.
func (that *Board) Place(row, col int, symbol Cell) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfRange, row, col)
	}

	if that[row][col] != EmptyCell {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrCellOccupied, row, col)
	}

	that[row][col] = symbol

	return nil
}

// Winner - returns the symbol of the first complete line or EmptyCell.
func (that *Board) Winner() Cell {
	for _, line := range lines {
		a := that[line[0][0]][line[0][1]]
		b := that[line[1][0]][line[1][1]]
		c := that[line[2][0]][line[2][1]]

		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}
