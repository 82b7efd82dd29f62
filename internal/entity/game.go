package entity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

const (
	SlotX = 1
	SlotO = 2
)

// Game is the state of one session: the board, the active slot and the status.
type Game struct {
	ID     string `json:"id"`
	Board  Board  `json:"board"`
	Turn   int    `json:"turn"`
	Status Status `json:"status"`
	Winner Cell   `json:"winner,omitempty"`
	Moves  int    `json:"moves"`
}

// NewGame - creates a game in its initial state: empty board, slot 1 to move.
func NewGame() *Game {
	return &Game{
		ID:     uuid.NewString(),
		Turn:   SlotX,
		Status: StatusInProgress,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// ConfirmInProgress - returns ErrGameFinished for a terminal game.
func (that *Game) ConfirmInProgress() error {
	switch that.Status {
	case StatusInProgress:
		return nil
	case StatusWon, StatusDraw:
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("unknown game status: %s", that.Status)
	}
}

// UpdateGameState - derives the status from the board; a completed line wins over a full board.
func (that *Game) UpdateGameState() {
	if winner := that.Board.Winner(); winner != EmptyCell {
		that.Winner = winner
		that.Status = StatusWon
		that.Turn = 0

		return
	}

	if that.Board.IsFull() {
		that.Status = StatusDraw
		that.Turn = 0

		return
	}

	that.Status = StatusInProgress
}

// Clone - returns a copy safe to hand out of the session lock.
func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

func SymbolForSlot(slot int) Cell {
	switch slot {
	case SlotX:
		return MarkX
	case SlotO:
		return MarkO
	default:
		return EmptyCell
	}
}

func OpponentSlot(slot int) int {
	if slot == SlotX {
		return SlotO
	}
	return SlotX
}
