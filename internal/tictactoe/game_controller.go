package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

// MakeTurn - applies a 0-based move of the given slot to the game.
// Checks run in order: terminal status, turn ownership, then the cell itself.
// A rejected move leaves the game untouched.
func MakeTurn(gameInstance *entity.Game, slot, row, col int) error {
	if err := gameInstance.ConfirmInProgress(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrValidation, err)
	}

	if gameInstance.Turn != slot {
		return fmt.Errorf("%w: %w", apperror.ErrValidation, apperror.ErrNotYourTurn)
	}

	if err := gameInstance.Board.Place(row, col, entity.SymbolForSlot(slot)); err != nil {
		return fmt.Errorf("%w: %w: %w", apperror.ErrValidation, apperror.ErrInvalidMove, err)
	}

	gameInstance.Moves++
	updateGameStatus(gameInstance, slot)

	return nil
}

// updateGameStatus - settles the game after a move or hands the turn over.
func updateGameStatus(gameInstance *entity.Game, slot int) {
	gameInstance.UpdateGameState()

	if gameInstance.IsInProgress() {
		gameInstance.Turn = entity.OpponentSlot(slot)
	}
}

// Reset - replaces the game with a fresh one in its initial state.
func Reset(gameInstance *entity.Game) {
	*gameInstance = *entity.NewGame()
}
