package entity

import "time"

const ResultDraw = "draw"

// Result is the record kept for a finished game.
type Result struct {
	GameID     string    `json:"game_id"`
	Winner     string    `json:"winner"`
	Board      Board     `json:"board"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewResult - builds the record of a finished game, Winner is "X", "O" or "draw".
func NewResult(game *Game, finishedAt time.Time) *Result {
	winner := ResultDraw
	if game.Status == StatusWon {
		winner = string(game.Winner)
	}

	return &Result{
		GameID:     game.ID,
		Winner:     winner,
		Board:      game.Board,
		Moves:      game.Moves,
		FinishedAt: finishedAt,
	}
}

type Stats struct {
	XWins int64 `json:"x_wins"`
	OWins int64 `json:"o_wins"`
	Draws int64 `json:"draws"`
}
