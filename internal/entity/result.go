package entity

import (
	"strings"
	"time"
)

// Result summarizes a finished or abandoned game.
type Result struct {
	ID            string    `json:"id"`
	Board         string    `json:"board"`
	PlayerMarks   int       `json:"player_marks"`
	OpponentMarks int       `json:"opponent_marks"`
	Moves         int       `json:"moves"`
	Quit          bool      `json:"quit"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Stats are the totals over all recorded results.
type Stats struct {
	Finished      int64 `json:"finished"`
	Quit          int64 `json:"quit"`
	PlayerMarks   int64 `json:"player_marks"`
	OpponentMarks int64 `json:"opponent_marks"`
}

// NewResult captures the final board of game.
func NewResult(id string, game *BoardGame, moves int, quit bool, startedAt, finishedAt time.Time) *Result {
	return &Result{
		ID:            id,
		Board:         EncodeBoard(game.Cells()),
		PlayerMarks:   game.MarkCount(PlayerMark),
		OpponentMarks: game.MarkCount(OpponentMark),
		Moves:         moves,
		Quit:          quit,
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
	}
}

// EncodeBoard writes the marks row by row as X, O and '.' for free cells.
func EncodeBoard(cells [BoardSize]Cell) string {
	var sb strings.Builder
	sb.Grow(BoardSize)

	for _, cell := range cells {
		switch cell {
		case PlayerMark:
			sb.WriteByte('X')
		case OpponentMark:
			sb.WriteByte('O')
		default:
			sb.WriteByte('.')
		}
	}

	return sb.String()
}
