package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

const recentShown = 5

type historyRepo interface {
	Recent(ctx context.Context) ([]*entity.Result, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type Scoreboard struct {
	historyRepo historyRepo
}

func NewScoreboard(historyRepo historyRepo) *Scoreboard {
	return &Scoreboard{historyRepo: historyRepo}
}

// Summary describes the game just played and, when any are stored, the totals and recent boards.
func (that *Scoreboard) Summary(ctx context.Context, result *entity.Result) (string, error) {
	var sb strings.Builder

	outcome := "board full"
	if result.Quit {
		outcome = "left early"
	}
	fmt.Fprintf(&sb, "game %s: %s, %d player marks, %d opponent marks, %d moves\n",
		result.ID, outcome, result.PlayerMarks, result.OpponentMarks, result.Moves)

	stats, err := that.historyRepo.Stats(ctx)
	if err != nil {
		return sb.String(), fmt.Errorf("failed to get stats: %w", err)
	}

	if stats.Finished+stats.Quit == 0 {
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, "games: %d finished, %d left early\n", stats.Finished, stats.Quit)

	recent, err := that.historyRepo.Recent(ctx)
	if err != nil {
		return sb.String(), fmt.Errorf("failed to get recent results: %w", err)
	}

	if len(recent) > recentShown {
		recent = recent[:recentShown]
	}

	for _, r := range recent {
		fmt.Fprintf(&sb, "  %s  %s\n", r.ID, formatBoard(r.Board))
	}

	return sb.String(), nil
}

// formatBoard splits an encoded board into its three rows.
func formatBoard(board string) string {
	if len(board) != entity.BoardSize {
		return board
	}

	return board[0:3] + "/" + board[3:6] + "/" + board[6:9]
}
