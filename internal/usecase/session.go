package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/service"
)

type screen interface {
	ReadAction() (entity.Action, error)
	Render(cells [entity.BoardSize]entity.Cell, gameOver bool) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
}

// Session plays one game: reconcile, render, read a key, apply it, until the board is full or the player quits.
type Session struct {
	logger     *slog.Logger
	screen     screen
	bot        service.BotService
	resultRepo resultRepo

	now func() time.Time
}

func NewSession(logger *slog.Logger, screen screen, bot service.BotService, resultRepo resultRepo) *Session {
	return &Session{
		logger:     logger.With("component", "session"),
		screen:     screen,
		bot:        bot,
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

func (that *Session) Play(ctx context.Context) (*entity.Result, error) {
	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	log := that.logger.With("gameID", gameID)
	log.Info("game started")

	game := entity.NewBoardGame()
	startedAt := that.now()
	moves := 0
	quit := false

	for !quit {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("game interrupted: %w", err)
		}

		game.ReconcileOverlay()
		if err = that.screen.Render(game.Cells(), game.IsGameOver()); err != nil {
			return nil, fmt.Errorf("failed to render board: %w", err)
		}

		if game.IsGameOver() {
			break
		}

		action, err := that.screen.ReadAction()
		if errors.Is(err, io.EOF) {
			log.Warn("input closed, leaving game")
			quit = true
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read action: %w", err)
		}

		quit = that.apply(log, game, action)
		if action.Kind == entity.ActionMove || action.Kind == entity.ActionCommit {
			moves++
		}
	}

	result := entity.NewResult(gameID, game, moves, quit, startedAt, that.now())
	if err = that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to save result", "error", err)
	}

	log.Info("game ended",
		"board", result.Board,
		"moves", result.Moves,
		"quit", result.Quit,
	)

	return result, nil
}

// apply mutates the game for one action and reports whether the player quit.
func (that *Session) apply(log *slog.Logger, game *entity.BoardGame, action entity.Action) bool {
	switch action.Kind {
	case entity.ActionQuit:
		return true
	case entity.ActionMove:
		game.MoveCursor(action.Direction)
		cursor, _ := game.Cursor()
		log.Debug("cursor moved", "direction", action.Direction.String(), "cursor", cursor)
	case entity.ActionCommit:
		if game.IsGameOver() {
			return false
		}

		game.CommitPlayerMark()
		that.bot.MakeTurn(game)
		log.Debug("marks committed", "board", entity.EncodeBoard(game.Cells()), "gameOver", game.IsGameOver())
	}

	return false
}
