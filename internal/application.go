package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/config"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/repository"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/service"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/transport/terminal"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/usecase"
)

type sessionResult struct {
	result *entity.Result
	err    error
}

// RunApp - runs one game in the terminal and prints the summary.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	resultRepo, closeRepo, err := initResultRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	screen, err := terminal.Open(os.Stdin, os.Stdout, terminal.Glyphs{
		Player:   conf.Glyphs.Player,
		Opponent: conf.Glyphs.Opponent,
		Empty:    conf.Glyphs.Empty,
		Cursor:   conf.Glyphs.Cursor,
	}, !conf.NoColor)
	if err != nil {
		return fmt.Errorf("could not open terminal: %w", err)
	}

	closeScreen := func() {
		if err := screen.Close(); err != nil {
			log.Error("could not restore terminal", "error", err)
		}
	}

	session := usecase.NewSession(logger, screen, service.NewBotService(conf.Seed), resultRepo)

	// the session blocks on key reads, so it runs beside the signal watch
	doneCh := make(chan sessionResult, 1)
	go func() {
		result, err := session.Play(ctx)
		doneCh <- sessionResult{result: result, err: err}
	}()

	var done sessionResult
	select {
	case done = <-doneCh:
		closeScreen()
	case <-ctx.Done():
		closeScreen()
		log.Info("Application context canceled, shutting down")
		return nil
	}

	if done.err != nil {
		if errors.Is(done.err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("game failed: %w", done.err)
	}

	summary, err := usecase.NewScoreboard(resultRepo).Summary(ctx, done.result)
	if err != nil {
		log.Error("could not load history", "error", err)
	}
	fmt.Print(summary)

	return nil
}

// initResultRepository - connects to redis when enabled, otherwise results are not kept.
func initResultRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.ResultRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Debug("redis disabled, results will not be stored")
		return repository.NopResultRepository{}, func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, apperror.ErrRedisAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewResultRepository(redisStorage.Connection, conf.Redis.History), closeFn, nil
}
