package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

const (
	resultsKey = "results"
	statsKey   = "stats"
	resultTTL  = 30 * 24 * time.Hour

	statFinished      = "finished"
	statQuit          = "quit"
	statPlayerMarks   = "player_marks"
	statOpponentMarks = "opponent_marks"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	GetByID(ctx context.Context, id string) (*entity.Result, error)
	Recent(ctx context.Context) ([]*entity.Result, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type dbResult struct {
	client  *redis.Client
	history int64
}

// NewResultRepository keeps the last history results and running totals in redis.
func NewResultRepository(client *redis.Client, history int64) ResultRepository {
	if history <= 0 {
		history = 1
	}

	return &dbResult{
		client:  client,
		history: history,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	outcome := statFinished
	if result.Quit {
		outcome = statQuit
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKey(result.ID), resultJSON, resultTTL)
		pipe.LPush(ctx, resultsKey, result.ID)
		pipe.LTrim(ctx, resultsKey, 0, that.history-1)
		pipe.HIncrBy(ctx, statsKey, outcome, 1)
		pipe.HIncrBy(ctx, statsKey, statPlayerMarks, int64(result.PlayerMarks))
		pipe.HIncrBy(ctx, statsKey, statOpponentMarks, int64(result.OpponentMarks))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByID(ctx context.Context, id string) (*entity.Result, error) {
	response, err := that.client.Get(ctx, resultKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return &entity.Result{}, apperror.ErrResultNotFound
	}

	if err != nil {
		return &entity.Result{}, fmt.Errorf("failed to get result by id: %w", err)
	}

	var result entity.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return &entity.Result{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// Recent returns the stored results, newest first. Expired entries are skipped.
func (that *dbResult) Recent(ctx context.Context) ([]*entity.Result, error) {
	ids, err := that.client.LRange(ctx, resultsKey, 0, that.history-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	if len(ids) == 0 {
		return []*entity.Result{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, resultKey(id))
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	results := make([]*entity.Result, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var result entity.Result
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}

func (that *dbResult) Stats(ctx context.Context) (*entity.Stats, error) {
	fields, err := that.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats := &entity.Stats{}
	for field, target := range map[string]*int64{
		statFinished:      &stats.Finished,
		statQuit:          &stats.Quit,
		statPlayerMarks:   &stats.PlayerMarks,
		statOpponentMarks: &stats.OpponentMarks,
	} {
		raw, ok := fields[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s counter: %w", field, err)
		}
	}

	return stats, nil
}

func resultKey(id string) string {
	return "result:" + id
}
