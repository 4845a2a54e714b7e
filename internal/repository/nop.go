package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

// NopResultRepository is used when redis is disabled. It stores nothing.
type NopResultRepository struct{}

func (NopResultRepository) Save(context.Context, *entity.Result) error {
	return nil
}

func (NopResultRepository) GetByID(context.Context, string) (*entity.Result, error) {
	return &entity.Result{}, apperror.ErrResultNotFound
}

func (NopResultRepository) Recent(context.Context) ([]*entity.Result, error) {
	return []*entity.Result{}, nil
}

func (NopResultRepository) Stats(context.Context) (*entity.Stats, error) {
	return &entity.Stats{}, nil
}
