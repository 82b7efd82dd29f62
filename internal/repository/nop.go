package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

type nopResult struct{}

// NewNopResultRepository - used when redis is disabled: results are dropped and stats stay empty.
func NewNopResultRepository() ResultRepository {
	return nopResult{}
}

func (nopResult) Save(context.Context, *entity.Result) error {
	return nil
}

func (nopResult) GetByID(context.Context, string) (*entity.Result, error) {
	return nil, ErrResultNotFound
}

func (nopResult) Recent(context.Context, int64) ([]*entity.Result, error) {
	return nil, nil
}

func (nopResult) Stats(context.Context) (*entity.Stats, error) {
	return &entity.Stats{}, nil
}
