package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

var ErrResultNotFound = errors.New("result not found")

const (
	resultsKey = "results"
	statsKey   = "stats"

	statsXWins = "x_wins"
	statsOWins = "o_wins"
	statsDraws = "draws"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	GetByID(ctx context.Context, id string) (*entity.Result, error)
	Recent(ctx context.Context, limit int64) ([]*entity.Result, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type dbResult struct {
	client      *redis.Client
	historySize int64
}

// NewResultRepository - keeps finished games in redis, the journal holds at most historySize ids.
func NewResultRepository(client *redis.Client, historySize int64) ResultRepository {
	return &dbResult{
		client:      client,
		historySize: historySize,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKey(result.GameID), resultJSON, 0)
		pipe.LPush(ctx, resultsKey, result.GameID)
		if that.historySize > 0 {
			pipe.LTrim(ctx, resultsKey, 0, that.historySize-1)
		}
		pipe.HIncrBy(ctx, statsKey, statsField(result.Winner), 1)

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
		return nil, ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get result by id: %w", err)
	}

	var result entity.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// Recent - newest first, ids whose record is gone are skipped.
func (that *dbResult) Recent(ctx context.Context, limit int64) ([]*entity.Result, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := that.client.LRange(ctx, resultsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]*entity.Result, 0, len(ids))
	for _, id := range ids {
		result, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrResultNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		results = append(results, result)
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
		statsXWins: &stats.XWins,
		statsOWins: &stats.OWins,
		statsDraws: &stats.Draws,
	} {
		raw, ok := fields[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse stats field %s: %w", field, err)
		}
	}

	return stats, nil
}

func resultKey(id string) string {
	return "result:" + id
}

func statsField(winner string) string {
	switch winner {
	case string(entity.MarkX):
		return statsXWins
	case string(entity.MarkO):
		return statsOWins
	default:
		return statsDraws
	}
}
