package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/config"
)

const (
	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

// RedisStorage is the connection the result journal writes through.
type RedisStorage struct {
	Connection *redis.Client
}

// NewRedisStorage - connects to the configured redis and checks it answers.
func NewRedisStorage(ctx context.Context, conf config.Redis) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:         conf.GetRedisAddr(),
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", conf.GetRedisAddr(), err)
	}

	return &RedisStorage{Connection: conn}, nil
}

func (that *RedisStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}

	return nil
}
