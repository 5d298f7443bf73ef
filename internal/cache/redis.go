package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/dataset"
	"github.com/dexflow/dexflow/internal/metrics"
	"github.com/dexflow/dexflow/pkg/logger"
)

// Redis is a Store over a shared redis instance, for analysts who want the
// cache to outlive the working directory. TTL of zero means no expiry.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(host string, port int, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, generation string) ([]dataset.Record, bool, error) {
	data, err := r.client.Get(ctx, key(generation)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached generation: %w", err)
	}

	var rows []dataset.Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached generation: %w", err)
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	logger.Debug("Generation cache hit", zap.String("generation", generation), zap.Int("rows", len(rows)))

	return rows, true, nil
}

func (r *Redis) Set(ctx context.Context, generation string, rows []dataset.Record) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal generation: %w", err)
	}

	if err := r.client.Set(ctx, key(generation), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set generation cache: %w", err)
	}

	logger.Debug("Generation cached", zap.String("generation", generation), zap.Int("rows", len(rows)))
	return nil
}

func key(generation string) string {
	return fmt.Sprintf("generation:%s", generation)
}
