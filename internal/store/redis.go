package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veles/schedulebot/internal/schedule"
)

// keyPrefix namespaces schedule entries in Redis.
const keyPrefix = "schedule:"

// RedisStore keeps each cached week under its own Redis key, so writes for
// different students never race over a shared document.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Has reports whether a schedule is cached for the key.
func (s *RedisStore) Has(ctx context.Context, key Key) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+key.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check schedule key: %w", err)
	}
	return n > 0, nil
}

// Get returns the cached schedule or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key Key) (schedule.Week, error) {
	data, err := s.client.Get(ctx, keyPrefix+key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return schedule.Week{}, fmt.Errorf("%w: %s", ErrNotFound, key.String())
	}
	if err != nil {
		return schedule.Week{}, fmt.Errorf("fetch schedule: %w", err)
	}

	var week schedule.Week
	if err := json.Unmarshal([]byte(data), &week); err != nil {
		return schedule.Week{}, fmt.Errorf("%w: key %s: %v", ErrCorrupt, key.String(), err)
	}
	return week, nil
}

// Put caches a schedule, overwriting any previous entry for the key.
func (s *RedisStore) Put(ctx context.Context, key Key, week schedule.Week) error {
	data, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+key.String(), string(data), 0).Err()
}
