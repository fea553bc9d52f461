// Package idempotency claims keys in redis so that webhook deliveries and
// scheduled jobs run at most once across replicas.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "booking:once:"

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Claim sets key if absent. It returns false when another caller already
// holds the key.
func (s *Store) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency: claim %s: %w", key, err)
	}
	return ok, nil
}

// Release drops a claim so a failed attempt can be retried.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("idempotency: release %s: %w", key, err)
	}
	return nil
}

// Claimed reports whether key is currently held.
func (s *Store) Claimed(ctx context.Context, key string) (bool, error) {
	_, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("idempotency: get %s: %w", key, err)
	}
	return true, nil
}

// NewClient parses a redis URL ("redis://host:6379/0") or a bare
// host:port address.
func NewClient(addr string) (*redis.Client, error) {
	if opts, err := redis.ParseURL(addr); err == nil {
		return redis.NewClient(opts), nil
	}
	if addr == "" {
		return nil, fmt.Errorf("idempotency: empty redis address")
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}
