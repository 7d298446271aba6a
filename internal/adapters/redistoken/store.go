// Package redistoken implements the TokenStore port on Redis, keeping one
// bearer token string per browser-session key so sessions survive gateway
// restarts.
package redistoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

// Store persists tokens in Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Store. prefix namespaces the keys (e.g. "auto88:token:").
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Load returns the stored token for the key, or "" when absent.
func (s *Store) Load(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}
	result, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return result, nil
}

// Save stores the token under the key. A non-positive ttl falls back to the
// default retention so abandoned sessions cannot accumulate forever.
func (s *Store) Save(ctx context.Context, key, token string, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if err := s.client.Set(ctx, s.prefix+key, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Purge removes the token for the key. Absent keys are not an error.
func (s *Store) Purge(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Health checks the Redis connection.
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
