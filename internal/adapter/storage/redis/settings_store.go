package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// SettingsStore implements ports.SettingsStore on Redis strings.
// Swap relies on SET ... GET, which is atomic on the server.
type SettingsStore struct {
	client goredis.Cmdable
	prefix string
}

// NewSettingsStore creates a Redis-backed settings store.
func NewSettingsStore(client goredis.Cmdable) *SettingsStore {
	return &SettingsStore{
		client: client,
		prefix: "mockpay:settings:",
	}
}

// Get returns nil, nil if the key does not exist.
func (s *SettingsStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis settings get: %w", err)
	}
	return val, nil
}

func (s *SettingsStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis settings set: %w", err)
	}
	return nil
}

func (s *SettingsStore) Swap(ctx context.Context, key string, value []byte) ([]byte, error) {
	prev, err := s.client.SetArgs(ctx, s.prefix+key, value, goredis.SetArgs{Get: true}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis settings swap: %w", err)
	}
	return []byte(prev), nil
}

// DeleteAll removes every key under the settings prefix.
func (s *SettingsStore) DeleteAll(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis settings scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis settings delete: %w", err)
	}
	return nil
}
