package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/myflix/internal/shared"
	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisSessionStore keeps each session key as a plain string under "<prefix>:<key>".
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore connects and pings the server.
func NewRedisSessionStore(ctx context.Context, cfg shared.SessionConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to connect to redis at %s: %v", shared.ErrSessionStore, cfg.RedisAddr, err)
	}
	return NewRedisSessionStoreFromClient(client, cfg.RedisPrefix), nil
}

// NewRedisSessionStoreFromClient wraps an existing client.
func NewRedisSessionStoreFromClient(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (s *RedisSessionStore) fullKey(key string) string {
	if s.prefix != "" {
		return s.prefix + ":" + key
	}
	return key
}

func (s *RedisSessionStore) pattern() string {
	if s.prefix != "" {
		return s.prefix + ":*"
	}
	return "*"
}

// Get returns the value stored under key, or "" if there is none.
func (s *RedisSessionStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.fullKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", shared.ErrSessionStore, key, err)
	}
	return val, nil
}

// Set stores key without expiry.
func (s *RedisSessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.fullKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrSessionStore, key, err)
	}
	return nil
}

// Delete removes key.
func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrSessionStore, key, err)
	}
	return nil
}

// Clear removes every key under the prefix.
func (s *RedisSessionStore) Clear(ctx context.Context) error {
	keys, err := s.scan(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: failed to clear session: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Keys lists the stored keys, without the prefix, in ascending order.
func (s *RedisSessionStore) Keys(ctx context.Context) ([]string, error) {
	full, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(full))
	for _, k := range full {
		if s.prefix != "" {
			k = strings.TrimPrefix(k, s.prefix+":")
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *RedisSessionStore) scan(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.pattern(), scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan keys: %v", shared.ErrSessionStore, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// Close closes the client.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
