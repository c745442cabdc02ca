// Package store provides Redis persistence for the record store.
package store

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	corestore "github.com/kilianp07/soilmatch/core/store"
)

// DefaultPrefix namespaces collection keys.
const DefaultPrefix = "soilmatch:"

// RedisStore keeps one string key per collection.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore connects to url (redis://...) and pings the server.
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreWithClient(rdb, prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(c corestore.Collection) string { return s.prefix + string(c) }

func (s *RedisStore) Get(ctx context.Context, c corestore.Collection) ([]byte, error) {
	if !corestore.Known(c) {
		return nil, corestore.ErrUnknownCollection
	}
	b, err := s.rdb.Get(ctx, s.key(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", c, err)
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, c corestore.Collection, data []byte) error {
	if !corestore.Known(c) {
		return corestore.ErrUnknownCollection
	}
	if err := s.rdb.Set(ctx, s.key(c), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c, err)
	}
	return nil
}

// Close releases the client.
func (s *RedisStore) Close() error { return s.rdb.Close() }
