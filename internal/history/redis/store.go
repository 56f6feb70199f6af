// Package redis stores refresh history in a Redis list so several
// pullrefresh sessions can share it.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/Elpulgo/pullrefresh/internal/history"
)

// Store implements history.Store using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	limit  int
}

var _ history.Store = (*Store)(nil)

type Option func(*Store)

// WithTTL sets the expiration of the history list. It is refreshed on
// every append.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLimit sets how many entries are kept.
func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "pullrefresh",
		ttl:    0, // No expiration by default
		limit:  history.DefaultLimit,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key() string {
	return s.prefix + ":history"
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Append pushes the entry and trims the list to the limit.
func (s *Store) Append(ctx context.Context, e history.Entry) error {
	if e.Episode == 0 {
		return history.ErrInvalidEntry
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key(), data)
	pipe.LTrim(ctx, s.key(), 0, int64(s.limit-1))
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (s *Store) Recent(ctx context.Context, n int) ([]history.Entry, error) {
	stop := int64(n - 1)
	if n <= 0 {
		stop = -1
	}

	vals, err := s.client.LRange(ctx, s.key(), 0, stop).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}

	entries := make([]history.Entry, 0, len(vals))
	for _, v := range vals {
		var e history.Entry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
