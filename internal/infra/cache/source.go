// Package cache provides a Redis-backed cache of fetched message batches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/runoshun/chat-tasks/internal/domain"
)

// keyPrefix namespaces every key written by the cache.
const keyPrefix = "chattasks:messages:"

// Ensure Source implements domain.MessageSource and domain.MessageCache.
var (
	_ domain.MessageSource = (*Source)(nil)
	_ domain.MessageCache  = (*Source)(nil)
)

// Source decorates a MessageSource with a Redis cache keyed by space and range.
// Cache failures never fail a fetch; they fall through to the inner source.
type Source struct {
	inner  domain.MessageSource
	client *redis.Client
	logger domain.Logger
	ttl    time.Duration
}

// Connect opens a Redis client and verifies the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return client, nil
}

// NewSource wraps inner. logger may be nil.
func NewSource(inner domain.MessageSource, client *redis.Client, ttl time.Duration, logger domain.Logger) *Source {
	return &Source{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Key returns the cache key of a space and date range.
func Key(space string, r domain.DateRange) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, space, r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// ListMessages returns the cached batch when present, otherwise fetches and stores it.
func (s *Source) ListMessages(ctx context.Context, space string, r domain.DateRange) ([]domain.Message, error) {
	key := Key(space, r)

	cached, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var msgs []domain.Message
		if jsonErr := json.Unmarshal(cached, &msgs); jsonErr == nil {
			s.debug(space, fmt.Sprintf("cache hit: %d messages", len(msgs)))
			return msgs, nil
		}
		s.warn(space, "discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		s.debug(space, "cache miss")
	default:
		s.warn(space, fmt.Sprintf("cache read failed: %v", err))
	}

	msgs, err := s.inner.ListMessages(ctx, space, r)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(msgs)
	if err != nil {
		return msgs, nil
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.warn(space, fmt.Sprintf("cache write failed: %v", err))
	}
	return msgs, nil
}

// Invalidate removes the cached batch of a space and range.
func (s *Source) Invalidate(ctx context.Context, space string, r domain.DateRange) error {
	return s.client.Del(ctx, Key(space, r)).Err()
}

func (s *Source) debug(space, msg string) {
	if s.logger != nil {
		s.logger.Debug(space, "cache", msg)
	}
}

func (s *Source) warn(space, msg string) {
	if s.logger != nil {
		s.logger.Warn(space, "cache", msg)
	}
}
