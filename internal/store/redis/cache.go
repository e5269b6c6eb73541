package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDetailTTL is the default TTL for cached link details
const DefaultDetailTTL = 6 * time.Hour

// CacheDetail stores the fetched detail of a URL
func (s *Store) CacheDetail(ctx context.Context, url string, detail any, ttl time.Duration) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal detail: %w", err)
	}
	if err := s.client.Set(ctx, DetailKey(url), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache detail: %w", err)
	}
	return nil
}

// GetCachedDetail decodes the cached detail of a URL into out.
// It reports false on a cache miss.
func (s *Store) GetCachedDetail(ctx context.Context, url string, out any) (bool, error) {
	data, err := s.client.Get(ctx, DetailKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // Cache miss
		}
		return false, fmt.Errorf("failed to get cached detail: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached detail: %w", err)
	}
	return true, nil
}

// InvalidateDetail removes a cached detail
func (s *Store) InvalidateDetail(ctx context.Context, url string) error {
	if err := s.client.Del(ctx, DetailKey(url)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate detail: %w", err)
	}
	return nil
}

// FlushDetails removes all cached details
func (s *Store) FlushDetails(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixDetail+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete detail key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush details: %w", err)
	}
	return nil
}
