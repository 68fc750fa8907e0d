package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService memoizes whole dashboard responses for a short time window.
// The core pipeline never caches anything itself; this layer sits between the
// API handlers and the pipeline.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// CacheKeyType represents different types of cache keys
type CacheKeyType string

const (
	// CacheKeyNFTs is for enriched NFT lists
	CacheKeyNFTs CacheKeyType = "nfts"
	// CacheKeyTransactions is for asset-transfer transaction lists
	CacheKeyTransactions CacheKeyType = "txs"
	// CacheKeyStats is for monthly statistics
	CacheKeyStats CacheKeyType = "stats"
	// CacheKeyTransfers is for joined transfer histories
	CacheKeyTransfers CacheKeyType = "transfers"
)

// Key generates a cache key for a given type and parameters.
// Format: <type>:<param1>:<param2>:...
func (c *CacheService) Key(keyType CacheKeyType, params ...string) string {
	normalized := make([]string, len(params))
	for i, param := range params {
		normalized[i] = strings.ToLower(param)
	}

	parts := append([]string{string(keyType)}, normalized...)
	return strings.Join(parts, ":")
}

// Set stores a value in cache with the configured TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redis.Set(ctx, key, data, c.ttl)
}

// Get retrieves a value from cache and deserializes it. The boolean result
// distinguishes a miss from an error.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

// InvalidateWallet removes all cached responses for a wallet
func (c *CacheService) InvalidateWallet(ctx context.Context, wallet string) error {
	wallet = strings.ToLower(wallet)

	for _, keyType := range []CacheKeyType{CacheKeyNFTs, CacheKeyTransactions, CacheKeyStats, CacheKeyTransfers} {
		pattern := fmt.Sprintf("%s:%s*", keyType, wallet)
		keys, err := c.redis.Keys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to find keys matching pattern: %w", err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.redis.Del(ctx, keys...); err != nil {
			return fmt.Errorf("failed to invalidate wallet cache: %w", err)
		}
	}

	return nil
}
