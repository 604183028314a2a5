// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_watchlist/internal/feature/stocks/domain/entity"
	"stock_watchlist/internal/feature/stocks/usecase"
)

// CachingPriceRepository decorates a PriceRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Window reads are cached per
// (symbol, limit); every write path invalidates the symbol's entries so
// concurrent readers never see a stale window after an append or trim.
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PriceRepository = (*CachingPriceRepository)(nil)

// NewCachingPriceRepository decorates a PriceRepository with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "prices".
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PriceRepository, namespace string) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingPriceRepository) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, symbol)
}

func (c *CachingPriceRepository) recentKey(symbol string, limit int) string {
	return fmt.Sprintf("%srecent:%d", c.cacheKeyPrefix(symbol), limit)
}

// invalidate removes every cached entry for the symbol. Best effort: cache
// deletion failures never fail the write that triggered them.
func (c *CachingPriceRepository) invalidate(ctx context.Context, symbol string) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol)+"*")
}

func (c *CachingPriceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Append inserts a sample and invalidates the symbol's cache entries.
func (c *CachingPriceRepository) Append(ctx context.Context, symbol string, price float64, observedAt time.Time) error {
	if err := c.inner.Append(ctx, symbol, price, observedAt); err != nil {
		return err
	}
	c.invalidate(ctx, symbol)
	return nil
}

// TrimToLimit trims the stored window and invalidates the symbol's cache entries.
func (c *CachingPriceRepository) TrimToLimit(ctx context.Context, symbol string, limit int) error {
	if err := c.inner.TrimToLimit(ctx, symbol, limit); err != nil {
		return err
	}
	c.invalidate(ctx, symbol)
	return nil
}

// Record appends and trims atomically, then invalidates the symbol's cache entries.
func (c *CachingPriceRepository) Record(ctx context.Context, symbol string, price float64, observedAt time.Time, limit int) error {
	if err := c.inner.Record(ctx, symbol, price, observedAt, limit); err != nil {
		return err
	}
	c.invalidate(ctx, symbol)
	return nil
}

// Purge deletes all samples for the symbol and invalidates its cache entries.
func (c *CachingPriceRepository) Purge(ctx context.Context, symbol string) error {
	if err := c.inner.Purge(ctx, symbol); err != nil {
		return err
	}
	c.invalidate(ctx, symbol)
	return nil
}

// Latest bypasses the cache; the resolver reads windows, not single samples,
// so caching this path would add invalidation surface for no gain.
func (c *CachingPriceRepository) Latest(ctx context.Context, symbol string) (*entity.PriceSample, error) {
	return c.inner.Latest(ctx, symbol)
}

// Recent retrieves a window, checking cache first then falling back to the
// underlying repository.
func (c *CachingPriceRepository) Recent(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Recent(ctx, symbol, limit)
	}

	key := c.recentKey(symbol, limit)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PriceSample
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the repository
	out, err := c.inner.Recent(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}
