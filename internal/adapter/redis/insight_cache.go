package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rogrow/internal/adapter/metrics"
	"github.com/pscheid92/rogrow/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const insightCacheTTL = 1 * time.Hour

const (
	layerMemory = "memory"
	layerRedis  = "redis"
)

// InsightCache is a two-layer read-through cache for generated score insights:
// an in-memory L1 with a short TTL in front of Redis (L2, JSON, one hour).
// Without a Redis client it runs on L1 alone.
type InsightCache struct {
	rdb     goredis.Cmdable
	mem     *memoryCache
	clock   clockwork.Clock
	metrics *metrics.CacheMetrics
}

var _ domain.InsightCache = (*InsightCache)(nil)

// NewInsightCache creates the cache. rdb and m may be nil.
func NewInsightCache(rdb goredis.Cmdable, memCacheTTL time.Duration, clock clockwork.Clock, m *metrics.CacheMetrics) *InsightCache {
	return &InsightCache{
		rdb:     rdb,
		mem:     newMemoryCache(memCacheTTL, clock),
		clock:   clock,
		metrics: m,
	}
}

// StartEvictionTimer runs a periodic goroutine that evicts expired in-memory cache entries.
// Returns a stop function that should be deferred.
func (c *InsightCache) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if evicted := c.mem.evictExpired(); evicted > 0 {
					slog.Debug("Evicted expired insight cache entries", "count", evicted, "remaining", c.mem.size())
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-stopped
		})
	}
}

// Get returns domain.ErrCacheMiss when neither layer holds the student.
func (c *InsightCache) Get(ctx context.Context, nis string) (*domain.ScoreInsights, error) {
	if insights, ok := c.mem.get(nis); ok {
		c.hit(layerMemory)
		return insights, nil
	}
	c.miss(layerMemory)

	if c.rdb == nil {
		return nil, domain.ErrCacheMiss
	}

	insights, ok := c.getCached(ctx, nis)
	if !ok {
		c.miss(layerRedis)
		return nil, domain.ErrCacheMiss
	}
	c.hit(layerRedis)

	c.mem.set(nis, insights)
	return insights, nil
}

func (c *InsightCache) Set(ctx context.Context, nis string, insights *domain.ScoreInsights) error {
	c.mem.set(nis, insights)

	if c.rdb == nil {
		return nil
	}

	encoded, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}
	if err := c.rdb.Set(ctx, insightCacheKey(nis), encoded, insightCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to populate insight cache: %w", err)
	}
	return nil
}

// Invalidate evicts the student from both layers.
func (c *InsightCache) Invalidate(ctx context.Context, nis string) error {
	c.mem.invalidate(nis)
	if c.metrics != nil {
		c.metrics.Invalidated()
	}

	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, insightCacheKey(nis)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate insight cache: %w", err)
	}
	return nil
}

func (c *InsightCache) getCached(ctx context.Context, nis string) (*domain.ScoreInsights, bool) {
	data, err := c.rdb.Get(ctx, insightCacheKey(nis)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.WarnContext(ctx, "Redis insight cache GET failed", "nis", nis, "error", err)
		}
		return nil, false
	}

	var insights domain.ScoreInsights
	if err := json.Unmarshal(data, &insights); err != nil {
		slog.WarnContext(ctx, "Failed to unmarshal cached insights", "nis", nis, "error", err)
		return nil, false
	}

	return &insights, true
}

func (c *InsightCache) hit(layer string) {
	if c.metrics != nil {
		c.metrics.Hit(layer)
	}
}

func (c *InsightCache) miss(layer string) {
	if c.metrics != nil {
		c.metrics.Miss(layer)
	}
}

func insightCacheKey(nis string) string {
	return "insights:" + nis
}

// memoryCache is an in-memory L1 cache with TTL-based expiry.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryCacheEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type memoryCacheEntry struct {
	insights  *domain.ScoreInsights
	expiresAt time.Time
}

func newMemoryCache(ttl time.Duration, clock clockwork.Clock) *memoryCache {
	return &memoryCache{
		entries: make(map[string]*memoryCacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (c *memoryCache) get(nis string) (*domain.ScoreInsights, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[nis]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.insights, true
}

func (c *memoryCache) set(nis string, insights *domain.ScoreInsights) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[nis] = &memoryCacheEntry{
		insights:  insights,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

func (c *memoryCache) invalidate(nis string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, nis)
}

func (c *memoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *memoryCache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
