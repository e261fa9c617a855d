package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openelect/ballot-pipeline/internal/adapter"
	"github.com/openelect/ballot-pipeline/internal/config"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/logger"
)

// ResultsCache is the short-TTL snapshot cache in front of the authoritative
// summary/aggregate tables. Values are plain serialized snapshots, so a stale
// hit never blocks on a lock. The cache is never treated as authoritative:
// any Redis failure degrades to a miss, never to a read error.
//
//go:generate mockgen -source=results.go -destination=../mocks/cache.go -package=mocks -mock_names=ResultsCache=MockResultsCache
type ResultsCache interface {
	// GetSummary returns the cached summary snapshot and whether it was present
	GetSummary(ctx context.Context, stationID uint64) (*domain.SummarySnapshot, bool)

	// SetSummary stores a summary snapshot under the station's summary key
	SetSummary(ctx context.Context, summary *domain.SummarySnapshot)

	// GetAggregates returns the cached aggregate snapshots and whether they were present
	GetAggregates(ctx context.Context, stationID uint64) ([]domain.AggregateSnapshot, bool)

	// SetAggregates stores the aggregate snapshots under the station's aggregates key
	SetAggregates(ctx context.Context, stationID uint64, aggregates []domain.AggregateSnapshot)

	// Invalidate removes both of the station's cache entries
	Invalidate(ctx context.Context, stationID uint64)
}

type resultsCache struct {
	redis     adapter.RedisClient
	json      adapter.JSON
	ttl       time.Duration
	keyPrefix string
}

// NewResultsCache creates a Redis-backed results cache
func NewResultsCache(cfg config.CacheConfig, rc adapter.RedisClient, jsonAdapter adapter.JSON) ResultsCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "station:"
	}

	return &resultsCache{
		redis:     rc,
		json:      jsonAdapter,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// GetSummary returns the cached summary snapshot
func (c *resultsCache) GetSummary(ctx context.Context, stationID uint64) (*domain.SummarySnapshot, bool) {
	data, ok := c.get(ctx, c.summaryKey(stationID))
	if !ok {
		return nil, false
	}

	var summary domain.SummarySnapshot
	if err := c.json.Unmarshal(data, &summary); err != nil {
		logger.Warn("Discarding undecodable cached summary",
			zap.Uint64("station_id", stationID),
			zap.Error(err),
		)
		return nil, false
	}

	return &summary, true
}

// SetSummary stores a summary snapshot
func (c *resultsCache) SetSummary(ctx context.Context, summary *domain.SummarySnapshot) {
	c.set(ctx, c.summaryKey(summary.StationID), summary)
}

// GetAggregates returns the cached aggregate snapshots
func (c *resultsCache) GetAggregates(ctx context.Context, stationID uint64) ([]domain.AggregateSnapshot, bool) {
	data, ok := c.get(ctx, c.aggregatesKey(stationID))
	if !ok {
		return nil, false
	}

	var aggregates []domain.AggregateSnapshot
	if err := c.json.Unmarshal(data, &aggregates); err != nil {
		logger.Warn("Discarding undecodable cached aggregates",
			zap.Uint64("station_id", stationID),
			zap.Error(err),
		)
		return nil, false
	}

	return aggregates, true
}

// SetAggregates stores the aggregate snapshots
func (c *resultsCache) SetAggregates(ctx context.Context, stationID uint64, aggregates []domain.AggregateSnapshot) {
	if aggregates == nil {
		aggregates = []domain.AggregateSnapshot{}
	}
	c.set(ctx, c.aggregatesKey(stationID), aggregates)
}

// Invalidate removes both of the station's cache entries
func (c *resultsCache) Invalidate(ctx context.Context, stationID uint64) {
	err := c.redis.Del(ctx, c.summaryKey(stationID), c.aggregatesKey(stationID)).Err()
	if err != nil {
		// The entries expire within the TTL anyway
		logger.Warn("Failed to invalidate station cache entries",
			zap.Uint64("station_id", stationID),
			zap.Error(err),
		)
	}
}

// get fetches a raw cache value, mapping every failure to a miss
func (c *resultsCache) get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// set stores a snapshot value, logging and ignoring failures
func (c *resultsCache) set(ctx context.Context, key string, value interface{}) {
	data, err := c.json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *resultsCache) summaryKey(stationID uint64) string {
	return fmt.Sprintf("%s%d:summary", c.keyPrefix, stationID)
}

func (c *resultsCache) aggregatesKey(stationID uint64) string {
	return fmt.Sprintf("%s%d:aggregates", c.keyPrefix, stationID)
}
