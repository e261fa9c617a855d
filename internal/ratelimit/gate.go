package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/openelect/ballot-pipeline/internal/adapter"
	"github.com/openelect/ballot-pipeline/internal/config"
	"github.com/openelect/ballot-pipeline/internal/logger"
)

// redisRecheckInterval is how long the gate waits before probing Redis again
// after a failure
const redisRecheckInterval = 10 * time.Second

// Result is the outcome of one check-and-hit
type Result struct {
	// Allowed is true when the submission may proceed
	Allowed bool
	// RetryAfter is how long the caller should wait before retrying; only
	// meaningful when Allowed is false
	RetryAfter time.Duration
}

// Gate is the per-user submission throughput limiter. Each call atomically
// consumes one slot of the user's window, independent of whether the
// submission later turns out to be invalid.
//
//go:generate mockgen -source=gate.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Gate=MockGate
type Gate interface {
	// CheckAndHit consumes one slot of the user's window and reports whether
	// the submission is within the limit
	CheckAndHit(ctx context.Context, userID uint64) (Result, error)
}

// gate limits with redis_rate and falls back to in-process limiters when
// Redis is unreachable, following the distributed-first/local-fallback split.
type gate struct {
	cfg         config.RateLimitConfig
	distributed adapter.RedisRateLimiter
	redis       adapter.RedisClient
	clock       adapter.Clock

	redisAvailable atomic.Bool
	lastRedisProbe atomic.Int64 // unix nanos of the last failed probe

	mu    sync.Mutex
	local map[uint64]*rate.Limiter
}

// NewGate creates the submission rate limiter gate
func NewGate(cfg config.RateLimitConfig, rc adapter.RedisClient, clock adapter.Clock) (Gate, error) {
	if cfg.EntriesPerMinute <= 0 {
		return nil, fmt.Errorf("entries_per_minute must be positive")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ballot-entry:"
	}

	g := &gate{
		cfg:         cfg,
		distributed: rc.NewRateLimiter(),
		redis:       rc,
		clock:       clock,
		local:       make(map[uint64]*rate.Limiter),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Ping(ctx).Err(); err != nil {
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, rate limiter starts on local fallback", zap.Error(err))
		g.lastRedisProbe.Store(clock.Now().UnixNano())
	} else {
		g.redisAvailable.Store(true)
	}

	return g, nil
}

// CheckAndHit consumes one slot of the user's window
func (g *gate) CheckAndHit(ctx context.Context, userID uint64) (Result, error) {
	if g.shouldTryRedis() {
		res, err := g.distributed.Allow(ctx, g.key(userID), redis_rate.PerMinute(g.cfg.EntriesPerMinute))
		if err == nil {
			g.redisAvailable.Store(true)
			if res.Allowed > 0 {
				return Result{Allowed: true}, nil
			}
			return Result{Allowed: false, RetryAfter: res.RetryAfter}, nil
		}

		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		g.redisAvailable.Store(false)
		g.lastRedisProbe.Store(g.clock.Now().UnixNano())

		if !g.cfg.EnableLocalFallback {
			return Result{}, fmt.Errorf("redis rate limiter unavailable: %w", err)
		}
		logger.Warn("Redis rate limiter error, falling back to local",
			zap.Uint64("user_id", userID),
			zap.Error(err),
		)
	}

	return g.localCheckAndHit(userID), nil
}

// shouldTryRedis reports whether the distributed limiter should be attempted.
// After a failure the gate stays local until the recheck interval passes.
func (g *gate) shouldTryRedis() bool {
	if g.redisAvailable.Load() {
		return true
	}
	last := g.lastRedisProbe.Load()
	return g.clock.Now().UnixNano()-last >= int64(redisRecheckInterval)
}

// localCheckAndHit consumes a token from the per-user in-process limiter.
// Local state resets on restart, which is acceptable for a fallback path.
func (g *gate) localCheckAndHit(userID uint64) Result {
	g.mu.Lock()
	limiter, ok := g.local[userID]
	if !ok {
		perSecond := rate.Limit(float64(g.cfg.EntriesPerMinute) / 60.0)
		limiter = rate.NewLimiter(perSecond, g.cfg.EntriesPerMinute)
		g.local[userID] = limiter
	}
	g.mu.Unlock()

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	if delay > 0 {
		reservation.Cancel()
		return Result{Allowed: false, RetryAfter: delay}
	}

	return Result{Allowed: true}
}

func (g *gate) key(userID uint64) string {
	return fmt.Sprintf("%s%d", g.cfg.KeyPrefix, userID)
}
