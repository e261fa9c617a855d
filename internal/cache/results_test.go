package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openelect/ballot-pipeline/internal/cache"
	"github.com/openelect/ballot-pipeline/internal/config"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/logger"
	mockspkg "github.com/openelect/ballot-pipeline/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testCacheMocks contains all the mocks needed for testing the results cache
type testCacheMocks struct {
	ctrl  *gomock.Controller
	redis *mockspkg.MockRedisClient
	json  *mockspkg.MockJSON
}

// setupTestCache creates all the mocks for testing
func setupTestCache(t *testing.T) *testCacheMocks {
	ctrl := gomock.NewController(t)

	tm := &testCacheMocks{
		ctrl:  ctrl,
		redis: mockspkg.NewMockRedisClient(ctrl),
		json:  mockspkg.NewMockJSON(ctrl),
	}

	// Tests exercise real serialization unless they override these
	tm.json.EXPECT().
		Marshal(gomock.Any()).
		DoAndReturn(json.Marshal).
		AnyTimes()
	tm.json.EXPECT().
		Unmarshal(gomock.Any(), gomock.Any()).
		DoAndReturn(json.Unmarshal).
		AnyTimes()

	return tm
}

// tearDownTestCache cleans up the test mocks
func tearDownTestCache(mocks *testCacheMocks) {
	mocks.ctrl.Finish()
}

func newTestCache(mocks *testCacheMocks) cache.ResultsCache {
	return cache.NewResultsCache(config.CacheConfig{
		TTL:       15 * time.Second,
		KeyPrefix: "station:",
	}, mocks.redis, mocks.json)
}

func TestResultsCache_GetSummary_Hit(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	stored := &domain.SummarySnapshot{StationID: 42, TotalEntries: 7}
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	mocks.redis.EXPECT().
		Get(ctx, "station:42:summary").
		Return(redis.NewStringResult(string(data), nil))

	c := newTestCache(mocks)

	summary, ok := c.GetSummary(ctx, 42)
	require.True(t, ok)
	require.NotNil(t, summary)
	assert.Equal(t, uint64(42), summary.StationID)
	assert.Equal(t, int64(7), summary.TotalEntries)
}

func TestResultsCache_GetSummary_Miss(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	mocks.redis.EXPECT().
		Get(ctx, "station:42:summary").
		Return(redis.NewStringResult("", redis.Nil))

	c := newTestCache(mocks)

	summary, ok := c.GetSummary(ctx, 42)
	assert.False(t, ok)
	assert.Nil(t, summary)
}

func TestResultsCache_GetSummary_RedisErrorIsMiss(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	mocks.redis.EXPECT().
		Get(ctx, "station:42:summary").
		Return(redis.NewStringResult("", errors.New("connection refused")))

	c := newTestCache(mocks)

	summary, ok := c.GetSummary(ctx, 42)
	assert.False(t, ok)
	assert.Nil(t, summary)
}

func TestResultsCache_GetSummary_UndecodableIsMiss(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	mocks.redis.EXPECT().
		Get(ctx, "station:42:summary").
		Return(redis.NewStringResult("{not json", nil))

	c := newTestCache(mocks)

	summary, ok := c.GetSummary(ctx, 42)
	assert.False(t, ok)
	assert.Nil(t, summary)
}

func TestResultsCache_SetSummary(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()
	summary := &domain.SummarySnapshot{StationID: 42, TotalEntries: 7}

	mocks.redis.EXPECT().
		Set(ctx, "station:42:summary", gomock.Any(), 15*time.Second).
		DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
			var decoded domain.SummarySnapshot
			require.NoError(t, json.Unmarshal(value.([]byte), &decoded))
			assert.Equal(t, int64(7), decoded.TotalEntries)
			return redis.NewStatusResult("OK", nil)
		})

	c := newTestCache(mocks)
	c.SetSummary(ctx, summary)
}

func TestResultsCache_SetSummary_WriteFailureIgnored(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	mocks.redis.EXPECT().
		Set(ctx, "station:42:summary", gomock.Any(), gomock.Any()).
		Return(redis.NewStatusResult("", errors.New("connection refused")))

	c := newTestCache(mocks)
	c.SetSummary(ctx, &domain.SummarySnapshot{StationID: 42})
}

func TestResultsCache_GetAggregates_Hit(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()
	candidateID := uint64(10)

	stored := []domain.AggregateSnapshot{
		{StationID: 42, ListID: 1, VoteCount: 3},
		{StationID: 42, ListID: 1, CandidateID: &candidateID, VoteCount: 2},
	}
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	mocks.redis.EXPECT().
		Get(ctx, "station:42:aggregates").
		Return(redis.NewStringResult(string(data), nil))

	c := newTestCache(mocks)

	aggregates, ok := c.GetAggregates(ctx, 42)
	require.True(t, ok)
	require.Len(t, aggregates, 2)
	assert.Nil(t, aggregates[0].CandidateID)
	require.NotNil(t, aggregates[1].CandidateID)
	assert.Equal(t, candidateID, *aggregates[1].CandidateID)
}

func TestResultsCache_SetAggregates_NilBecomesEmpty(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	mocks.redis.EXPECT().
		Set(ctx, "station:42:aggregates", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
			// A station with no tallies caches an empty list, not null, so a
			// later hit is distinguishable from a miss
			assert.Equal(t, "[]", string(value.([]byte)))
			return redis.NewStatusResult("OK", nil)
		})

	c := newTestCache(mocks)
	c.SetAggregates(ctx, 42, nil)
}

func TestResultsCache_Invalidate(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	mocks.redis.EXPECT().
		Del(ctx, "station:42:summary", "station:42:aggregates").
		Return(redis.NewIntResult(2, nil))

	c := newTestCache(mocks)
	c.Invalidate(ctx, 42)
}

func TestResultsCache_Invalidate_ErrorIgnored(t *testing.T) {
	mocks := setupTestCache(t)
	defer tearDownTestCache(mocks)

	ctx := context.Background()

	mocks.redis.EXPECT().
		Del(ctx, "station:42:summary", "station:42:aggregates").
		Return(redis.NewIntResult(0, errors.New("connection refused")))

	c := newTestCache(mocks)
	c.Invalidate(ctx, 42)
}
