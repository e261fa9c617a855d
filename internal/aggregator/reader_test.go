package aggregator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openelect/ballot-pipeline/internal/aggregator"
	"github.com/openelect/ballot-pipeline/internal/domain"
	mockspkg "github.com/openelect/ballot-pipeline/internal/mocks"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// testReaderMocks contains all the mocks needed for testing the reader
type testReaderMocks struct {
	ctrl  *gomock.Controller
	store *mockspkg.MockStore
	cache *mockspkg.MockResultsCache
}

// setupTestReader creates all the mocks for testing
func setupTestReader(t *testing.T) *testReaderMocks {
	ctrl := gomock.NewController(t)

	return &testReaderMocks{
		ctrl:  ctrl,
		store: mockspkg.NewMockStore(ctrl),
		cache: mockspkg.NewMockResultsCache(ctrl),
	}
}

// tearDownTestReader cleans up the test mocks
func tearDownTestReader(mocks *testReaderMocks) {
	mocks.ctrl.Finish()
}

func TestReader_GetSummary_CacheHit(t *testing.T) {
	mocks := setupTestReader(t)
	defer tearDownTestReader(mocks)

	ctx := context.Background()
	cached := &domain.SummarySnapshot{StationID: 42, TotalEntries: 7}

	mocks.cache.EXPECT().GetSummary(ctx, uint64(42)).Return(cached, true)

	reader := aggregator.NewReader(mocks.store, mocks.cache)

	summary, err := reader.GetSummary(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, cached, summary)
}

func TestReader_GetSummary_CacheMiss_Repopulates(t *testing.T) {
	mocks := setupTestReader(t)
	defer tearDownTestReader(mocks)

	ctx := context.Background()
	computedAt := time.Date(2026, 5, 17, 12, 0, 0, 0, time.UTC)

	row := &schema.StationSummary{
		StationID:              42,
		TotalEntries:           7,
		ValidListVotes:         3,
		ValidPreferentialVotes: 2,
		WhitePapers:            1,
		CancelledPapers:        1,
		ComputedAt:             computedAt,
	}

	mocks.cache.EXPECT().GetSummary(ctx, uint64(42)).Return(nil, false)
	mocks.store.EXPECT().GetStationSummary(ctx, uint64(42)).Return(row, nil)
	mocks.cache.EXPECT().
		SetSummary(ctx, gomock.Any()).
		Do(func(_ context.Context, summary *domain.SummarySnapshot) {
			assert.Equal(t, int64(7), summary.TotalEntries)
		})

	reader := aggregator.NewReader(mocks.store, mocks.cache)

	summary, err := reader.GetSummary(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, uint64(42), summary.StationID)
	assert.Equal(t, int64(3), summary.ValidListVotes)
	assert.Equal(t, int64(2), summary.ValidPreferentialVotes)
	assert.Equal(t, computedAt, summary.ComputedAt)
}

func TestReader_GetSummary_NeverAggregated(t *testing.T) {
	mocks := setupTestReader(t)
	defer tearDownTestReader(mocks)

	ctx := context.Background()

	mocks.cache.EXPECT().GetSummary(ctx, uint64(42)).Return(nil, false)
	mocks.store.EXPECT().GetStationSummary(ctx, uint64(42)).Return(nil, nil)

	reader := aggregator.NewReader(mocks.store, mocks.cache)

	summary, err := reader.GetSummary(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestReader_GetSummary_StoreError(t *testing.T) {
	mocks := setupTestReader(t)
	defer tearDownTestReader(mocks)

	ctx := context.Background()

	mocks.cache.EXPECT().GetSummary(ctx, uint64(42)).Return(nil, false)
	mocks.store.EXPECT().
		GetStationSummary(ctx, uint64(42)).
		Return(nil, errors.New("connection refused"))

	reader := aggregator.NewReader(mocks.store, mocks.cache)

	summary, err := reader.GetSummary(ctx, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read station summary")
	assert.Nil(t, summary)
}

func TestReader_GetAggregates_CacheHit(t *testing.T) {
	mocks := setupTestReader(t)
	defer tearDownTestReader(mocks)

	ctx := context.Background()
	cached := []domain.AggregateSnapshot{
		{StationID: 42, ListID: 1, VoteCount: 3},
	}

	mocks.cache.EXPECT().GetAggregates(ctx, uint64(42)).Return(cached, true)

	reader := aggregator.NewReader(mocks.store, mocks.cache)

	aggregates, err := reader.GetAggregates(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, cached, aggregates)
}

func TestReader_GetAggregates_CacheMiss_Repopulates(t *testing.T) {
	mocks := setupTestReader(t)
	defer tearDownTestReader(mocks)

	ctx := context.Background()
	candidateID := uint64(10)

	rows := []*schema.StationAggregate{
		{StationID: 42, ListID: 1, VoteCount: 3},
		{StationID: 42, ListID: 1, CandidateID: &candidateID, VoteCount: 2},
	}

	mocks.cache.EXPECT().GetAggregates(ctx, uint64(42)).Return(nil, false)
	mocks.store.EXPECT().GetStationAggregates(ctx, uint64(42)).Return(rows, nil)
	mocks.cache.EXPECT().SetAggregates(ctx, uint64(42), gomock.Any())

	reader := aggregator.NewReader(mocks.store, mocks.cache)

	aggregates, err := reader.GetAggregates(ctx, 42)
	require.NoError(t, err)
	require.Len(t, aggregates, 2)
	assert.Nil(t, aggregates[0].CandidateID)
	require.NotNil(t, aggregates[1].CandidateID)
	assert.Equal(t, candidateID, *aggregates[1].CandidateID)
}

func TestReader_GetAggregates_Empty(t *testing.T) {
	mocks := setupTestReader(t)
	defer tearDownTestReader(mocks)

	ctx := context.Background()

	mocks.cache.EXPECT().GetAggregates(ctx, uint64(42)).Return(nil, false)
	mocks.store.EXPECT().GetStationAggregates(ctx, uint64(42)).Return(nil, nil)
	mocks.cache.EXPECT().SetAggregates(ctx, uint64(42), gomock.Len(0))

	reader := aggregator.NewReader(mocks.store, mocks.cache)

	aggregates, err := reader.GetAggregates(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, aggregates)
	assert.Empty(t, aggregates)
}
