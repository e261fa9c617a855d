package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// Seeded reference data (see seedReferenceData):
//   station 1 "Central School Gym" open, station 2 "North Community Hall" closed
//   user 1 active counter at station 1, user 2 active observer at station 1
//   user 3 inactive counter at station 1, user 2 inactive counter at station 2
//   list 1 "Unity Alliance" (candidates 1, 2), list 2 "Progress Front" (candidate 3)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestEntryInput creates a ballot entry input against the seeded references
func buildTestEntryInput(stationID uint64, ballotType domain.BallotType, listID, candidateID *uint64, dedupKey string) CreateBallotEntryInput {
	return CreateBallotEntryInput{
		DedupKey:    dedupKey,
		StationID:   stationID,
		BallotType:  ballotType,
		ListID:      listID,
		CandidateID: candidateID,
		EnteredByID: 1,
		SubmitterIP: "203.0.113.7",
		EnteredAt:   time.Now().UTC(),
	}
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func stringPtr(s string) *string {
	return &s
}

// =============================================================================
// Test: GetStation
// =============================================================================

func testGetStation(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("returns the station with its fields", func(t *testing.T) {
		station, err := store.GetStation(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, station)
		assert.Equal(t, uint64(1), station.ID)
		assert.Equal(t, "Central School Gym", station.Name)
		assert.Equal(t, int64(1200), station.RegisteredVoters)
		assert.True(t, station.Open)
		assert.False(t, station.Closed)
	})

	t.Run("returns a closed station", func(t *testing.T) {
		station, err := store.GetStation(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, station)
		assert.False(t, station.Open)
		assert.True(t, station.Closed)
	})

	t.Run("returns nil without error when the station does not exist", func(t *testing.T) {
		station, err := store.GetStation(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, station)
	})
}

// =============================================================================
// Test: IsActiveCounter
// =============================================================================

func testIsActiveCounter(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("active counter assignment with active user", func(t *testing.T) {
		ok, err := store.IsActiveCounter(ctx, 1, 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("observer role is not a counter", func(t *testing.T) {
		ok, err := store.IsActiveCounter(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deactivated user account", func(t *testing.T) {
		ok, err := store.IsActiveCounter(ctx, 1, 3)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deactivated assignment", func(t *testing.T) {
		ok, err := store.IsActiveCounter(ctx, 2, 2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no assignment at all", func(t *testing.T) {
		ok, err := store.IsActiveCounter(ctx, 1, 999)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// =============================================================================
// Test: CreateBallotEntry
// =============================================================================

func testCreateBallotEntry(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("persists a valid list entry", func(t *testing.T) {
		input := buildTestEntryInput(1, domain.BallotTypeValidList, uint64Ptr(1), nil, "dedup-create-1")
		input.Metadata = datatypes.JSON(`{"booth":"3"}`)

		created, err := store.CreateBallotEntry(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)

		entries, err := store.GetEntriesForAggregation(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		entry := entries[0]
		assert.NotEmpty(t, entry.EntryUID)
		assert.Equal(t, "dedup-create-1", entry.DedupKey)
		assert.Equal(t, uint64(1), entry.StationID)
		assert.Equal(t, domain.BallotTypeValidList, entry.BallotType)
		require.NotNil(t, entry.ListID)
		assert.Equal(t, uint64(1), *entry.ListID)
		assert.Nil(t, entry.CandidateID)
		assert.Equal(t, uint64(1), entry.EnteredByID)
		assert.Equal(t, "203.0.113.7", entry.SubmitterIP)
		assert.WithinDuration(t, input.EnteredAt, entry.EnteredAt, time.Second)
		assert.JSONEq(t, `{"booth":"3"}`, string(entry.Metadata))
	})

	t.Run("repeated dedup key inserts nothing and is not an error", func(t *testing.T) {
		input := buildTestEntryInput(1, domain.BallotTypeValidList, uint64Ptr(1), nil, "dedup-create-1")

		created, err := store.CreateBallotEntry(ctx, input)
		require.NoError(t, err)
		assert.False(t, created)

		entries, err := store.GetEntriesForAggregation(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("persists a preferential entry", func(t *testing.T) {
		input := buildTestEntryInput(1, domain.BallotTypeValidPreferential, uint64Ptr(1), uint64Ptr(2), "dedup-create-2")

		created, err := store.CreateBallotEntry(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("unknown station is a permanent reference failure", func(t *testing.T) {
		input := buildTestEntryInput(999, domain.BallotTypeWhite, nil, nil, "dedup-create-3")

		created, err := store.CreateBallotEntry(ctx, input)
		require.ErrorIs(t, err, domain.ErrStationNotFound)
		assert.False(t, created)
	})

	t.Run("unknown list is a permanent reference failure", func(t *testing.T) {
		input := buildTestEntryInput(1, domain.BallotTypeValidList, uint64Ptr(999), nil, "dedup-create-4")

		created, err := store.CreateBallotEntry(ctx, input)
		require.ErrorIs(t, err, domain.ErrListNotFound)
		assert.False(t, created)
	})

	t.Run("unknown candidate is a permanent reference failure", func(t *testing.T) {
		input := buildTestEntryInput(1, domain.BallotTypeValidPreferential, uint64Ptr(1), uint64Ptr(999), "dedup-create-5")

		created, err := store.CreateBallotEntry(ctx, input)
		require.ErrorIs(t, err, domain.ErrCandidateNotFound)
		assert.False(t, created)
	})

	t.Run("candidate on a different list is a permanent reference failure", func(t *testing.T) {
		// candidate 3 runs on list 2
		input := buildTestEntryInput(1, domain.BallotTypeValidPreferential, uint64Ptr(1), uint64Ptr(3), "dedup-create-6")

		created, err := store.CreateBallotEntry(ctx, input)
		require.ErrorIs(t, err, domain.ErrCandidateNotFound)
		assert.False(t, created)
	})

	t.Run("persists a cancelled entry with its reason", func(t *testing.T) {
		input := buildTestEntryInput(1, domain.BallotTypeCancelled, nil, nil, "dedup-create-7")
		input.CancellationReason = stringPtr("torn paper")

		created, err := store.CreateBallotEntry(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)

		entries, err := store.GetEntriesForAggregation(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		last := entries[len(entries)-1]
		assert.Equal(t, domain.BallotTypeCancelled, last.BallotType)
		require.NotNil(t, last.CancellationReason)
		assert.Equal(t, "torn paper", *last.CancellationReason)
	})
}

// =============================================================================
// Test: ListBallotEntries
// =============================================================================

func testListBallotEntries(t *testing.T, store Store) {
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	seed := []CreateBallotEntryInput{
		buildTestEntryInput(1, domain.BallotTypeValidList, uint64Ptr(1), nil, "dedup-list-1"),
		buildTestEntryInput(1, domain.BallotTypeValidPreferential, uint64Ptr(1), uint64Ptr(2), "dedup-list-2"),
		buildTestEntryInput(1, domain.BallotTypeWhite, nil, nil, "dedup-list-3"),
	}
	for i := range seed {
		seed[i].EnteredAt = base.Add(time.Duration(i) * time.Minute)
		created, err := store.CreateBallotEntry(ctx, seed[i])
		require.NoError(t, err)
		require.True(t, created)
	}

	t.Run("pages in reverse chronological order with display joins", func(t *testing.T) {
		rows, total, err := store.ListBallotEntries(ctx, 1, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 2)

		// newest first: the white paper, then the preferential vote
		assert.Equal(t, domain.BallotTypeWhite, rows[0].BallotType)
		assert.Nil(t, rows[0].ListID)
		assert.Nil(t, rows[0].ListName)
		assert.Equal(t, "Maya Haddad", rows[0].EnteredByName)

		assert.Equal(t, domain.BallotTypeValidPreferential, rows[1].BallotType)
		require.NotNil(t, rows[1].ListName)
		assert.Equal(t, "Unity Alliance", *rows[1].ListName)
		require.NotNil(t, rows[1].CandidateName)
		assert.Equal(t, "Karim Aoun", *rows[1].CandidateName)
	})

	t.Run("last page holds the remainder", func(t *testing.T) {
		rows, total, err := store.ListBallotEntries(ctx, 1, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.BallotTypeValidList, rows[0].BallotType)
	})

	t.Run("out of range parameters fall back to defaults", func(t *testing.T) {
		rows, total, err := store.ListBallotEntries(ctx, 1, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rows, 3)
	})

	t.Run("station without entries yields an empty page", func(t *testing.T) {
		rows, total, err := store.ListBallotEntries(ctx, 2, 1, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, rows)
	})
}

// =============================================================================
// Test: GetEntriesForAggregation
// =============================================================================

func testGetEntriesForAggregation(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("station without entries yields an empty set", func(t *testing.T) {
		entries, err := store.GetEntriesForAggregation(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("returns all station entries in insertion order", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			input := buildTestEntryInput(1, domain.BallotTypeWhite, nil, nil, fmt.Sprintf("dedup-agg-%d", i))
			created, err := store.CreateBallotEntry(ctx, input)
			require.NoError(t, err)
			require.True(t, created)
		}
		// an entry for another station must not leak in
		other := buildTestEntryInput(2, domain.BallotTypeWhite, nil, nil, "dedup-agg-other")
		created, err := store.CreateBallotEntry(ctx, other)
		require.NoError(t, err)
		require.True(t, created)

		entries, err := store.GetEntriesForAggregation(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		for i := 1; i < len(entries); i++ {
			assert.Greater(t, entries[i].ID, entries[i-1].ID)
		}
		assert.Equal(t, "dedup-agg-0", entries[0].DedupKey)
	})
}

// =============================================================================
// Test: CreateBallotEntryLog
// =============================================================================

func testCreateBallotEntryLog(t *testing.T, store Store) {
	ctx := context.Background()

	log := &schema.BallotEntryLog{
		StationID: 1,
		UserID:    1,
		EventType: schema.BallotEntryLogEventSuspiciousActivity,
		Payload:   datatypes.JSON(`{"retry_after_ms":3000}`),
		IP:        "203.0.113.7",
	}

	err := store.CreateBallotEntryLog(ctx, log)
	require.NoError(t, err)
	assert.NotZero(t, log.ID)
}

// =============================================================================
// Test: ReplaceStationResults / GetStationSummary / GetStationAggregates
// =============================================================================

func testReplaceStationResults(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("summary is nil before the first aggregation", func(t *testing.T) {
		summary, err := store.GetStationSummary(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, summary)

		aggregates, err := store.GetStationAggregates(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, aggregates)
	})

	t.Run("replace installs summary and ordered aggregates", func(t *testing.T) {
		computedAt := time.Now().UTC()
		summary := &schema.StationSummary{
			StationID:              1,
			TotalEntries:           14,
			ValidListVotes:         6,
			ValidPreferentialVotes: 6,
			WhitePapers:            1,
			CancelledPapers:        1,
			ComputedAt:             computedAt,
		}
		aggregates := []*schema.StationAggregate{
			{StationID: 1, ListID: 1, CandidateID: uint64Ptr(1), VoteCount: 3},
			{StationID: 1, ListID: 1, CandidateID: nil, VoteCount: 3},
			{StationID: 1, ListID: 2, CandidateID: nil, VoteCount: 3},
			{StationID: 1, ListID: 2, CandidateID: uint64Ptr(3), VoteCount: 5},
			{StationID: 1, ListID: 1, CandidateID: uint64Ptr(2), VoteCount: 2},
		}

		err := store.ReplaceStationResults(ctx, summary, aggregates)
		require.NoError(t, err)

		got, err := store.GetStationSummary(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(14), got.TotalEntries)
		assert.Equal(t, int64(6), got.ValidListVotes)
		assert.Equal(t, int64(6), got.ValidPreferentialVotes)
		assert.Equal(t, int64(1), got.WhitePapers)
		assert.Equal(t, int64(1), got.CancelledPapers)
		assert.WithinDuration(t, computedAt, got.ComputedAt, time.Second)

		rows, err := store.GetStationAggregates(ctx, 1)
		require.NoError(t, err)
		require.Len(t, rows, 5)
		// vote count descending, ties on list then candidate with the
		// list-only row first
		assert.Equal(t, int64(5), rows[0].VoteCount)
		assert.Equal(t, uint64(2), rows[0].ListID)
		assert.Equal(t, int64(3), rows[1].VoteCount)
		assert.Equal(t, uint64(1), rows[1].ListID)
		assert.Nil(t, rows[1].CandidateID)
		assert.Equal(t, uint64(1), rows[2].ListID)
		require.NotNil(t, rows[2].CandidateID)
		assert.Equal(t, uint64(1), *rows[2].CandidateID)
		assert.Equal(t, uint64(2), rows[3].ListID)
		assert.Nil(t, rows[3].CandidateID)
		assert.Equal(t, int64(2), rows[4].VoteCount)
	})

	t.Run("replace overwrites the previous result set", func(t *testing.T) {
		summary := &schema.StationSummary{
			StationID:              1,
			TotalEntries:           15,
			ValidListVotes:         7,
			ValidPreferentialVotes: 6,
			WhitePapers:            1,
			CancelledPapers:        1,
			ComputedAt:             time.Now().UTC(),
		}
		aggregates := []*schema.StationAggregate{
			{StationID: 1, ListID: 1, CandidateID: nil, VoteCount: 7},
		}

		err := store.ReplaceStationResults(ctx, summary, aggregates)
		require.NoError(t, err)

		got, err := store.GetStationSummary(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(15), got.TotalEntries)
		assert.Equal(t, int64(7), got.ValidListVotes)

		rows, err := store.GetStationAggregates(ctx, 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(7), rows[0].VoteCount)
	})

	t.Run("replace with no aggregates clears them", func(t *testing.T) {
		summary := &schema.StationSummary{
			StationID:  1,
			ComputedAt: time.Now().UTC(),
		}

		err := store.ReplaceStationResults(ctx, summary, nil)
		require.NoError(t, err)

		rows, err := store.GetStationAggregates(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("results are scoped per station", func(t *testing.T) {
		summary, err := store.GetStationSummary(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, summary)
	})
}

// =============================================================================
// Test: CreateDeadLetterTask / ListDeadLetterTasks
// =============================================================================

func testDeadLetterTasks(t *testing.T, store Store) {
	ctx := context.Background()

	first := &schema.DeadLetterTask{
		TaskID:    "01J8ZD3V9K2XQ4W5T6Y7M8N9P0",
		StationID: 1,
		Task:      datatypes.JSON(`{"station_id":1,"ballot_type":"valid_list","list_id":1}`),
		Reason:    "list not found",
		Attempts:  3,
	}

	t.Run("parks a failed task", func(t *testing.T) {
		err := store.CreateDeadLetterTask(ctx, first)
		require.NoError(t, err)

		tasks, err := store.ListDeadLetterTasks(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, first.TaskID, tasks[0].TaskID)
		assert.Equal(t, uint64(1), tasks[0].StationID)
		assert.Equal(t, "list not found", tasks[0].Reason)
		assert.Equal(t, uint64(3), tasks[0].Attempts)
		assert.JSONEq(t, string(first.Task), string(tasks[0].Task))
	})

	t.Run("parking the same task twice is a no-op", func(t *testing.T) {
		err := store.CreateDeadLetterTask(ctx, &schema.DeadLetterTask{
			TaskID:    first.TaskID,
			StationID: 1,
			Reason:    "retries exhausted",
			Attempts:  5,
		})
		require.NoError(t, err)

		tasks, err := store.ListDeadLetterTasks(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "list not found", tasks[0].Reason)
	})

	t.Run("lists newest first with limit and offset", func(t *testing.T) {
		second := &schema.DeadLetterTask{
			TaskID:    "01J8ZD4W0L3YR5X6U7Z8N9P0Q1",
			StationID: 2,
			Task:      datatypes.JSON(`{"station_id":2}`),
			Reason:    "retries exhausted",
			Attempts:  5,
		}
		require.NoError(t, store.CreateDeadLetterTask(ctx, second))

		tasks, err := store.ListDeadLetterTasks(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, second.TaskID, tasks[0].TaskID)
		assert.Equal(t, first.TaskID, tasks[1].TaskID)

		page, err := store.ListDeadLetterTasks(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, first.TaskID, page[0].TaskID)
	})

	t.Run("non-positive limit falls back to the default", func(t *testing.T) {
		tasks, err := store.ListDeadLetterTasks(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})
}

// =============================================================================
// Test Suite Runner
// =============================================================================

// RunStoreTests runs the full store behavior suite against a Store built by
// initDB. Each top-level test gets a fresh store.
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"GetStation", testGetStation},
		{"IsActiveCounter", testIsActiveCounter},
		{"CreateBallotEntry", testCreateBallotEntry},
		{"ListBallotEntries", testListBallotEntries},
		{"GetEntriesForAggregation", testGetEntriesForAggregation},
		{"CreateBallotEntryLog", testCreateBallotEntryLog},
		{"ReplaceStationResults", testReplaceStationResults},
		{"DeadLetterTasks", testDeadLetterTasks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
