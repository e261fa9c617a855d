package aggregator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/openelect/ballot-pipeline/internal/adapter"
	"github.com/openelect/ballot-pipeline/internal/cache"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/logger"
	"github.com/openelect/ballot-pipeline/internal/store"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// Engine rebuilds a station's tallies from its ballot entries.
// Recomputation is always a full rebuild from source rows: counting is
// commutative, so per-entry ordering is irrelevant and there are no
// lost-update races to reason about after partial failures.
//
//go:generate mockgen -source=engine.go -destination=../mocks/aggregator_engine.go -package=mocks -mock_names=Engine=MockEngine
type Engine interface {
	// Recompute rebuilds the station's summary and aggregates from its
	// ballot entries, persists them, and overwrites the cache entries
	Recompute(ctx context.Context, stationID uint64) error
}

type engine struct {
	store store.Store
	cache cache.ResultsCache
	clock adapter.Clock
	locks *stationLocks
}

// NewEngine creates the aggregation engine
func NewEngine(st store.Store, rc cache.ResultsCache, clock adapter.Clock) Engine {
	return &engine{
		store: st,
		cache: rc,
		clock: clock,
		locks: newStationLocks(),
	}
}

// Recompute rebuilds the station's tallies under the per-station lock.
// Two concurrent rebuilds of the same station must not interleave their
// storage and cache writes, or a newer cache entry could be overwritten
// with stale data.
func (e *engine) Recompute(ctx context.Context, stationID uint64) error {
	unlock := e.locks.lock(stationID)
	defer unlock()

	entries, err := e.store.GetEntriesForAggregation(ctx, stationID)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	summary, aggregates := BuildResults(stationID, entries, e.clock.Now().UTC())

	// Storage first, cache second: a reader that misses between the two
	// repopulates from the already-updated tables
	if err := e.store.ReplaceStationResults(ctx, summaryRow(summary), aggregateRows(aggregates)); err != nil {
		return fmt.Errorf("failed to replace station results: %w", err)
	}

	e.cache.SetSummary(ctx, summary)
	e.cache.SetAggregates(ctx, stationID, aggregates)

	logger.Debug("Recomputed station results",
		zap.Uint64("station_id", stationID),
		zap.Int64("total_entries", summary.TotalEntries),
		zap.Int("aggregates", len(aggregates)),
	)

	return nil
}

// aggregateKey identifies one (list, candidate) tally bucket
type aggregateKey struct {
	listID       uint64
	hasCandidate bool
	candidateID  uint64
}

// BuildResults computes the summary and aggregate set for a station from its
// entries. It is a pure function so tests can exercise the tally logic
// without storage.
//
// Aggregates are ordered by vote count descending; ties break on list id
// ascending, then list-only rows before candidate rows, then candidate id
// ascending, so repeated rebuilds of the same entries are bit-identical.
func BuildResults(stationID uint64, entries []*schema.BallotEntry, computedAt time.Time) (*domain.SummarySnapshot, []domain.AggregateSnapshot) {
	summary := &domain.SummarySnapshot{
		StationID:  stationID,
		ComputedAt: computedAt,
	}

	counts := make(map[aggregateKey]int64)

	for _, entry := range entries {
		summary.TotalEntries++

		switch entry.BallotType {
		case domain.BallotTypeValidList:
			summary.ValidListVotes++
		case domain.BallotTypeValidPreferential:
			summary.ValidPreferentialVotes++
		case domain.BallotTypeWhite:
			summary.WhitePapers++
		case domain.BallotTypeCancelled:
			summary.CancelledPapers++
		}

		// Only valid entries with an intact list reference tally
		if !entry.BallotType.CountsVotes() || entry.ListID == nil {
			continue
		}

		key := aggregateKey{listID: *entry.ListID}
		if entry.BallotType == domain.BallotTypeValidPreferential && entry.CandidateID != nil {
			key.hasCandidate = true
			key.candidateID = *entry.CandidateID
		}
		counts[key]++
	}

	aggregates := make([]domain.AggregateSnapshot, 0, len(counts))
	for key, count := range counts {
		agg := domain.AggregateSnapshot{
			StationID: stationID,
			ListID:    key.listID,
			VoteCount: count,
		}
		if key.hasCandidate {
			candidateID := key.candidateID
			agg.CandidateID = &candidateID
		}
		aggregates = append(aggregates, agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		a, b := aggregates[i], aggregates[j]
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		if a.ListID != b.ListID {
			return a.ListID < b.ListID
		}
		if (a.CandidateID == nil) != (b.CandidateID == nil) {
			return a.CandidateID == nil
		}
		if a.CandidateID == nil {
			return false
		}
		return *a.CandidateID < *b.CandidateID
	})

	return summary, aggregates
}

// summaryRow maps a summary snapshot onto its table row
func summaryRow(s *domain.SummarySnapshot) *schema.StationSummary {
	return &schema.StationSummary{
		StationID:              s.StationID,
		TotalEntries:           s.TotalEntries,
		ValidListVotes:         s.ValidListVotes,
		ValidPreferentialVotes: s.ValidPreferentialVotes,
		WhitePapers:            s.WhitePapers,
		CancelledPapers:        s.CancelledPapers,
		ComputedAt:             s.ComputedAt,
	}
}

// aggregateRows maps aggregate snapshots onto their table rows
func aggregateRows(aggregates []domain.AggregateSnapshot) []*schema.StationAggregate {
	rows := make([]*schema.StationAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, &schema.StationAggregate{
			StationID:   agg.StationID,
			ListID:      agg.ListID,
			CandidateID: agg.CandidateID,
			VoteCount:   agg.VoteCount,
		})
	}
	return rows
}
