package aggregator

import (
	"context"
	"fmt"

	"github.com/openelect/ballot-pipeline/internal/cache"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/store"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// Reader is the cache-first read path for station results. A cache miss
// falls back to the authoritative tables and repopulates the cache; cache
// trouble is never surfaced to the caller.
//
//go:generate mockgen -source=reader.go -destination=../mocks/aggregator_reader.go -package=mocks -mock_names=Reader=MockReader
type Reader interface {
	// GetSummary returns the station's summary snapshot, nil when the
	// station has never been aggregated
	GetSummary(ctx context.Context, stationID uint64) (*domain.SummarySnapshot, error)

	// GetAggregates returns the station's aggregate snapshots, empty when
	// the station has no tallied votes
	GetAggregates(ctx context.Context, stationID uint64) ([]domain.AggregateSnapshot, error)
}

type reader struct {
	store store.Store
	cache cache.ResultsCache
}

// NewReader creates the station results reader
func NewReader(st store.Store, rc cache.ResultsCache) Reader {
	return &reader{store: st, cache: rc}
}

// GetSummary returns the station's summary, cache first
func (r *reader) GetSummary(ctx context.Context, stationID uint64) (*domain.SummarySnapshot, error) {
	if summary, ok := r.cache.GetSummary(ctx, stationID); ok {
		return summary, nil
	}

	row, err := r.store.GetStationSummary(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to read station summary: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	summary := summarySnapshot(row)
	r.cache.SetSummary(ctx, summary)
	return summary, nil
}

// GetAggregates returns the station's aggregates, cache first
func (r *reader) GetAggregates(ctx context.Context, stationID uint64) ([]domain.AggregateSnapshot, error) {
	if aggregates, ok := r.cache.GetAggregates(ctx, stationID); ok {
		return aggregates, nil
	}

	rows, err := r.store.GetStationAggregates(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to read station aggregates: %w", err)
	}

	aggregates := make([]domain.AggregateSnapshot, 0, len(rows))
	for _, row := range rows {
		aggregates = append(aggregates, domain.AggregateSnapshot{
			StationID:   row.StationID,
			ListID:      row.ListID,
			CandidateID: row.CandidateID,
			VoteCount:   row.VoteCount,
		})
	}

	r.cache.SetAggregates(ctx, stationID, aggregates)
	return aggregates, nil
}

// summarySnapshot maps a summary row onto its snapshot value
func summarySnapshot(row *schema.StationSummary) *domain.SummarySnapshot {
	return &domain.SummarySnapshot{
		StationID:              row.StationID,
		TotalEntries:           row.TotalEntries,
		ValidListVotes:         row.ValidListVotes,
		ValidPreferentialVotes: row.ValidPreferentialVotes,
		WhitePapers:            row.WhitePapers,
		CancelledPapers:        row.CancelledPapers,
		ComputedAt:             row.ComputedAt,
	}
}
