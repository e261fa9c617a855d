package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// CreateBallotEntryInput carries everything needed to persist one ballot entry
type CreateBallotEntryInput struct {
	DedupKey    string
	StationID   uint64
	BallotType  domain.BallotType
	ListID      *uint64
	CandidateID *uint64
	// CancellationReason is set iff BallotType is cancelled
	CancellationReason *string
	Metadata           datatypes.JSON
	EnteredByID        uint64
	SubmitterIP        string
	EnteredAt          time.Time
}

// BallotEntryRow is one audit-listing row: a ballot entry joined with the
// display fields of its list, candidate and submitter.
type BallotEntryRow struct {
	EntryUID           string             `json:"entry_uid"`
	StationID          uint64             `json:"station_id"`
	BallotType         domain.BallotType  `json:"ballot_type"`
	ListID             *uint64            `json:"list_id,omitempty"`
	ListName           *string            `json:"list_name,omitempty"`
	CandidateID        *uint64            `json:"candidate_id,omitempty"`
	CandidateName      *string            `json:"candidate_name,omitempty"`
	CancellationReason *string            `json:"cancellation_reason,omitempty"`
	EnteredByID        uint64             `json:"entered_by_id"`
	EnteredByName      string             `json:"entered_by_name"`
	EnteredAt          time.Time          `json:"entered_at"`
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetStation retrieves a polling station by ID, nil when not found
	GetStation(ctx context.Context, stationID uint64) (*schema.PollingStation, error)

	// IsActiveCounter reports whether the user holds an active counter
	// assignment for the station and the account itself is active
	IsActiveCounter(ctx context.Context, stationID, userID uint64) (bool, error)

	// CreateBallotEntry persists one ballot entry. It validates the station,
	// list and candidate references inside the transaction and maps missing
	// references to domain sentinel errors. A dedup-key conflict inserts
	// nothing and returns created=false with no error.
	CreateBallotEntry(ctx context.Context, input CreateBallotEntryInput) (created bool, err error)

	// ListBallotEntries returns one page of a station's entries in reverse
	// chronological order, joined with display fields, plus the total count
	ListBallotEntries(ctx context.Context, stationID uint64, page, perPage int) ([]*BallotEntryRow, int64, error)

	// GetEntriesForAggregation returns all ballot entries for a station,
	// the source rows of a full tally rebuild
	GetEntriesForAggregation(ctx context.Context, stationID uint64) ([]*schema.BallotEntry, error)

	// CreateBallotEntryLog appends one audit event
	CreateBallotEntryLog(ctx context.Context, log *schema.BallotEntryLog) error

	// ReplaceStationResults atomically overwrites the station's summary row
	// and its full aggregate set with the freshly rebuilt values
	ReplaceStationResults(ctx context.Context, summary *schema.StationSummary, aggregates []*schema.StationAggregate) error

	// GetStationSummary retrieves the station's summary row, nil when the
	// station has never been aggregated
	GetStationSummary(ctx context.Context, stationID uint64) (*schema.StationSummary, error)

	// GetStationAggregates retrieves the station's aggregates ordered by
	// vote count descending with a deterministic secondary key
	GetStationAggregates(ctx context.Context, stationID uint64) ([]*schema.StationAggregate, error)

	// CreateDeadLetterTask parks a permanently failed task for inspection
	CreateDeadLetterTask(ctx context.Context, task *schema.DeadLetterTask) error

	// ListDeadLetterTasks returns parked tasks, newest first
	ListDeadLetterTasks(ctx context.Context, limit, offset int) ([]*schema.DeadLetterTask, error)
}
