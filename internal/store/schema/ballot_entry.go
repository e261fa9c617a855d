package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/openelect/ballot-pipeline/internal/domain"
)

// BallotEntry represents the ballot_entries table - one recorded paper.
// Rows are immutable once created; corrections are new entries, not edits.
type BallotEntry struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// EntryUID is the externally visible identifier for this entry
	EntryUID string `gorm:"column:entry_uid;not null;type:uuid;uniqueIndex:idx_ballot_entries_entry_uid"`
	// DedupKey is the deterministic idempotency key of the originating task.
	// The unique index is what makes duplicate queue deliveries a no-op.
	DedupKey string `gorm:"column:dedup_key;not null;type:text;uniqueIndex:idx_ballot_entries_dedup_key"`
	// StationID references the polling station this paper belongs to
	StationID uint64 `gorm:"column:station_id;not null;index:idx_ballot_entries_station_id"`
	// BallotType classifies the paper (valid_list, valid_preferential, white, cancelled)
	BallotType domain.BallotType `gorm:"column:ballot_type;not null;type:text"`
	// ListID references the voted list (set iff type is valid_list or valid_preferential)
	ListID *uint64 `gorm:"column:list_id"`
	// CandidateID references the voted candidate (set iff type is valid_preferential)
	CandidateID *uint64 `gorm:"column:candidate_id"`
	// CancellationReason records why the paper was spoiled (set iff type is cancelled)
	CancellationReason *string `gorm:"column:cancellation_reason;type:text"`
	// Metadata holds free-form context captured at entry time
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// EnteredByID references the counter who submitted this entry
	EnteredByID uint64 `gorm:"column:entered_by_id;not null"`
	// SubmitterIP is the client address the submission came from
	SubmitterIP string `gorm:"column:submitter_ip;type:text"`
	// EnteredAt is the timestamp the submission was accepted at intake
	EnteredAt time.Time `gorm:"column:entered_at;not null;type:timestamptz;index:idx_ballot_entries_entered_at"`
	// CreatedAt is the timestamp when this record was persisted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Station PollingStation `gorm:"foreignKey:StationID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the BallotEntry model
func (BallotEntry) TableName() string {
	return "ballot_entries"
}
