package schema

import (
	"time"

	"gorm.io/datatypes"
)

// BallotEntryLogEvent identifies the kind of audit event
type BallotEntryLogEvent string

const (
	// BallotEntryLogEventSuspiciousActivity marks a rate-limit violation at intake
	BallotEntryLogEventSuspiciousActivity BallotEntryLogEvent = "suspicious_activity"
	// BallotEntryLogEventEntryAccepted marks an entry admitted into the queue
	BallotEntryLogEventEntryAccepted BallotEntryLogEvent = "entry_accepted"
)

// BallotEntryLog represents the ballot_entry_logs table - an append-only
// security/audit event stream. The pipeline only ever writes to it.
type BallotEntryLog struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// StationID references the station the event relates to
	StationID uint64 `gorm:"column:station_id;not null;index:idx_ballot_entry_logs_station_id"`
	// UserID references the user the event relates to
	UserID uint64 `gorm:"column:user_id;not null"`
	// EventType identifies the kind of event
	EventType BallotEntryLogEvent `gorm:"column:event_type;not null;type:text"`
	// Payload holds event-specific context as JSON
	Payload datatypes.JSON `gorm:"column:payload;type:jsonb"`
	// IP is the client address observed when the event was recorded
	IP string `gorm:"column:ip;type:text"`
	// CreatedAt is the timestamp when this event was recorded
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the BallotEntryLog model
func (BallotEntryLog) TableName() string {
	return "ballot_entry_logs"
}
