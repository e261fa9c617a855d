package schema

import "time"

// StationSummary represents the station_summaries table - one row per station
// with totals by ballot category. It is a materialized view owned by the
// aggregation engine and fully rebuildable from ballot_entries.
type StationSummary struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// StationID references the polling station
	StationID uint64 `gorm:"column:station_id;not null;uniqueIndex:idx_station_summaries_station_id"`
	// TotalEntries is the count of all ballot entries for the station
	TotalEntries int64 `gorm:"column:total_entries;not null;default:0"`
	// ValidListVotes is the count of valid_list entries
	ValidListVotes int64 `gorm:"column:valid_list_votes;not null;default:0"`
	// ValidPreferentialVotes is the count of valid_preferential entries
	ValidPreferentialVotes int64 `gorm:"column:valid_preferential_votes;not null;default:0"`
	// WhitePapers is the count of white entries
	WhitePapers int64 `gorm:"column:white_papers;not null;default:0"`
	// CancelledPapers is the count of cancelled entries
	CancelledPapers int64 `gorm:"column:cancelled_papers;not null;default:0"`
	// ComputedAt is the timestamp of the rebuild that produced this row
	ComputedAt time.Time `gorm:"column:computed_at;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the StationSummary model
func (StationSummary) TableName() string {
	return "station_summaries"
}
