package schema

import "time"

// StationAggregate represents the station_aggregates table - one row per
// (station, list, candidate) combination with a vote count. CandidateID is
// null for list-only tallies. Owned by the aggregation engine.
type StationAggregate struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// StationID references the polling station
	StationID uint64 `gorm:"column:station_id;not null;uniqueIndex:idx_station_aggregates_station_list_candidate;index:idx_station_aggregates_station_id"`
	// ListID references the voted list
	ListID uint64 `gorm:"column:list_id;not null;uniqueIndex:idx_station_aggregates_station_list_candidate"`
	// CandidateID references the voted candidate, null for list-only tallies
	CandidateID *uint64 `gorm:"column:candidate_id;uniqueIndex:idx_station_aggregates_station_list_candidate"`
	// VoteCount is the number of entries matching this (list, candidate) pair
	VoteCount int64 `gorm:"column:vote_count;not null;default:0"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the StationAggregate model
func (StationAggregate) TableName() string {
	return "station_aggregates"
}
