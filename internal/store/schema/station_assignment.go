package schema

import "time"

// AssignmentRole identifies what an assigned user may do at a station
type AssignmentRole string

const (
	// AssignmentRoleCounter may submit ballot entries for the station
	AssignmentRoleCounter AssignmentRole = "counter"
	// AssignmentRoleObserver may only read station results
	AssignmentRoleObserver AssignmentRole = "observer"
)

// StationAssignment represents the station_assignments table - the relation
// authorizing a user to act at a polling station. Managed by external admin
// tooling; the pipeline only reads it.
type StationAssignment struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// StationID references the polling station
	StationID uint64 `gorm:"column:station_id;not null;uniqueIndex:idx_station_assignments_station_user"`
	// UserID references the assigned user
	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex:idx_station_assignments_station_user"`
	// Role is what the assignment allows
	Role AssignmentRole `gorm:"column:role;not null;type:text"`
	// Active indicates the assignment is currently in force
	Active bool `gorm:"column:active;not null;default:true"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the StationAssignment model
func (StationAssignment) TableName() string {
	return "station_assignments"
}
