package schema

import (
	"time"

	"gorm.io/datatypes"
)

// DeadLetterTask represents the dead_letter_tasks table - queue tasks that
// permanently failed processing, parked here for manual inspection. A lost
// ballot entry corrupts the count, so failed tasks must never silently disappear.
type DeadLetterTask struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TaskID is the queue task identifier
	TaskID string `gorm:"column:task_id;not null;type:text;uniqueIndex:idx_dead_letter_tasks_task_id"`
	// StationID references the station the task targeted
	StationID uint64 `gorm:"column:station_id;not null;index:idx_dead_letter_tasks_station_id"`
	// Task is the raw task payload as received from the queue
	Task datatypes.JSON `gorm:"column:task;type:jsonb"`
	// Reason describes why processing failed permanently
	Reason string `gorm:"column:reason;not null;type:text"`
	// Attempts is the number of deliveries before the task was parked
	Attempts uint64 `gorm:"column:attempts;not null;default:0"`
	// CreatedAt is the timestamp when the task was parked
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the DeadLetterTask model
func (DeadLetterTask) TableName() string {
	return "dead_letter_tasks"
}
