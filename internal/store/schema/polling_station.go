package schema

import "time"

// PollingStation represents the polling_stations table - one physical vote-counting unit.
// Rows are created by election setup and never deleted during an election.
type PollingStation struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the display name of the station
	Name string `gorm:"column:name;not null;type:text"`
	// RegisteredVoters is the number of voters registered at this station
	RegisteredVoters int64 `gorm:"column:registered_voters;not null;default:0"`
	// WhitePapers is the denormalized blank-paper count reported at close
	WhitePapers int64 `gorm:"column:white_papers;not null;default:0"`
	// CancelledPapers is the denormalized spoiled-paper count reported at close
	CancelledPapers int64 `gorm:"column:cancelled_papers;not null;default:0"`
	// Open indicates the station is accepting ballot entries
	Open bool `gorm:"column:open;not null;default:false"`
	// Closed indicates voting has ended at this station
	Closed bool `gorm:"column:closed;not null;default:false"`
	// Done indicates all papers have been entered
	Done bool `gorm:"column:done;not null;default:false"`
	// Checked indicates the entered count has been reviewed
	Checked bool `gorm:"column:checked;not null;default:false"`
	// Final indicates the station result is certified
	Final bool `gorm:"column:final;not null;default:false"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PollingStation model
func (PollingStation) TableName() string {
	return "polling_stations"
}
