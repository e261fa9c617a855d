package schema

import "time"

// List represents the lists table - an electoral list candidates run on.
// Managed by election setup; the pipeline reads it for reference checks and joins.
type List struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the display name of the list
	Name string `gorm:"column:name;not null;type:text"`
	// Position is the printed ballot order of the list
	Position int `gorm:"column:position;not null;default:0"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the List model
func (List) TableName() string {
	return "lists"
}

// Candidate represents the candidates table - one candidate on a list.
type Candidate struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ListID references the list this candidate runs on
	ListID uint64 `gorm:"column:list_id;not null;index:idx_candidates_list_id"`
	// Name is the display name of the candidate
	Name string `gorm:"column:name;not null;type:text"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	List List `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Candidate model
func (Candidate) TableName() string {
	return "candidates"
}

// User is the minimal projection of the users table the pipeline needs for
// display joins. Authentication and user CRUD live outside this service.
type User struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the display name of the user
	Name string `gorm:"column:name;not null;type:text"`
	// Active indicates the account is enabled
	Active bool `gorm:"column:active;not null;default:true"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
