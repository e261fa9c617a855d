package store

import "github.com/google/uuid"

// newEntryUID mints the externally visible identifier for a ballot entry
func newEntryUID() string {
	return uuid.NewString()
}
