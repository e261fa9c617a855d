package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotAuthorized is returned when the caller is not an active counter assigned to the station
	ErrNotAuthorized = errors.New("not an authorized counter for this station")

	// ErrStationNotFound is returned when the referenced polling station does not exist
	ErrStationNotFound = errors.New("polling station not found")

	// ErrListNotFound is returned when the referenced list no longer exists
	ErrListNotFound = errors.New("list not found")

	// ErrCandidateNotFound is returned when the referenced candidate no longer exists
	ErrCandidateNotFound = errors.New("candidate not found")
)

// ValidationError carries per-field validation messages for a rejected payload
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a validation message for a field
func (v *ValidationError) Add(field, message string) {
	v.Fields[field] = message
}

// Empty returns true if no field errors were recorded
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsPermanent reports whether err is a persistence failure that retrying cannot fix.
// Permanent failures are routed to the dead-letter table instead of being redelivered.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrStationNotFound) ||
		errors.Is(err, ErrListNotFound) ||
		errors.Is(err, ErrCandidateNotFound)
}
