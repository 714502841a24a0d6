package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvalidDurationError indicates a time entry duration that is not a
// positive number of hours.
type InvalidDurationError struct {
	Input string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %q: must be a positive number of hours (e.g. 2h, 90m, 1.5)", e.Input)
}

// TimeEntry is a single tracked block of work time.
type TimeEntry struct {
	ID          string  `json:"id" db:"id"`
	ProjectID   *string `json:"project_id,omitempty" db:"project_id"`
	Description string  `json:"description" db:"description"`

	// DurationHours is always > 0; enforced both here and by a CHECK
	// constraint in the schema.
	DurationHours float64 `json:"duration_hours" db:"duration_hours"`

	Category string   `json:"category" db:"category"`
	Tags     []string `json:"tags" db:"-"`

	// ExternalSyncID is the Clockify entry id once the entry has been
	// pushed. Nil means not yet synced; unique when present.
	ExternalSyncID *string `json:"external_sync_id,omitempty" db:"external_sync_id"`

	EntryDate time.Time `json:"entry_date" db:"entry_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Synced reports whether the entry has been pushed to the external
// time-tracking service.
func (e *TimeEntry) Synced() bool {
	return e.ExternalSyncID != nil && *e.ExternalSyncID != ""
}

// ParseDuration converts user input into decimal hours. Accepted forms:
// "2h", "1.5h", "90m", "45min", or a bare decimal meaning hours.
// Anything non-positive or unparseable returns InvalidDurationError.
func ParseDuration(input string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, &InvalidDurationError{Input: input}
	}

	var (
		value string
		scale float64 = 1
	)
	switch {
	case strings.HasSuffix(s, "min"):
		value, scale = strings.TrimSuffix(s, "min"), 1.0/60
	case strings.HasSuffix(s, "m"):
		value, scale = strings.TrimSuffix(s, "m"), 1.0/60
	case strings.HasSuffix(s, "h"):
		value = strings.TrimSuffix(s, "h")
	default:
		value = s
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &InvalidDurationError{Input: input}
	}
	hours *= scale
	if hours <= 0 {
		return 0, &InvalidDurationError{Input: input}
	}
	return hours, nil
}

// FormatHours renders decimal hours the way the CLI displays them,
// trimming trailing zeros ("2h", "1.5h", "0.25h").
func FormatHours(hours float64) string {
	s := strconv.FormatFloat(hours, 'f', -1, 64)
	return s + "h"
}
