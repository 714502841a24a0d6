package model

import "time"

// Meeting mirrors an external calendar event. Rows are owned by the
// calendar ingestion adapter; note and report code only reads them.
type Meeting struct {
	ID         string  `json:"id" db:"id"`
	ExternalID string  `json:"external_id" db:"external_id"`
	SeriesID   *string `json:"series_id,omitempty" db:"series_id"`
	Title      string  `json:"title" db:"title"`

	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	// Attendees holds display names or addresses, stored as JSON.
	Attendees []string `json:"attendees" db:"-"`

	NotesCaptured bool `json:"notes_captured" db:"notes_captured"`
	ReminderSent  bool `json:"reminder_sent" db:"reminder_sent"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Recurring reports whether the meeting belongs to a recurring series.
func (m *Meeting) Recurring() bool {
	return m.SeriesID != nil && *m.SeriesID != ""
}
