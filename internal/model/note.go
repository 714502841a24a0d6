package model

import "time"

// NoteSource identifies how a note was captured.
type NoteSource string

const (
	NoteSourceMeeting NoteSource = "meeting"
	NoteSourceTask    NoteSource = "task"
	NoteSourceAdHoc   NoteSource = "adhoc"
)

// Note is a free-text work note with routing tags.
type Note struct {
	ID        string     `json:"id" db:"id"`
	ProjectID *string    `json:"project_id,omitempty" db:"project_id"`
	MeetingID *string    `json:"meeting_id,omitempty" db:"meeting_id"`
	Content   string     `json:"content" db:"content"`

	// Tags holds canonical tag names from the closed vocabulary
	// (see internal/tag). A note persisted with no tags is treated
	// as internal-only.
	Tags []string `json:"tags" db:"-"`

	Source    NoteSource `json:"source" db:"source"`
	NoteDate  time.Time  `json:"note_date" db:"note_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
