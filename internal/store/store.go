package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhagen/workmain/internal/model"
)

// PersistenceError indicates a database read or write failure. Report
// generation aborts without a partial row when one occurs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err (or any error in its chain)
// is a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// NoteFilter controls filtering for note queries. Zero time values
// leave the corresponding bound open.
type NoteFilter struct {
	From      time.Time // inclusive
	To        time.Time // exclusive
	ProjectID *string
	ClientID  *string // via project -> client
	MeetingID *string
	Tag       *string // canonical tag name the note must carry
	Limit     int
}

// TimeEntryFilter controls filtering for time entry queries.
type TimeEntryFilter struct {
	From      time.Time // inclusive
	To        time.Time // exclusive
	ProjectID *string
	ClientID  *string
	Category  *string
	Unsynced  bool // only entries without an external sync id
	Limit     int
}

// CategoryTotal is the aggregated duration for one project/category pair.
type CategoryTotal struct {
	ProjectName string  `db:"project_name"`
	Category    string  `db:"category"`
	Hours       float64 `db:"hours"`
}

// Store defines the persistence interface for notes, time entries,
// reports, meetings, clients, projects, and system state.
type Store interface {
	// === Notes ===

	CreateNote(ctx context.Context, note model.Note) (*model.Note, error)
	UpdateNote(ctx context.Context, note model.Note) error
	GetNoteByID(ctx context.Context, id string) (*model.Note, error)
	GetNotes(ctx context.Context, filter NoteFilter) ([]model.Note, error)

	// === Time entries ===

	CreateTimeEntry(ctx context.Context, entry model.TimeEntry) (*model.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry model.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id string) error
	GetTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error)
	GetCategoryTotals(ctx context.Context, filter TimeEntryFilter) ([]CategoryTotal, error)
	MarkTimeEntrySynced(ctx context.Context, id, externalSyncID string) error

	// === Reports (insert-only) ===

	CreateReport(ctx context.Context, report model.Report) (*model.Report, error)
	GetReports(ctx context.Context, reportType model.ReportType, date time.Time) ([]model.Report, error)
	StampReportDelivery(ctx context.Context, id string, channel string, deliveryID string, at time.Time) error

	// === Meetings (owned by the calendar adapter) ===

	UpsertMeetings(ctx context.Context, meetings []model.Meeting) error
	GetMeetingByID(ctx context.Context, id string) (*model.Meeting, error)
	GetRecentMeetings(ctx context.Context, limit int) ([]model.Meeting, error)
	SearchMeetingsByTitle(ctx context.Context, term string, limit int) ([]model.Meeting, error)
	MarkMeetingNotesCaptured(ctx context.Context, id string) error

	// === Clients and projects ===

	CreateClient(ctx context.Context, client model.Client) (*model.Client, error)
	GetClientByName(ctx context.Context, name string) (*model.Client, error)
	GetClients(ctx context.Context) ([]model.Client, error)
	CreateProject(ctx context.Context, project model.Project) (*model.Project, error)
	GetProjectByName(ctx context.Context, name string) (*model.Project, error)
	GetProjects(ctx context.Context) ([]model.Project, error)

	// === System state ===

	GetState(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, key, value string) error
	ClearState(ctx context.Context, key string) error
}

// System state keys.
const (
	// StateActiveClient is the client name that client-scoped commands
	// default to when --client is not given.
	StateActiveClient = "active_client"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")
