package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mhagen/workmain/internal/model"
)

// noteColumns is the stable column order used by note queries and scans.
const noteColumns = `id, project_id, meeting_id, content, tags, source, note_date, created_at, updated_at`

// CreateNote inserts a new note. Generates a UUID if ID is empty and
// defaults the note date to today. Returns the stored note.
func (s *SQLiteStore) CreateNote(ctx context.Context, note model.Note) (*model.Note, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, fmt.Errorf("note content must not be empty")
	}
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.NoteDate.IsZero() {
		note.NoteDate = now
	}
	note.NoteDate = DayStart(note.NoteDate)
	if note.Source == "" {
		note.Source = model.NoteSourceAdHoc
	}

	tagsJSON, err := json.Marshal(note.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshaling note tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.ProjectID, note.MeetingID, note.Content,
		string(tagsJSON), string(note.Source), note.NoteDate,
		note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "creating note", Err: err}
	}
	return &note, nil
}

// UpdateNote updates a note's content, tags, and associations.
func (s *SQLiteStore) UpdateNote(ctx context.Context, note model.Note) error {
	if strings.TrimSpace(note.Content) == "" {
		return fmt.Errorf("note content must not be empty")
	}

	tagsJSON, err := json.Marshal(note.Tags)
	if err != nil {
		return fmt.Errorf("marshaling note tags: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE notes SET
			project_id = ?, meeting_id = ?, content = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		note.ProjectID, note.MeetingID, note.Content,
		string(tagsJSON), time.Now().UTC(),
		note.ID,
	)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("updating note %s", note.ID), Err: err}
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("note %s: %w", note.ID, ErrNotFound)
	}
	return nil
}

// GetNoteByID retrieves a single note by ID.
func (s *SQLiteStore) GetNoteByID(ctx context.Context, id string) (*model.Note, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("getting note %s", id), Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	note, err := scanNote(rows)
	if err != nil {
		return nil, err
	}
	return &note, rows.Err()
}

// GetNotes retrieves notes matching the filter, ordered by note date
// then creation time.
func (s *SQLiteStore) GetNotes(ctx context.Context, filter NoteFilter) ([]model.Note, error) {
	var conditions []string
	var args []interface{}

	if !filter.From.IsZero() {
		conditions = append(conditions, "note_date >= ?")
		args = append(args, DayStart(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "note_date < ?")
		args = append(args, DayStart(filter.To))
	}
	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.ClientID != nil {
		conditions = append(conditions, "project_id IN (SELECT id FROM projects WHERE client_id = ?)")
		args = append(args, *filter.ClientID)
	}
	if filter.MeetingID != nil {
		conditions = append(conditions, "meeting_id = ?")
		args = append(args, *filter.MeetingID)
	}
	if filter.Tag != nil {
		// Tags are stored as a JSON array of canonical names.
		conditions = append(conditions, "tags LIKE ?")
		args = append(args, `%"`+*filter.Tag+`"%`)
	}

	query := "SELECT " + noteColumns + " FROM notes"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY note_date ASC, created_at ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &PersistenceError{Op: "querying notes", Err: err}
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// scanNote scans a note row from a sqlx.Rows result set.
func scanNote(rows *sqlx.Rows) (model.Note, error) {
	var (
		note     model.Note
		source   string
		tagsJSON string
	)

	err := rows.Scan(
		&note.ID, &note.ProjectID, &note.MeetingID, &note.Content,
		&tagsJSON, &source, &note.NoteDate,
		&note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return model.Note{}, fmt.Errorf("scanning note row: %w", err)
	}

	note.Source = model.NoteSource(source)
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &note.Tags); err != nil {
			return model.Note{}, fmt.Errorf("unmarshaling note tags: %w", err)
		}
	}
	return note, nil
}

// DayStart truncates t to midnight UTC. Date-scoped rows are stored
// and queried at day granularity.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday 00:00 UTC that begins the calendar week
// containing t.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
