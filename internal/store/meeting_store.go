package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mhagen/workmain/internal/model"
)

const meetingColumns = `id, external_id, series_id, title, start_time, end_time, attendees, notes_captured, reminder_sent, created_at, updated_at`

// UpsertMeetings inserts or replaces a batch of meetings mirrored from
// the calendar. Replacement is keyed on the external calendar id so
// repeated ingestion runs stay idempotent.
func (s *SQLiteStore) UpsertMeetings(ctx context.Context, meetings []model.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "beginning meeting upsert", Err: err}
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			series_id = excluded.series_id,
			title = excluded.title,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			attendees = excluded.attendees,
			updated_at = excluded.updated_at`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return &PersistenceError{Op: "preparing meeting upsert", Err: err}
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, m := range meetings {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		attendeesJSON, err := json.Marshal(m.Attendees)
		if err != nil {
			return fmt.Errorf("marshaling attendees for meeting %s: %w", m.ExternalID, err)
		}

		_, err = stmt.ExecContext(ctx,
			m.ID, m.ExternalID, m.SeriesID, m.Title,
			m.StartTime.UTC(), m.EndTime.UTC(), string(attendeesJSON),
			boolToInt(m.NotesCaptured), boolToInt(m.ReminderSent),
			now, now,
		)
		if err != nil {
			return &PersistenceError{Op: fmt.Sprintf("upserting meeting %s", m.ExternalID), Err: err}
		}
	}

	return tx.Commit()
}

// GetMeetingByID retrieves a single meeting by ID.
func (s *SQLiteStore) GetMeetingByID(ctx context.Context, id string) (*model.Meeting, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+meetingColumns+" FROM meetings WHERE id = ?", id)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("getting meeting %s", id), Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	m, err := scanMeeting(rows)
	if err != nil {
		return nil, err
	}
	return &m, rows.Err()
}

// GetRecentMeetings retrieves the most recently started meetings.
func (s *SQLiteStore) GetRecentMeetings(ctx context.Context, limit int) ([]model.Meeting, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+meetingColumns+" FROM meetings ORDER BY start_time DESC LIMIT ?", limit)
	if err != nil {
		return nil, &PersistenceError{Op: "querying recent meetings", Err: err}
	}
	defer rows.Close()

	return collectMeetings(rows)
}

// SearchMeetingsByTitle finds meetings whose title contains the term,
// most recent first.
func (s *SQLiteStore) SearchMeetingsByTitle(ctx context.Context, term string, limit int) ([]model.Meeting, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+meetingColumns+" FROM meetings WHERE title LIKE ? ORDER BY start_time DESC LIMIT ?",
		"%"+term+"%", limit)
	if err != nil {
		return nil, &PersistenceError{Op: "searching meetings", Err: err}
	}
	defer rows.Close()

	return collectMeetings(rows)
}

// MarkMeetingNotesCaptured flags a meeting as having notes attached.
func (s *SQLiteStore) MarkMeetingNotesCaptured(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE meetings SET notes_captured = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("marking meeting %s captured", id), Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	return nil
}

func collectMeetings(rows *sqlx.Rows) ([]model.Meeting, error) {
	var meetings []model.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// scanMeeting scans a meeting row from a sqlx.Rows result set.
func scanMeeting(rows *sqlx.Rows) (model.Meeting, error) {
	var (
		m                model.Meeting
		attendeesJSON    string
		notesCapturedInt int
		reminderSentInt  int
	)

	err := rows.Scan(
		&m.ID, &m.ExternalID, &m.SeriesID, &m.Title,
		&m.StartTime, &m.EndTime, &attendeesJSON,
		&notesCapturedInt, &reminderSentInt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("scanning meeting row: %w", err)
	}

	m.NotesCaptured = notesCapturedInt != 0
	m.ReminderSent = reminderSentInt != 0
	if attendeesJSON != "" {
		if err := json.Unmarshal([]byte(attendeesJSON), &m.Attendees); err != nil {
			return model.Meeting{}, fmt.Errorf("unmarshaling attendees: %w", err)
		}
	}
	return m, nil
}
