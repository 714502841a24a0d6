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

const timeEntryColumns = `id, project_id, description, duration_hours, category, tags, external_sync_id, entry_date, created_at, updated_at`

// CreateTimeEntry inserts a new time entry. The duration must already
// be validated as positive; the schema CHECK is the backstop.
func (s *SQLiteStore) CreateTimeEntry(ctx context.Context, entry model.TimeEntry) (*model.TimeEntry, error) {
	if strings.TrimSpace(entry.Description) == "" {
		return nil, fmt.Errorf("time entry description must not be empty")
	}
	if entry.DurationHours <= 0 {
		return nil, &model.InvalidDurationError{Input: fmt.Sprintf("%g", entry.DurationHours)}
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.EntryDate.IsZero() {
		entry.EntryDate = now
	}
	entry.EntryDate = DayStart(entry.EntryDate)

	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshaling time entry tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO time_entries (`+timeEntryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ProjectID, entry.Description, entry.DurationHours,
		entry.Category, string(tagsJSON), entry.ExternalSyncID,
		entry.EntryDate, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "creating time entry", Err: err}
	}
	return &entry, nil
}

// UpdateTimeEntry updates description, duration, category, and project.
func (s *SQLiteStore) UpdateTimeEntry(ctx context.Context, entry model.TimeEntry) error {
	if entry.DurationHours <= 0 {
		return &model.InvalidDurationError{Input: fmt.Sprintf("%g", entry.DurationHours)}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE time_entries SET
			project_id = ?, description = ?, duration_hours = ?,
			category = ?, updated_at = ?
		WHERE id = ?`,
		entry.ProjectID, entry.Description, entry.DurationHours,
		entry.Category, time.Now().UTC(),
		entry.ID,
	)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("updating time entry %s", entry.ID), Err: err}
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("time entry %s: %w", entry.ID, ErrNotFound)
	}
	return nil
}

// DeleteTimeEntry removes a time entry by ID.
func (s *SQLiteStore) DeleteTimeEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("deleting time entry %s", id), Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("time entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetTimeEntries retrieves time entries matching the filter, ordered
// by entry date.
func (s *SQLiteStore) GetTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error) {
	conditions, args := timeEntryConditions(filter)

	query := "SELECT " + timeEntryColumns + " FROM time_entries"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY entry_date ASC, created_at ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &PersistenceError{Op: "querying time entries", Err: err}
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetCategoryTotals aggregates durations by project and category for
// the entries matching the filter.
func (s *SQLiteStore) GetCategoryTotals(ctx context.Context, filter TimeEntryFilter) ([]CategoryTotal, error) {
	conditions, args := timeEntryConditions(filter)

	query := `
		SELECT
			COALESCE(p.name, '') AS project_name,
			te.category AS category,
			SUM(te.duration_hours) AS hours
		FROM time_entries te
		LEFT JOIN projects p ON p.id = te.project_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY project_name, category ORDER BY project_name, category"

	var totals []CategoryTotal
	if err := s.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return nil, &PersistenceError{Op: "aggregating time totals", Err: err}
	}
	return totals, nil
}

// MarkTimeEntrySynced records the external sync id after a successful
// push to the time-tracking service.
func (s *SQLiteStore) MarkTimeEntrySynced(ctx context.Context, id, externalSyncID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE time_entries SET external_sync_id = ?, updated_at = ?
		WHERE id = ?`,
		externalSyncID, time.Now().UTC(), id,
	)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("marking time entry %s synced", id), Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("time entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// timeEntryConditions builds the shared WHERE clause for list and
// aggregation queries. The referenced column names exist only on
// time_entries, so they stay unqualified even under the totals join.
func timeEntryConditions(filter TimeEntryFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if !filter.From.IsZero() {
		conditions = append(conditions, "entry_date >= ?")
		args = append(args, DayStart(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "entry_date < ?")
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
	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Unsynced {
		conditions = append(conditions, "(external_sync_id IS NULL OR external_sync_id = '')")
	}
	return conditions, args
}

// scanTimeEntry scans a time entry row from a sqlx.Rows result set.
func scanTimeEntry(rows *sqlx.Rows) (model.TimeEntry, error) {
	var (
		entry    model.TimeEntry
		tagsJSON string
	)

	err := rows.Scan(
		&entry.ID, &entry.ProjectID, &entry.Description, &entry.DurationHours,
		&entry.Category, &tagsJSON, &entry.ExternalSyncID,
		&entry.EntryDate, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("scanning time entry row: %w", err)
	}

	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &entry.Tags); err != nil {
			return model.TimeEntry{}, fmt.Errorf("unmarshaling time entry tags: %w", err)
		}
	}
	return entry, nil
}
