package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mhagen/workmain/internal/model"
)

const reportColumns = `id, type, report_date, client_id, content, provider, generation_ms, word_count, validation_passed, delivered_email_at, delivered_chat_at, email_draft_id, chat_message_id, created_at`

// CreateReport inserts a new report row. Reports are insert-only:
// regenerating for the same type and date adds a row rather than
// mutating history. Two concurrent runs for the same type+date may
// therefore both insert; that is the documented single-user tradeoff,
// not something this layer deduplicates.
func (s *SQLiteStore) CreateReport(ctx context.Context, report model.Report) (*model.Report, error) {
	if strings.TrimSpace(report.Content) == "" {
		return nil, fmt.Errorf("report content must not be empty")
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.CreatedAt = time.Now().UTC()
	report.ReportDate = DayStart(report.ReportDate)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, string(report.Type), report.ReportDate, report.ClientID,
		report.Content, report.Provider, report.GenerationMS, report.WordCount,
		boolToInt(report.ValidationPassed),
		report.DeliveredEmailAt, report.DeliveredChatAt,
		report.EmailDraftID, report.ChatMessageID,
		report.CreatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "creating report", Err: err}
	}
	return &report, nil
}

// GetReports retrieves all reports of the given type for the given
// date, newest first. More than one row means the report was
// regenerated (or generated concurrently).
func (s *SQLiteStore) GetReports(ctx context.Context, reportType model.ReportType, date time.Time) ([]model.Report, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE type = ? AND report_date = ? ORDER BY created_at DESC",
		string(reportType), DayStart(date),
	)
	if err != nil {
		return nil, &PersistenceError{Op: "querying reports", Err: err}
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// StampReportDelivery records a successful delivery on an existing
// report row. Channel is "email" or "chat".
func (s *SQLiteStore) StampReportDelivery(ctx context.Context, id string, channel string, deliveryID string, at time.Time) error {
	var query string
	switch channel {
	case "email":
		query = "UPDATE reports SET delivered_email_at = ?, email_draft_id = ? WHERE id = ?"
	case "chat":
		query = "UPDATE reports SET delivered_chat_at = ?, chat_message_id = ? WHERE id = ?"
	default:
		return fmt.Errorf("unknown delivery channel %q", channel)
	}

	result, err := s.db.ExecContext(ctx, query, at.UTC(), deliveryID, id)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("stamping %s delivery for report %s", channel, id), Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanReport scans a report row from a sqlx.Rows result set.
func scanReport(rows *sqlx.Rows) (model.Report, error) {
	var (
		r             model.Report
		reportType    string
		validationInt int
	)

	err := rows.Scan(
		&r.ID, &reportType, &r.ReportDate, &r.ClientID,
		&r.Content, &r.Provider, &r.GenerationMS, &r.WordCount,
		&validationInt,
		&r.DeliveredEmailAt, &r.DeliveredChatAt,
		&r.EmailDraftID, &r.ChatMessageID,
		&r.CreatedAt,
	)
	if err != nil {
		return model.Report{}, fmt.Errorf("scanning report row: %w", err)
	}

	r.Type = model.ReportType(reportType)
	r.ValidationPassed = validationInt != 0
	return r, nil
}
