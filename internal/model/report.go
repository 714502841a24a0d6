package model

import "time"

// ReportType identifies the kind and audience of a generated report.
type ReportType string

const (
	ReportDailyInternal  ReportType = "daily_internal"
	ReportDailyClient    ReportType = "daily_client"
	ReportWeeklyInternal ReportType = "weekly_internal"
	ReportWeeklyClient   ReportType = "weekly_client"
)

// Weekly reports whether the type covers a Monday-Sunday week rather
// than a single day.
func (t ReportType) Weekly() bool {
	return t == ReportWeeklyInternal || t == ReportWeeklyClient
}

// ClientFacing reports whether the report is addressed to an external
// client audience.
func (t ReportType) ClientFacing() bool {
	return t == ReportDailyClient || t == ReportWeeklyClient
}

// Report is one generated report. Rows are insert-only: regenerating a
// report for the same type and date produces a new row, never an update.
type Report struct {
	ID         string     `json:"id" db:"id"`
	Type       ReportType `json:"type" db:"type"`
	ReportDate time.Time  `json:"report_date" db:"report_date"`
	ClientID   *string    `json:"client_id,omitempty" db:"client_id"`
	Content    string     `json:"content" db:"content"`

	// Generation metadata.
	Provider     string `json:"provider" db:"provider"`
	GenerationMS int64  `json:"generation_ms" db:"generation_ms"`
	WordCount    int    `json:"word_count" db:"word_count"`

	ValidationPassed bool `json:"validation_passed" db:"validation_passed"`

	// Delivery stamps, set by the delivery adapters after the fact.
	// A report is complete without them.
	DeliveredEmailAt *time.Time `json:"delivered_email_at,omitempty" db:"delivered_email_at"`
	DeliveredChatAt  *time.Time `json:"delivered_chat_at,omitempty" db:"delivered_chat_at"`
	EmailDraftID     *string    `json:"email_draft_id,omitempty" db:"email_draft_id"`
	ChatMessageID    *string    `json:"chat_message_id,omitempty" db:"chat_message_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
