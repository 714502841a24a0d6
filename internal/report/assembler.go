// Package report assembles daily and weekly reports: it collects notes
// and time entries for a window, renders a structured payload, hands it
// to an AI provider, validates the result, and persists a report row.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/provider"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/tag"
)

// State tracks a generation run through its lifecycle.
type State int

const (
	StateCollecting State = iota
	StateRendering
	StateAwaitingGeneration
	StateValidating
	StatePersisted
	StateFailed
)

// String returns the state name for status output.
func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateRendering:
		return "rendering"
	case StateAwaitingGeneration:
		return "awaiting-generation"
	case StateValidating:
		return "validating"
	case StatePersisted:
		return "persisted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Run is the record of one generation invocation. Terminal states are
// StatePersisted and StateFailed.
type Run struct {
	Type   model.ReportType
	Date   time.Time
	State  State
	Report *model.Report

	// Warning is set when structural validation failed but the report
	// was persisted anyway.
	Warning *ValidationWarning
}

// Assembler drives report generation runs against a store and a
// provider chain.
type Assembler struct {
	store     store.Store
	chain     *provider.Chain
	minLength int
}

// New creates an Assembler. minLength is the validation floor for
// generated text.
func New(s store.Store, chain *provider.Chain, minLength int) *Assembler {
	return &Assembler{store: s, chain: chain, minLength: minLength}
}

// Window computes the report window for a type and date: the single
// day for daily reports, the enclosing Monday-Sunday week for weekly
// ones. End is exclusive.
func Window(reportType model.ReportType, date time.Time) (start, end time.Time) {
	if reportType.Weekly() {
		start = store.WeekStart(date)
		return start, start.AddDate(0, 0, 7)
	}
	start = store.DayStart(date)
	return start, start.AddDate(0, 0, 1)
}

// Generate executes one full run: Collecting, Rendering,
// AwaitingGeneration, Validating, Persisted. Database errors during
// collection or persistence abort the run with no partial report;
// provider failures follow the chain's retry/fallback policy;
// validation failures persist with the flag lowered and a warning on
// the returned run.
//
// There is no cross-run locking: two concurrent runs for the same
// type+date both persist. Acceptable for a single-operator tool.
func (a *Assembler) Generate(ctx context.Context, reportType model.ReportType, date time.Time, client *model.Client) (*Run, error) {
	run := &Run{Type: reportType, Date: store.DayStart(date), State: StateCollecting}

	if reportType.ClientFacing() && client == nil {
		run.State = StateFailed
		return run, fmt.Errorf("client-facing report requires a client")
	}

	payload, err := a.collect(ctx, reportType, date, client)
	if err != nil {
		run.State = StateFailed
		return run, err
	}

	run.State = StateRendering
	var (
		content      string
		providerName string
		duration     time.Duration
	)

	if payload.Empty() {
		// Nothing to summarize: persist the explicit no-activity
		// rendering directly. No provider call, no structural
		// validation to fail.
		content = payload.Render()
		providerName = "none"
	} else {
		run.State = StateAwaitingGeneration
		result, err := a.chain.Generate(ctx, payload.Prompt())
		if err != nil {
			run.State = StateFailed
			return run, err
		}
		content = result.Text
		providerName = result.Provider
		duration = result.Duration

		run.State = StateValidating
		run.Warning = validate(content, a.minLength)
	}

	var clientID *string
	if client != nil {
		clientID = &client.ID
	}
	stored, err := a.store.CreateReport(ctx, model.Report{
		Type:             reportType,
		ReportDate:       run.Date,
		ClientID:         clientID,
		Content:          content,
		Provider:         providerName,
		GenerationMS:     duration.Milliseconds(),
		WordCount:        wordCount(content),
		ValidationPassed: run.Warning == nil,
	})
	if err != nil {
		run.State = StateFailed
		return run, err
	}

	run.Report = stored
	run.State = StatePersisted
	return run, nil
}

// collect gathers window notes, prior open items, and time totals.
func (a *Assembler) collect(ctx context.Context, reportType model.ReportType, date time.Time, client *model.Client) (*Payload, error) {
	start, end := Window(reportType, date)

	payload := &Payload{
		Type:        reportType,
		WindowStart: start,
		WindowEnd:   end,
	}

	var clientID *string
	if client != nil {
		clientID = &client.ID
		payload.ClientName = client.Name
	}

	noteFilter := store.NoteFilter{From: start, To: end}
	entryFilter := store.TimeEntryFilter{From: start, To: end}
	if reportType.ClientFacing() {
		noteFilter.ClientID = clientID
		entryFilter.ClientID = clientID
	}

	notes, err := a.store.GetNotes(ctx, noteFilter)
	if err != nil {
		return nil, fmt.Errorf("collecting notes: %w", err)
	}
	payload.partitionNotes(notes)

	openItems, err := a.collectOpenItems(ctx, reportType, start, clientID)
	if err != nil {
		return nil, err
	}
	payload.OpenItems = openItems

	totals, err := a.store.GetCategoryTotals(ctx, entryFilter)
	if err != nil {
		return nil, fmt.Errorf("collecting time totals: %w", err)
	}
	payload.Totals = totals

	if err := a.loadProjectNames(ctx, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// collectOpenItems gathers carry-forward notes created strictly before
// the window start. There is no resolution mechanism yet, so every
// matching note stays open and reappears in each subsequent report.
// Client-facing reports only carry the ones that are also tagged
// client-report.
func (a *Assembler) collectOpenItems(ctx context.Context, reportType model.ReportType, windowStart time.Time, clientID *string) ([]model.Note, error) {
	cf := tag.CarryForward
	filter := store.NoteFilter{To: windowStart, Tag: &cf}
	if reportType.ClientFacing() {
		filter.ClientID = clientID
	}

	notes, err := a.store.GetNotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("collecting open items: %w", err)
	}

	if !reportType.ClientFacing() {
		return notes, nil
	}
	var visible []model.Note
	for _, n := range notes {
		if c, err := tag.Classify(n.Tags); err == nil && c.IsClientVisible {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

// loadProjectNames resolves project ids to names for note rendering.
func (a *Assembler) loadProjectNames(ctx context.Context, payload *Payload) error {
	projects, err := a.store.GetProjects(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	payload.projectNames = make(map[string]string, len(projects))
	for _, p := range projects {
		payload.projectNames[p.ID] = p.Name
	}
	return nil
}
