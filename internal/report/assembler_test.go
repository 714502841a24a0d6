package report_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/provider"
	"github.com/mhagen/workmain/internal/report"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/tag"
	"github.com/mhagen/workmain/tests/testutil"
)

// echoGenerator records the prompt it receives and returns a canned
// report that passes structural validation.
type echoGenerator struct {
	lastPrompt string
	response   string
}

func (g *echoGenerator) Name() string { return "fake" }

func (g *echoGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.response != "" {
		return g.response, nil
	}
	return "## Summary\nA productive day with steady progress on all fronts.\n\n" +
		"## Time Totals\nTime was tracked against the listed categories.\n", nil
}

func newAssembler(t *testing.T, s store.Store, gen provider.Generator) *report.Assembler {
	t.Helper()
	chain := &provider.Chain{Primary: gen, PrimaryAttempts: 2, Timeout: time.Second}
	return report.New(s, chain, 40)
}

func TestWindow(t *testing.T) {
	wednesday := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)

	start, end := report.Window(model.ReportDailyInternal, wednesday)
	if !start.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) || !end.Equal(start.AddDate(0, 0, 1)) {
		t.Errorf("daily window = [%v, %v)", start, end)
	}

	start, end = report.Window(model.ReportWeeklyInternal, wednesday)
	if !start.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) || !end.Equal(start.AddDate(0, 0, 7)) {
		t.Errorf("weekly window = [%v, %v)", start, end)
	}
}

func TestGenerateEmptyWindow(t *testing.T) {
	s := testutil.NewTestStore(t)
	gen := &echoGenerator{}
	a := newAssembler(t, s, gen)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	run, err := a.Generate(context.Background(), model.ReportDailyInternal, day, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if run.State != report.StatePersisted {
		t.Errorf("state = %s, want persisted", run.State)
	}
	if gen.lastPrompt != "" {
		t.Error("provider should not be called for an empty window")
	}
	if !strings.Contains(run.Report.Content, "No activity recorded") {
		t.Errorf("content does not state no activity:\n%s", run.Report.Content)
	}
	if !run.Report.ValidationPassed {
		t.Error("empty-window report must keep validation_passed true")
	}
	if run.Report.Provider != "none" {
		t.Errorf("provider = %q, want none", run.Report.Provider)
	}
}

func TestGenerateTimeTotalsInPrompt(t *testing.T) {
	s := testutil.NewTestStore(t)
	gen := &echoGenerator{}
	a := newAssembler(t, s, gen)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := s.CreateTimeEntry(ctx, model.TimeEntry{
		Description:   "Bug fix",
		DurationHours: 2,
		Category:      "development",
		EntryDate:     day,
	}); err != nil {
		t.Fatalf("creating time entry: %v", err)
	}

	run, err := a.Generate(ctx, model.ReportDailyInternal, day, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if run.State != report.StatePersisted {
		t.Fatalf("state = %s", run.State)
	}

	if !strings.Contains(gen.lastPrompt, "- development: 2h") {
		t.Errorf("prompt missing time total:\n%s", gen.lastPrompt)
	}
	if run.Report.Provider != "fake" {
		t.Errorf("provider = %q", run.Report.Provider)
	}
}

func TestGenerateClientVisibleNoteVerbatim(t *testing.T) {
	s := testutil.NewTestStore(t)
	gen := &echoGenerator{}
	a := newAssembler(t, s, gen)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	c, err := tag.Classify([]string{"cr"})
	if err != nil {
		t.Fatalf("classifying: %v", err)
	}
	if !c.IsClientVisible {
		t.Fatal("cr must classify as client visible")
	}

	if _, err := s.CreateNote(ctx, model.Note{
		Content:  "Completed security audit",
		Tags:     c.Tags,
		NoteDate: day,
	}); err != nil {
		t.Fatalf("creating note: %v", err)
	}

	if _, err := a.Generate(ctx, model.ReportDailyInternal, day, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	clientSection := sectionOf(t, gen.lastPrompt, "## Client-Visible Notes")
	if !strings.Contains(clientSection, "Completed security audit") {
		t.Errorf("client-visible section missing note verbatim:\n%s", gen.lastPrompt)
	}
}

func TestGenerateCarryForwardReappears(t *testing.T) {
	s := testutil.NewTestStore(t)
	gen := &echoGenerator{}
	a := newAssembler(t, s, gen)
	ctx := context.Background()

	created := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	if _, err := s.CreateNote(ctx, model.Note{
		Content:  "Waiting on vendor response",
		Tags:     []string{tag.CarryForward},
		NoteDate: created,
	}); err != nil {
		t.Fatalf("creating note: %v", err)
	}

	// The note stays in Open Items for every subsequent daily report;
	// there is no resolution mechanism to dislodge it.
	for _, day := range []time.Time{
		created.AddDate(0, 0, 2),
		created.AddDate(0, 0, 3),
	} {
		if _, err := a.Generate(ctx, model.ReportDailyInternal, day, nil); err != nil {
			t.Fatalf("Generate for %v: %v", day, err)
		}
		open := sectionOf(t, gen.lastPrompt, "## Open Items")
		if !strings.Contains(open, "Waiting on vendor response") {
			t.Errorf("open items for %v missing carry-forward note:\n%s", day, gen.lastPrompt)
		}
	}

	// On its own creation day it is window content, not an open item.
	if _, err := a.Generate(ctx, model.ReportDailyInternal, created, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	open := sectionOf(t, gen.lastPrompt, "## Open Items")
	if strings.Contains(open, "Waiting on vendor response") {
		t.Error("same-day carry-forward note should not be an open item yet")
	}
}

func TestGenerateValidationFailurePersistsWithFlagLowered(t *testing.T) {
	s := testutil.NewTestStore(t)
	gen := &echoGenerator{response: "too short"}
	a := newAssembler(t, s, gen)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := s.CreateNote(ctx, model.Note{Content: "did things", NoteDate: day}); err != nil {
		t.Fatalf("creating note: %v", err)
	}

	run, err := a.Generate(ctx, model.ReportDailyInternal, day, nil)
	if err != nil {
		t.Fatalf("Generate should not fail on validation: %v", err)
	}

	if run.State != report.StatePersisted {
		t.Errorf("state = %s, want persisted", run.State)
	}
	if run.Warning == nil {
		t.Fatal("expected validation warning")
	}
	if run.Report.ValidationPassed {
		t.Error("validation_passed should be false")
	}

	rows, err := s.GetReports(ctx, model.ReportDailyInternal, day)
	if err != nil {
		t.Fatalf("querying reports: %v", err)
	}
	if len(rows) != 1 || rows[0].ValidationPassed {
		t.Errorf("persisted rows = %+v", rows)
	}
}

func TestGenerateClientScoped(t *testing.T) {
	s := testutil.NewTestStore(t)
	gen := &echoGenerator{}
	a := newAssembler(t, s, gen)
	ctx := context.Background()

	acme, err := s.CreateClient(ctx, model.Client{Name: "Acme"})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	acmeProj, err := s.CreateProject(ctx, model.Project{Name: "Rollout", ClientID: &acme.ID})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	otherProj, err := s.CreateProject(ctx, model.Project{Name: "Side"})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	notes := []model.Note{
		{Content: "Acme milestone shipped", Tags: []string{tag.ClientReport}, ProjectID: &acmeProj.ID, NoteDate: day},
		{Content: "Unrelated side work", Tags: []string{tag.ClientReport}, ProjectID: &otherProj.ID, NoteDate: day},
	}
	for _, n := range notes {
		if _, err := s.CreateNote(ctx, n); err != nil {
			t.Fatalf("creating note: %v", err)
		}
	}

	run, err := a.Generate(ctx, model.ReportDailyClient, day, acme)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if run.Report.ClientID == nil || *run.Report.ClientID != acme.ID {
		t.Errorf("report client id = %v", run.Report.ClientID)
	}

	if !strings.Contains(gen.lastPrompt, "Acme milestone shipped") {
		t.Errorf("prompt missing client note:\n%s", gen.lastPrompt)
	}
	if strings.Contains(gen.lastPrompt, "Unrelated side work") {
		t.Errorf("prompt leaked other client's note:\n%s", gen.lastPrompt)
	}
}

func TestGenerateClientFacingRequiresClient(t *testing.T) {
	s := testutil.NewTestStore(t)
	a := newAssembler(t, s, &echoGenerator{})

	run, err := a.Generate(context.Background(), model.ReportWeeklyClient, time.Now(), nil)
	if err == nil {
		t.Fatal("expected error without client")
	}
	if run.State != report.StateFailed {
		t.Errorf("state = %s, want failed", run.State)
	}
}

func TestGenerateRegenerationAddsRow(t *testing.T) {
	s := testutil.NewTestStore(t)
	a := newAssembler(t, s, &echoGenerator{})
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		if _, err := a.Generate(ctx, model.ReportDailyInternal, day, nil); err != nil {
			t.Fatalf("Generate %d: %v", i, err)
		}
	}

	rows, err := s.GetReports(ctx, model.ReportDailyInternal, day)
	if err != nil {
		t.Fatalf("querying reports: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2 (regeneration never mutates history)", len(rows))
	}
}

// sectionOf extracts one markdown section from the rendered prompt.
func sectionOf(t *testing.T, text, header string) string {
	t.Helper()
	idx := strings.Index(text, header)
	if idx < 0 {
		t.Fatalf("section %q not found in:\n%s", header, text)
	}
	rest := text[idx+len(header):]
	if next := strings.Index(rest, "\n## "); next >= 0 {
		rest = rest[:next]
	}
	return rest
}
