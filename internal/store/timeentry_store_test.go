package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/tests/testutil"
)

func TestCreateTimeEntryRejectsNonPositiveDuration(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for _, hours := range []float64{0, -1.5} {
		_, err := s.CreateTimeEntry(ctx, model.TimeEntry{
			Description:   "Bug fix",
			DurationHours: hours,
		})
		var durErr *model.InvalidDurationError
		if !errors.As(err, &durErr) {
			t.Errorf("duration %g: err = %v, want InvalidDurationError", hours, err)
		}
	}

	// Fail fast means nothing was written.
	entries, err := s.GetTimeEntries(ctx, store.TimeEntryFilter{})
	if err != nil {
		t.Fatalf("querying entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries after rejected input, got %d", len(entries))
	}
}

func TestCategoryTotals(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	project, err := s.CreateProject(ctx, model.Project{Name: "Platform"})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}

	entries := []model.TimeEntry{
		{Description: "Bug fix", DurationHours: 2, Category: "development", ProjectID: &project.ID, EntryDate: day},
		{Description: "Code review", DurationHours: 0.5, Category: "review", ProjectID: &project.ID, EntryDate: day},
		{Description: "More dev", DurationHours: 1.5, Category: "development", ProjectID: &project.ID, EntryDate: day},
		{Description: "Other day", DurationHours: 8, Category: "development", EntryDate: day.AddDate(0, 0, 1)},
	}
	for _, e := range entries {
		if _, err := s.CreateTimeEntry(ctx, e); err != nil {
			t.Fatalf("creating entry %q: %v", e.Description, err)
		}
	}

	totals, err := s.GetCategoryTotals(ctx, store.TimeEntryFilter{
		From: day,
		To:   day.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("aggregating totals: %v", err)
	}

	want := map[string]float64{
		"development": 3.5,
		"review":      0.5,
	}
	if len(totals) != len(want) {
		t.Fatalf("totals = %+v, want %d rows", totals, len(want))
	}
	for _, total := range totals {
		if total.ProjectName != "Platform" {
			t.Errorf("project = %q, want Platform", total.ProjectName)
		}
		if got := want[total.Category]; total.Hours != got {
			t.Errorf("category %s = %g, want %g", total.Category, total.Hours, got)
		}
	}
}

func TestMarkTimeEntrySynced(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTimeEntry(ctx, model.TimeEntry{
		Description:   "Standup",
		DurationHours: 0.25,
		Category:      "meeting",
	})
	if err != nil {
		t.Fatalf("creating entry: %v", err)
	}
	if created.Synced() {
		t.Fatal("new entry should not be synced")
	}

	unsynced, err := s.GetTimeEntries(ctx, store.TimeEntryFilter{Unsynced: true})
	if err != nil {
		t.Fatalf("querying unsynced: %v", err)
	}
	if len(unsynced) != 1 {
		t.Fatalf("unsynced = %d, want 1", len(unsynced))
	}

	if err := s.MarkTimeEntrySynced(ctx, created.ID, "clockify-123"); err != nil {
		t.Fatalf("marking synced: %v", err)
	}

	unsynced, err = s.GetTimeEntries(ctx, store.TimeEntryFilter{Unsynced: true})
	if err != nil {
		t.Fatalf("querying unsynced: %v", err)
	}
	if len(unsynced) != 0 {
		t.Errorf("unsynced after mark = %d, want 0", len(unsynced))
	}

	all, err := s.GetTimeEntries(ctx, store.TimeEntryFilter{})
	if err != nil {
		t.Fatalf("querying all: %v", err)
	}
	if !all[0].Synced() || *all[0].ExternalSyncID != "clockify-123" {
		t.Errorf("sync id = %v", all[0].ExternalSyncID)
	}
}

func TestExternalSyncIDUnique(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id := "clockify-dup"
	if _, err := s.CreateTimeEntry(ctx, model.TimeEntry{
		Description: "First", DurationHours: 1, ExternalSyncID: &id,
	}); err != nil {
		t.Fatalf("creating first entry: %v", err)
	}

	_, err := s.CreateTimeEntry(ctx, model.TimeEntry{
		Description: "Second", DurationHours: 1, ExternalSyncID: &id,
	})
	if !store.IsPersistenceError(err) {
		t.Errorf("duplicate sync id: err = %v, want PersistenceError", err)
	}
}
