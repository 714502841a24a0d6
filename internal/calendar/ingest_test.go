package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/mhagen/workmain/internal/calendar"
	"github.com/mhagen/workmain/tests/testutil"
)

type fakeSource struct {
	events []calendar.Event
}

func (f *fakeSource) FetchEvents(context.Context) ([]calendar.Event, error) {
	return f.events, nil
}

func TestSyncUpsertsMeetings(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []calendar.Event{
		{
			UID:       "planning@example.com",
			Summary:   "Sprint Planning",
			Start:     start,
			End:       start.Add(time.Hour),
			Attendees: []string{"Dana Reyes"},
			Recurring: true,
		},
	}}

	ing := calendar.NewIngestor(s, src)
	n, err := ing.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n != 1 {
		t.Errorf("synced = %d, want 1", n)
	}

	meetings, err := s.GetRecentMeetings(ctx, 10)
	if err != nil {
		t.Fatalf("querying meetings: %v", err)
	}
	if len(meetings) != 1 {
		t.Fatalf("meetings = %d, want 1", len(meetings))
	}
	m := meetings[0]
	if m.Title != "Sprint Planning" || m.ExternalID != "planning@example.com" {
		t.Errorf("meeting = %+v", m)
	}
	if !m.Recurring() {
		t.Error("recurring event must carry a series id")
	}

	// Capture notes locally, then re-ingest a retitled invite: the new
	// title lands, the local flag survives.
	if err := s.MarkMeetingNotesCaptured(ctx, m.ID); err != nil {
		t.Fatalf("marking captured: %v", err)
	}
	src.events[0].Summary = "Sprint Planning (rescheduled)"
	if _, err := ing.Sync(ctx); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	meetings, err = s.GetRecentMeetings(ctx, 10)
	if err != nil {
		t.Fatalf("querying meetings: %v", err)
	}
	if len(meetings) != 1 {
		t.Fatalf("re-ingest duplicated the meeting: %d rows", len(meetings))
	}
	if meetings[0].Title != "Sprint Planning (rescheduled)" {
		t.Errorf("title = %q", meetings[0].Title)
	}
	if !meetings[0].NotesCaptured {
		t.Error("notes_captured flag lost on re-ingest")
	}
}
