package calendar

import (
	"context"
	"fmt"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
)

// EventSource yields calendar events from somewhere external,
// typically an IMAPFetcher.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]Event, error)
}

// Ingestor upserts fetched calendar events into the meeting table.
type Ingestor struct {
	store  store.Store
	source EventSource
}

// NewIngestor creates an Ingestor over the given store and source.
func NewIngestor(s store.Store, src EventSource) *Ingestor {
	return &Ingestor{store: s, source: src}
}

// Sync fetches events and upserts them as meetings, keyed on the
// event's external id. Re-running is safe: updated invites overwrite
// the stored title, times, and attendees while local flags like
// notes_captured survive. Returns the number of events processed.
func (i *Ingestor) Sync(ctx context.Context) (int, error) {
	events, err := i.source.FetchEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching calendar events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	meetings := make([]model.Meeting, 0, len(events))
	for _, ev := range events {
		meetings = append(meetings, toMeeting(ev))
	}

	if err := i.store.UpsertMeetings(ctx, meetings); err != nil {
		return 0, fmt.Errorf("storing meetings: %w", err)
	}
	return len(meetings), nil
}

func toMeeting(ev Event) model.Meeting {
	m := model.Meeting{
		ExternalID: ev.ExternalID(),
		Title:      ev.Summary,
		StartTime:  ev.Start,
		EndTime:    ev.End,
		Attendees:  ev.Attendees,
	}
	if ev.Recurring {
		series := ev.UID
		m.SeriesID = &series
	}
	return m
}
