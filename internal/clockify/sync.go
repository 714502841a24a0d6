package clockify

import (
	"context"
	"fmt"

	"github.com/mhagen/workmain/internal/store"
)

// Syncer reconciles local time entries against Clockify.
type Syncer struct {
	store  store.Store
	client *Client
}

// NewSyncer creates a Syncer over the given store and client.
func NewSyncer(s store.Store, c *Client) *Syncer {
	return &Syncer{store: s, client: c}
}

// Result summarizes one sync run.
type Result struct {
	Created int
	Failed  int
	Errs    []error
}

// Push sends every unsynced time entry to Clockify and records the
// returned id as the entry's external sync id. Entries that already
// carry a sync id are left alone; use Resync to force an update.
// Individual failures are collected, not fatal, so one bad entry does
// not block the rest.
func (s *Syncer) Push(ctx context.Context) (*Result, error) {
	entries, err := s.store.GetTimeEntries(ctx, store.TimeEntryFilter{Unsynced: true})
	if err != nil {
		return nil, fmt.Errorf("loading unsynced entries: %w", err)
	}

	result := &Result{}
	for _, entry := range entries {
		externalID, err := s.client.CreateEntry(ctx, entry.Description, entry.EntryDate, entry.DurationHours)
		if err != nil {
			// Auth failures will hit every entry; stop early.
			if IsAuthError(err) {
				return result, err
			}
			result.Failed++
			result.Errs = append(result.Errs, fmt.Errorf("entry %s: %w", entry.ID, err))
			continue
		}

		if err := s.store.MarkTimeEntrySynced(ctx, entry.ID, externalID); err != nil {
			result.Failed++
			result.Errs = append(result.Errs, fmt.Errorf("recording sync id for %s: %w", entry.ID, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// Resync pushes the current state of an already-synced entry as an
// update, keyed on its external sync id.
func (s *Syncer) Resync(ctx context.Context, entryID string) error {
	entries, err := s.store.GetTimeEntries(ctx, store.TimeEntryFilter{})
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}

	for _, entry := range entries {
		if entry.ID != entryID {
			continue
		}
		if !entry.Synced() {
			return fmt.Errorf("entry %s has no external sync id; run push first", entryID)
		}
		if err := s.client.UpdateEntry(ctx, *entry.ExternalSyncID, entry.Description, entry.EntryDate, entry.DurationHours); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("entry %s: %w", entryID, store.ErrNotFound)
}
