// Package delivery sends persisted reports out over email and chat.
// Delivery is strictly post-persistence: a failed send leaves the
// report row untouched and is reported to the caller, never rolled
// into the generation result.
package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
)

// Channel names match the delivery stamp columns on the report row.
const (
	ChannelEmail = "email"
	ChannelChat  = "chat"
)

// Deliverer sends one report body over a single channel and returns
// the channel-specific id of what was sent (message id, webhook id).
type Deliverer interface {
	Channel() string
	Deliver(ctx context.Context, subject, body string) (string, error)
}

// Dispatcher routes reports to deliverers and stamps the report row
// after a successful send.
type Dispatcher struct {
	store      store.Store
	deliverers map[string]Deliverer
}

// NewDispatcher creates a Dispatcher over the given deliverers.
func NewDispatcher(s store.Store, deliverers ...Deliverer) *Dispatcher {
	byChannel := make(map[string]Deliverer, len(deliverers))
	for _, d := range deliverers {
		byChannel[d.Channel()] = d
	}
	return &Dispatcher{store: s, deliverers: byChannel}
}

// Send delivers the report over the named channel and stamps the row
// with the delivery id and time. The report itself is already
// persisted; failures here do not touch it.
func (d *Dispatcher) Send(ctx context.Context, report *model.Report, channel string) (string, error) {
	deliverer, ok := d.deliverers[channel]
	if !ok {
		return "", fmt.Errorf("no %s deliverer configured", channel)
	}

	deliveryID, err := deliverer.Deliver(ctx, subjectFor(report), report.Content)
	if err != nil {
		return "", fmt.Errorf("delivering report %s via %s: %w", report.ID, channel, err)
	}

	if err := d.store.StampReportDelivery(ctx, report.ID, channel, deliveryID, time.Now().UTC()); err != nil {
		// The send happened; surface the bookkeeping failure separately.
		return deliveryID, fmt.Errorf("report %s sent (%s) but stamping failed: %w", report.ID, deliveryID, err)
	}
	return deliveryID, nil
}

func subjectFor(report *model.Report) string {
	label := "Daily Report"
	if report.Type.Weekly() {
		label = "Weekly Report"
	}
	return fmt.Sprintf("%s for %s", label, report.ReportDate.Format("2006-01-02"))
}
