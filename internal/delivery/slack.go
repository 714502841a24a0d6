package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Slack delivers reports to a Slack incoming webhook.
type Slack struct {
	webhookURL string
	client     *http.Client
}

// NewSlack creates a Slack deliverer for the given webhook URL.
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Channel implements Deliverer.
func (s *Slack) Channel() string { return ChannelChat }

type slackPayload struct {
	Text string `json:"text"`
}

// Deliver posts the report to the webhook. Incoming webhooks do not
// return a message id, so a locally generated one is recorded instead.
func (s *Slack) Deliver(ctx context.Context, subject, body string) (string, error) {
	if s.webhookURL == "" {
		return "", fmt.Errorf("no slack webhook configured")
	}

	payload, err := json.Marshal(slackPayload{Text: fmt.Sprintf("*%s*\n\n%s", subject, body)})
	if err != nil {
		return "", fmt.Errorf("marshaling slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("slack webhook error (%d): %s", resp.StatusCode, string(respBody))
	}

	return uuid.New().String(), nil
}
