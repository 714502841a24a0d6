// Package clockify pushes local time entries to the Clockify API.
// Reconciliation is keyed on the entry's external sync id: entries
// without one are created, entries with one are updated.
package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.clockify.me/api/v1"

// AuthError indicates the Clockify API rejected the configured key.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("clockify auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Client is a minimal Clockify REST client scoped to one workspace.
type Client struct {
	apiKey      string
	workspaceID string
	baseURL     string
	client      *http.Client
}

// NewClient creates a Clockify client. Empty baseURL uses the public
// API endpoint.
func NewClient(apiKey, workspaceID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:      apiKey,
		workspaceID: workspaceID,
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type timeEntryPayload struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}

type timeEntryResponse struct {
	ID string `json:"id"`
}

// CreateEntry creates a time entry and returns its Clockify id.
func (c *Client) CreateEntry(ctx context.Context, description string, start time.Time, hours float64) (string, error) {
	url := fmt.Sprintf("%s/workspaces/%s/time-entries", c.baseURL, c.workspaceID)

	var resp timeEntryResponse
	if err := c.do(ctx, http.MethodPost, url, entryPayload(description, start, hours), &resp); err != nil {
		return "", fmt.Errorf("creating clockify entry: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("clockify returned no entry id")
	}
	return resp.ID, nil
}

// UpdateEntry updates an existing time entry by its Clockify id.
func (c *Client) UpdateEntry(ctx context.Context, entryID, description string, start time.Time, hours float64) error {
	url := fmt.Sprintf("%s/workspaces/%s/time-entries/%s", c.baseURL, c.workspaceID, entryID)

	if err := c.do(ctx, http.MethodPut, url, entryPayload(description, start, hours), nil); err != nil {
		return fmt.Errorf("updating clockify entry %s: %w", entryID, err)
	}
	return nil
}

func entryPayload(description string, start time.Time, hours float64) timeEntryPayload {
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	return timeEntryPayload{
		Start:       start.UTC().Format(time.RFC3339),
		End:         end.UTC().Format(time.RFC3339),
		Description: description,
	}
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling clockify: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("clockify error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
