package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/mhagen/workmain/internal/model"
)

// AuthError indicates the IMAP server rejected the configured
// credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("imap auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IMAPFetcher pulls invite messages from an IMAP mailbox and extracts
// their calendar events.
type IMAPFetcher struct {
	host      string
	port      string
	username  string
	password  string
	tls       bool
	mailbox   string
	sinceDays int
}

// NewIMAPFetcher creates a fetcher from calendar settings and the
// mailbox password.
func NewIMAPFetcher(cfg model.CalendarConfig, password string) *IMAPFetcher {
	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	sinceDays := cfg.SinceDays
	if sinceDays <= 0 {
		sinceDays = 7
	}
	return &IMAPFetcher{
		host:      cfg.IMAPHost,
		port:      cfg.IMAPPort,
		username:  cfg.Username,
		password:  password,
		tls:       cfg.TLS,
		mailbox:   mailbox,
		sinceDays: sinceDays,
	}
}

// connect dials the IMAP server and authenticates. The caller owns the
// returned client and must Logout.
func (f *IMAPFetcher) connect(_ context.Context) (*imapclient.Client, error) {
	addr := f.host + ":" + f.port

	var client *imapclient.Client
	var err error
	if f.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(f.username, f.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Message: fmt.Sprintf("authentication failed for %s: %v", f.username, err),
		}
	}
	return client, nil
}

// FetchEvents connects to the mailbox, searches messages from the
// configured window, and parses calendar events out of every
// text/calendar MIME part found. Messages without calendar parts are
// skipped silently.
func (f *IMAPFetcher) FetchEvents(ctx context.Context) ([]Event, error) {
	client, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(f.mailbox, nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", f.mailbox, err)
	}

	criteria := &imap.SearchCriteria{
		Since: time.Now().AddDate(0, 0, -f.sinceDays),
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), fetchOpts)
	defer fetchCmd.Close()

	var events []Event
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		raw := buf.FindBodySection(bodySection)
		if raw == nil {
			continue
		}
		for _, ics := range calendarParts(raw) {
			parsed, err := ParseICS(ics)
			if err != nil {
				continue
			}
			events = append(events, parsed...)
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return events, fmt.Errorf("fetching messages: %w", err)
	}
	return events, nil
}

// calendarParts parses a raw RFC 2822 message and returns the bodies
// of its text/calendar parts, whether inline or attached (.ics files).
func calendarParts(raw []byte) []string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	defer mr.Close()

	var parts []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		var contentType string
		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ = h.ContentType()
		case *mail.AttachmentHeader:
			contentType, _, _ = h.ContentType()
		}
		if !strings.HasPrefix(contentType, "text/calendar") {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		parts = append(parts, string(body))
	}
	return parts
}
