package delivery

import (
	"strings"
	"testing"
	"time"
)

func TestComposeMessage(t *testing.T) {
	raw, err := composeMessage(
		"me@example.com",
		[]string{"boss@example.com", "team@example.com"},
		"Daily Report for 2026-03-10",
		"## Summary\nwork happened\n",
		"abc-123@workmain",
		time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("composeMessage: %v", err)
	}

	msg := string(raw)
	for _, want := range []string{
		"From: <me@example.com>",
		"boss@example.com",
		"team@example.com",
		"Subject: Daily Report for 2026-03-10",
		"Message-Id: <abc-123@workmain>",
		"work happened",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(strings.ToLower(msg), "text/plain") {
		t.Errorf("message missing plain-text content type:\n%s", msg)
	}
}
