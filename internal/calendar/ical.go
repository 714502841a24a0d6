// Package calendar ingests meeting invites from an IMAP mailbox.
// Invite messages carry a text/calendar MIME part; its VEVENTs are
// parsed into meeting rows keyed on the event UID.
package calendar

import (
	"bufio"
	"fmt"
	"strings"
	"time"
)

// Event is one VEVENT from an iCalendar payload.
type Event struct {
	UID          string
	RecurrenceID string
	Summary      string
	Start        time.Time
	End          time.Time
	Attendees    []string

	// Recurring is set when the event carries an RRULE or a
	// RECURRENCE-ID, i.e. it belongs to a series.
	Recurring bool
}

// ExternalID returns the stable identity of this occurrence. A
// recurrence instance is distinguished from its series master by the
// RECURRENCE-ID suffix.
func (e *Event) ExternalID() string {
	if e.RecurrenceID != "" {
		return e.UID + "/" + e.RecurrenceID
	}
	return e.UID
}

// ParseICS extracts VEVENTs from an iCalendar payload. Properties the
// ingestion does not need (alarms, timezone definitions, free/busy)
// are skipped. Events without a UID or DTSTART are dropped.
func ParseICS(data string) ([]Event, error) {
	lines, err := unfold(data)
	if err != nil {
		return nil, err
	}

	var events []Event
	var cur *Event
	depth := 0

	for _, line := range lines {
		name, params, value := splitProperty(line)

		switch name {
		case "BEGIN":
			if value == "VEVENT" && depth == 0 {
				cur = &Event{}
			}
			depth++
			continue
		case "END":
			depth--
			if value == "VEVENT" && cur != nil && depth == 0 {
				if cur.UID != "" && !cur.Start.IsZero() {
					events = append(events, *cur)
				}
				cur = nil
			}
			continue
		}

		if cur == nil || depth != 1 {
			continue
		}

		switch name {
		case "UID":
			cur.UID = value
		case "SUMMARY":
			cur.Summary = unescapeText(value)
		case "DTSTART":
			if t, err := parseDateTime(params, value); err == nil {
				cur.Start = t
			}
		case "DTEND":
			if t, err := parseDateTime(params, value); err == nil {
				cur.End = t
			}
		case "RRULE":
			cur.Recurring = true
		case "RECURRENCE-ID":
			cur.RecurrenceID = value
			cur.Recurring = true
		case "ATTENDEE":
			cur.Attendees = append(cur.Attendees, attendeeName(params, value))
		}
	}

	if depth != 0 {
		return events, fmt.Errorf("unbalanced BEGIN/END in calendar data")
	}
	return events, nil
}

// unfold joins RFC 5545 folded lines: a line starting with a space or
// tab continues the previous one.
func unfold(data string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading calendar data: %w", err)
	}
	return lines, nil
}

// splitProperty breaks "NAME;PARAM=x;PARAM=y:value" into its parts.
// Parameter keys are upper-cased; the value keeps its case.
func splitProperty(line string) (name string, params map[string]string, value string) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return strings.ToUpper(line), nil, ""
	}
	head, value := line[:colon], line[colon+1:]

	parts := strings.Split(head, ";")
	name = strings.ToUpper(parts[0])

	if len(parts) > 1 {
		params = make(map[string]string, len(parts)-1)
		for _, p := range parts[1:] {
			if eq := strings.Index(p, "="); eq >= 0 {
				params[strings.ToUpper(p[:eq])] = strings.Trim(p[eq+1:], `"`)
			}
		}
	}
	return name, params, value
}

// parseDateTime handles the date-time shapes invites actually use:
// UTC ("20260310T090000Z"), floating/TZID local time, and all-day
// VALUE=DATE values. TZID zones are resolved via the system zone
// database; unknown zones fall back to UTC.
func parseDateTime(params map[string]string, value string) (time.Time, error) {
	if params["VALUE"] == "DATE" {
		return time.Parse("20060102", value)
	}

	if strings.HasSuffix(value, "Z") {
		return time.Parse("20060102T150405Z", value)
	}

	loc := time.UTC
	if tzid := params["TZID"]; tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation("20060102T150405", value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// attendeeName prefers the CN display name over the mailto address.
func attendeeName(params map[string]string, value string) string {
	if cn := params["CN"]; cn != "" {
		return cn
	}
	return strings.TrimPrefix(strings.ToLower(value), "mailto:")
}

// unescapeText undoes iCalendar TEXT escaping.
func unescapeText(s string) string {
	r := strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	return r.Replace(s)
}
