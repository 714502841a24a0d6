package calendar

import (
	"testing"
	"time"
)

const sampleInvite = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"METHOD:REQUEST\r\n" +
	"BEGIN:VTIMEZONE\r\n" +
	"TZID:Europe/Berlin\r\n" +
	"END:VTIMEZONE\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:abc-123@calendar.example.com\r\n" +
	"SUMMARY:Sprint Planning\\, Q2\r\n" +
	"DTSTART:20260310T090000Z\r\n" +
	"DTEND:20260310T100000Z\r\n" +
	"ATTENDEE;CN=Dana Reyes;PARTSTAT=NEEDS-ACTION:mailto:dana@example.com\r\n" +
	"ATTENDEE:mailto:sam@example.com\r\n" +
	"RRULE:FREQ=WEEKLY;BYDAY=TU\r\n" +
	"BEGIN:VALARM\r\n" +
	"TRIGGER:-PT10M\r\n" +
	"END:VALARM\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS(t *testing.T) {
	events, err := ParseICS(sampleInvite)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}

	ev := events[0]
	if ev.UID != "abc-123@calendar.example.com" {
		t.Errorf("uid = %q", ev.UID)
	}
	if ev.Summary != "Sprint Planning, Q2" {
		t.Errorf("summary = %q", ev.Summary)
	}
	want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(want) {
		t.Errorf("start = %v, want %v", ev.Start, want)
	}
	if !ev.End.Equal(want.Add(time.Hour)) {
		t.Errorf("end = %v", ev.End)
	}
	if !ev.Recurring {
		t.Error("RRULE event must be recurring")
	}
	if len(ev.Attendees) != 2 || ev.Attendees[0] != "Dana Reyes" || ev.Attendees[1] != "sam@example.com" {
		t.Errorf("attendees = %v", ev.Attendees)
	}
}

func TestParseICSFoldedLines(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:folded-1\r\n" +
		"SUMMARY:A very long meeting title that the\r\n" +
		" server folded across two lines\r\n" +
		"DTSTART;TZID=UTC:20260401T120000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ParseICS(ics)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if got := events[0].Summary; got != "A very long meeting title that theserver folded across two lines" {
		t.Errorf("summary = %q", got)
	}
}

func TestParseICSRecurrenceInstance(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:standup@example.com\r\n" +
		"RECURRENCE-ID:20260311T080000Z\r\n" +
		"SUMMARY:Standup (moved)\r\n" +
		"DTSTART:20260311T083000Z\r\n" +
		"DTEND:20260311T084500Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ParseICS(ics)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if !ev.Recurring {
		t.Error("recurrence instance must be recurring")
	}
	if got := ev.ExternalID(); got != "standup@example.com/20260311T080000Z" {
		t.Errorf("external id = %q", got)
	}
}

func TestParseICSAllDay(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:offsite-1\r\n" +
		"SUMMARY:Team Offsite\r\n" +
		"DTSTART;VALUE=DATE:20260420\r\n" +
		"DTEND;VALUE=DATE:20260421\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ParseICS(ics)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	want := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	if len(events) != 1 || !events[0].Start.Equal(want) {
		t.Errorf("events = %+v", events)
	}
}

func TestParseICSDropsIncompleteEvents(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"SUMMARY:No UID here\r\n" +
		"DTSTART:20260310T090000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ParseICS(ics)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %d, want 0", len(events))
	}
}
