package report

import (
	"strings"
	"testing"
	"time"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/tag"
)

func TestPayloadPartitionNotes(t *testing.T) {
	p := &Payload{Type: model.ReportDailyInternal}
	p.partitionNotes([]model.Note{
		{Content: "client facing", Tags: []string{tag.ClientReport}},
		{Content: "internal", Tags: []string{tag.InternalOnly}},
		{Content: "untagged"},
		{Content: "both worlds", Tags: []string{tag.ClientReport, tag.Blocker}},
	})

	if len(p.ClientNotes) != 2 {
		t.Errorf("client notes = %d, want 2", len(p.ClientNotes))
	}
	if len(p.InternalNotes) != 2 {
		t.Errorf("internal notes = %d, want 2", len(p.InternalNotes))
	}
}

func TestRenderEmptyPayload(t *testing.T) {
	p := &Payload{
		Type:        model.ReportDailyInternal,
		WindowStart: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}

	out := p.Render()
	if !strings.Contains(out, "No activity recorded") {
		t.Errorf("empty render must state no activity:\n%s", out)
	}
	for _, header := range requiredSections() {
		if !strings.Contains(out, header) {
			t.Errorf("render missing %q", header)
		}
	}
}

func TestRenderClientFacingOmitsInternalSection(t *testing.T) {
	p := &Payload{
		Type:        model.ReportWeeklyClient,
		ClientName:  "Acme",
		WindowStart: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		ClientNotes: []model.Note{{Content: "Milestone shipped"}},
		InternalNotes: []model.Note{
			{Content: "messy internal detail", Tags: []string{tag.InternalOnly}},
		},
		Totals: []store.CategoryTotal{{Category: "development", Hours: 12}},
	}

	out := p.Render()
	if strings.Contains(out, sectionInternalNotes) {
		t.Errorf("client render leaked internal section:\n%s", out)
	}
	if !strings.Contains(out, "Milestone shipped") {
		t.Errorf("client render missing client note:\n%s", out)
	}
	if !strings.Contains(out, "2026-03-09 to 2026-03-15") {
		t.Errorf("weekly title wrong:\n%s", out)
	}
	if !strings.Contains(out, "- development: 12h") {
		t.Errorf("totals wrong:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	valid := "## Summary\nplenty of generated words in this report body\n\n## Time Totals\n- development: 2h\n"

	tests := []struct {
		name     string
		text     string
		min      int
		wantPass bool
	}{
		{"valid", valid, 20, true},
		{"empty", "   ", 20, false},
		{"too short", "## Summary\nok\n## Time Totals\n", 200, false},
		{"missing header", "## Summary\nlong enough body text here but no totals section", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := validate(tt.text, tt.min)
			if pass := warning == nil; pass != tt.wantPass {
				t.Errorf("validate pass = %v, want %v (warning: %v)", pass, tt.wantPass, warning)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	if got := wordCount("one two\nthree"); got != 3 {
		t.Errorf("wordCount = %d, want 3", got)
	}
}
