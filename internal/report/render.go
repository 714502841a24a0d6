package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/tag"
)

// Section headers used in both the rendered payload and the generated
// output. The validator checks for requiredSections.
const (
	sectionSummary       = "## Summary"
	sectionInternalNotes = "## Internal Notes"
	sectionClientNotes   = "## Client-Visible Notes"
	sectionOpenItems     = "## Open Items"
	sectionTimeTotals    = "## Time Totals"
)

// requiredSections returns the headers the generated text must contain
// to pass structural validation.
func requiredSections() []string {
	return []string{sectionSummary, sectionTimeTotals}
}

// Payload is the structured material collected for one generation run,
// partitioned by audience and ready to render into a prompt.
type Payload struct {
	Type        model.ReportType
	WindowStart time.Time
	WindowEnd   time.Time // exclusive
	ClientName  string

	InternalNotes []model.Note
	ClientNotes   []model.Note
	OpenItems     []model.Note
	Totals        []store.CategoryTotal

	projectNames map[string]string
}

// Empty reports whether the window held no activity at all.
func (p *Payload) Empty() bool {
	return len(p.InternalNotes) == 0 &&
		len(p.ClientNotes) == 0 &&
		len(p.OpenItems) == 0 &&
		len(p.Totals) == 0
}

// TotalHours sums the aggregated time totals.
func (p *Payload) TotalHours() float64 {
	var sum float64
	for _, t := range p.Totals {
		sum += t.Hours
	}
	return sum
}

// partitionNotes splits collected notes by audience using the tag
// classifier. Notes whose stored tags fail classification (possible
// only if the vocabulary shrinks) fall back to internal.
func (p *Payload) partitionNotes(notes []model.Note) {
	for _, n := range notes {
		c, err := tag.Classify(n.Tags)
		if err == nil && c.IsClientVisible {
			p.ClientNotes = append(p.ClientNotes, n)
			continue
		}
		p.InternalNotes = append(p.InternalNotes, n)
	}
}

// title renders the human heading for the report window.
func (p *Payload) title() string {
	audience := "internal"
	if p.Type.ClientFacing() {
		audience = "client"
		if p.ClientName != "" {
			audience = "client (" + p.ClientName + ")"
		}
	}
	if p.Type.Weekly() {
		last := p.WindowEnd.AddDate(0, 0, -1)
		return fmt.Sprintf("# Weekly %s report: %s to %s",
			audience, p.WindowStart.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	return fmt.Sprintf("# Daily %s report: %s",
		audience, p.WindowStart.Format("2006-01-02"))
}

// Render produces the structured text handed to the AI provider (or
// stored directly for empty windows).
func (p *Payload) Render() string {
	var sb strings.Builder

	sb.WriteString(p.title())
	sb.WriteString("\n\n")

	sb.WriteString(sectionSummary)
	sb.WriteString("\n")
	if p.Empty() {
		sb.WriteString("No activity recorded for this period: no notes and no tracked time.\n")
	} else {
		noteCount := len(p.InternalNotes) + len(p.ClientNotes)
		sb.WriteString(fmt.Sprintf("%d note(s), %s tracked, %d open item(s) carried forward.\n",
			noteCount, model.FormatHours(p.TotalHours()), len(p.OpenItems)))
	}

	if !p.Type.ClientFacing() {
		sb.WriteString("\n")
		sb.WriteString(sectionInternalNotes)
		sb.WriteString("\n")
		p.writeNotes(&sb, p.InternalNotes, true)
	}

	sb.WriteString("\n")
	sb.WriteString(sectionClientNotes)
	sb.WriteString("\n")
	p.writeNotes(&sb, p.ClientNotes, false)

	sb.WriteString("\n")
	sb.WriteString(sectionOpenItems)
	sb.WriteString("\n")
	if len(p.OpenItems) == 0 {
		sb.WriteString("None.\n")
	}
	for _, n := range p.OpenItems {
		sb.WriteString(fmt.Sprintf("- (%s) %s\n", n.NoteDate.Format("2006-01-02"), n.Content))
	}

	sb.WriteString("\n")
	sb.WriteString(sectionTimeTotals)
	sb.WriteString("\n")
	if len(p.Totals) == 0 {
		sb.WriteString("No time tracked.\n")
	}
	for _, t := range p.Totals {
		label := t.Category
		if label == "" {
			label = "uncategorized"
		}
		if t.ProjectName != "" {
			label = t.ProjectName + " / " + label
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", label, model.FormatHours(t.Hours)))
	}

	return sb.String()
}

// writeNotes renders one note list. Note content is included verbatim;
// tags are shown only on internal sections.
func (p *Payload) writeNotes(sb *strings.Builder, notes []model.Note, showTags bool) {
	if len(notes) == 0 {
		sb.WriteString("None.\n")
		return
	}
	for _, n := range notes {
		line := "- "
		if showTags && len(n.Tags) > 0 {
			line += tag.FormatTags(n.Tags) + " "
		}
		line += n.Content
		if n.ProjectID != nil {
			if name, ok := p.projectNames[*n.ProjectID]; ok {
				line += " (project: " + name + ")"
			}
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// Prompt wraps the rendered payload with generation instructions for
// the AI provider.
func (p *Payload) Prompt() string {
	var sb strings.Builder

	kind := "daily"
	if p.Type.Weekly() {
		kind = "weekly"
	}
	audience := "an internal status"
	if p.Type.ClientFacing() {
		audience = "a client-facing status"
	}

	sb.WriteString(fmt.Sprintf(
		"Write %s report covering the %s period below.\n", audience, kind))
	sb.WriteString("Base the report strictly on the data provided; do not invent work.\n")
	sb.WriteString("Keep the markdown section headers exactly as given")
	sb.WriteString(" (" + strings.Join(requiredSections(), ", ") + " must appear).\n")
	if p.Type.ClientFacing() {
		sb.WriteString("The audience is an external client: professional tone, no internal detail.\n")
	}
	sb.WriteString("\n---\n\n")
	sb.WriteString(p.Render())

	return sb.String()
}
