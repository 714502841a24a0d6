// Package theme centralizes the lipgloss styles used by the CLI output.
package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for command output section headers.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SubtleStyle is used for secondary detail lines (dates, ids, counts).
var SubtleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// WarnStyle marks non-fatal conditions like validation warnings.
var WarnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// ErrorStyle marks fatal command failures.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// SuccessStyle marks completed operations.
var SuccessStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// ReportBodyStyle wraps rendered report content.
var ReportBodyStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TagStyle returns a color-coded style for a routing tag badge.
func TagStyle(name string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch name {
	case "client-report":
		return base.Foreground(ColorGreen)
	case "blocker":
		return base.Foreground(ColorRed)
	case "carry-forward":
		return base.Foreground(ColorOrange)
	case "info-only":
		return base.Foreground(ColorMagenta)
	case "internal-only":
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}
