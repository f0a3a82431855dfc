// Package render formats coaching reports for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fitness-coach/internal/analysis"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F9FAFB") // Light gray
)

// theme holds every style used by the renderer. The plain theme keeps the
// layout but drops colors and borders.
type theme struct {
	header      lipgloss.Style
	card        lipgloss.Style
	cardTitle   lipgloss.Style
	metricLabel lipgloss.Style
	metricValue lipgloss.Style
	muted       lipgloss.Style
	success     lipgloss.Style
	warning     lipgloss.Style
	danger      lipgloss.Style
	tableHeader lipgloss.Style
	highlight   lipgloss.Style
}

func newTheme(color bool) theme {
	if !color {
		plain := lipgloss.NewStyle()
		return theme{
			header:      plain,
			card:        plain.MarginBottom(1),
			cardTitle:   plain,
			metricLabel: plain.Width(22),
			metricValue: plain,
			muted:       plain,
			success:     plain,
			warning:     plain,
			danger:      plain,
			tableHeader: plain,
			highlight:   plain,
		}
	}

	return theme{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1).
			MarginBottom(1),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1),
		cardTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor),
		metricLabel: lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(22),
		metricValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor),
		muted:   lipgloss.NewStyle().Foreground(mutedColor),
		success: lipgloss.NewStyle().Foreground(secondaryColor),
		warning: lipgloss.NewStyle().Foreground(warningColor),
		danger:  lipgloss.NewStyle().Foreground(errorColor),
		tableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor),
		highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor),
	}
}

// metric renders a label/value line with an optional trailing annotation.
func (t theme) metric(label, value, note string, noteStyle lipgloss.Style) string {
	line := lipgloss.JoinHorizontal(lipgloss.Left,
		t.metricLabel.Render(label),
		t.metricValue.Render(value),
	)
	if note != "" {
		line += " " + noteStyle.Render(note)
	}
	return line
}

// statusStyle picks the color of a metric grade.
func (t theme) statusStyle(s analysis.Status) lipgloss.Style {
	switch s {
	case analysis.StatusGood:
		return t.success
	case analysis.StatusConcern:
		return t.danger
	default:
		return t.muted
	}
}

// section renders a titled card.
func (t theme) section(title string, lines ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{t.cardTitle.Render(title)}, lines...)...)
	return t.card.Render(body)
}

func bullet(s string) string {
	return "  • " + s
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
