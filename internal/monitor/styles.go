package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Alert levels
	ColorNormal   = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
	ColorRx     = lipgloss.Color("#00FFFF")
	ColorTx     = lipgloss.Color("#BF40FF")
)

// Glyphs used for degraded readings.
const (
	StaleMarker       = "~"
	UnavailableMarker = "n/a"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	HostNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// StaleStyle dims a value carried over from an earlier tick.
	StaleStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	WarningTextStyle = lipgloss.NewStyle().
				Foreground(ColorWarning)
)

// AlertColor maps an alert level to its display color.
func AlertColor(level AlertLevel) lipgloss.Color {
	switch level {
	case AlertCritical:
		return ColorCritical
	case AlertWarning:
		return ColorWarning
	default:
		return ColorNormal
	}
}

// AlertStyle returns a foreground style for the alert level.
func AlertStyle(level AlertLevel) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(AlertColor(level))
}

// ReadingStyle picks the style for a scalar reading: alert colored when
// fresh, dimmed when stale.
func ReadingStyle(r Reading, kind MetricKind) lipgloss.Style {
	if r.Stale || !r.Available {
		return StaleStyle
	}
	return AlertStyle(r.Level(kind))
}

// GaugeBar renders a horizontal usage bar colored by the alert level of
// percent for kind. A stale gauge is drawn dimmed.
func GaugeBar(width int, percent float64, kind MetricKind, stale bool) string {
	if width < 1 {
		width = 1
	}

	filled := int(clampPercent(percent) / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	b.Grow(width * 3)
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString("▰")
		} else {
			b.WriteString("▱")
		}
	}

	style := AlertStyle(Classify(kind, percent))
	if stale {
		style = StaleStyle
	}
	return style.Render(b.String())
}

func clampPercent(p float64) float64 {
	switch {
	case p != p, p < 0: // NaN or negative
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// SectionHeader renders the top border of a section with the title on the
// left and a value on the right. The value is drawn as given so callers can
// color it.
//
//	╭─ Title ─────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fill := width - leftWidth - rightWidth
	if fill < 1 {
		fill = 1
	}

	border := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)

	return border.Render("╭─ ") +
		titleStyle.Render(title) +
		border.Render(" "+strings.Repeat("─", fill)+" ") +
		value +
		border.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders one bordered content line padded to width.
// Content wider than the section is truncated.
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}
	inner := width - 4

	if lipgloss.Width(content) > inner {
		content = lipgloss.NewStyle().MaxWidth(inner).Render(content)
	}
	pad := inner - lipgloss.Width(content)
	if pad < 0 {
		pad = 0
	}

	border := lipgloss.NewStyle().Foreground(ColorBorder).Render("│")
	return border + " " + content + strings.Repeat(" ", pad) + " " + border
}
