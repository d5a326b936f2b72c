package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.wide() {
		half := width / 2
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderCPUSection(half),
			m.renderMemorySection(width-half),
		))
	} else {
		b.WriteString(m.renderCPUSection(width))
		b.WriteString("\n")
		b.WriteString(m.renderMemorySection(width))
	}
	b.WriteString("\n")

	b.WriteString(m.renderDiskSection(width))
	b.WriteString("\n")
	b.WriteString(m.renderNetworkSection(width))

	if procs := m.renderProcessSection(width); procs != "" {
		b.WriteString("\n")
		b.WriteString(procs)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar: host, uptime and refresh age.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("termdash")

	parts := []string{title}

	if m.state.Hostname != "" {
		parts = append(parts, HostNameStyle.Render(m.state.Hostname))
	}

	up := m.state.Uptime
	switch {
	case !up.Available:
		parts = append(parts, LabelStyle.Render("up ")+StaleStyle.Render(UnavailableMarker))
	case up.Stale:
		parts = append(parts, LabelStyle.Render("up ")+StaleStyle.Render(formatUptime(m.state.UptimeDuration())+StaleMarker))
	default:
		parts = append(parts, LabelStyle.Render("up ")+ValueStyle.Render(formatUptime(m.state.UptimeDuration())))
	}

	parts = append(parts, LabelStyle.Render(m.updateText()))

	sep := LabelStyle.Render(" | ")
	return HeaderStyle.Render(strings.Join(parts, sep))
}

// updateText describes how long ago the last refresh completed.
func (m Model) updateText() string {
	if !m.state.HasRefreshed() {
		return "sampling..."
	}

	ago := int(m.now().Sub(m.state.LastRefresh).Seconds())
	switch {
	case ago <= 0:
		return "updated just now"
	case ago == 1:
		return "updated 1s ago"
	default:
		return fmt.Sprintf("updated %ds ago", ago)
	}
}

// renderFooter renders key help and any degraded sensors.
func (m Model) renderFooter() string {
	footer := m.help.View(m.input.Keys())

	if stale := m.state.StaleMetrics(); len(stale) > 0 {
		footer += LabelStyle.Render("  |  ") +
			WarningTextStyle.Render("stale: "+strings.Join(stale, ", "))
	}

	return FooterStyle.Render(footer)
}

// formatPercent formats a reading as a percentage with its degraded marker.
func formatPercent(r Reading) string {
	if !r.Available {
		return UnavailableMarker
	}
	s := fmt.Sprintf("%.1f%%", r.Value)
	if r.Stale {
		s += StaleMarker
	}
	return s
}

// formatBytes formats a byte count in binary units (e.g., "4.0 GiB").
func formatBytes(n uint64) string {
	return humanize.IBytes(n)
}

// formatRate formats a bytes-per-second rate (e.g., "1.5 KiB/s").
func formatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 0 || bytesPerSecond != bytesPerSecond {
		bytesPerSecond = 0
	}
	return humanize.IBytes(uint64(bytesPerSecond)) + "/s"
}

// formatUptime formats a duration as days, hours and minutes.
func formatUptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// truncate shortens s to n display cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) < n {
		return s
	}
	return string(r[:n-1]) + "…"
}
