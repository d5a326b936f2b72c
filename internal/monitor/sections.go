package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headerValueStyle = lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

func section(title, value string, width int, body []string) string {
	lines := make([]string, 0, len(body)+2)
	lines = append(lines, SectionHeader(title, value, width))
	for _, l := range body {
		lines = append(lines, SectionContentLine(l, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func (m Model) renderCPUSection(width int) string {
	r := m.state.CPU
	value := ReadingStyle(r, KindCPU).Bold(true).Render(formatPercent(r))
	return section("CPU", value, width, m.usageBody(KeyCPU, r, KindCPU, "", width-4))
}

func (m Model) renderMemorySection(width int) string {
	mem := m.state.Memory
	value := ReadingStyle(mem.Reading, KindMemory).Bold(true).Render(formatPercent(mem.Reading))

	detail := ""
	if mem.Available {
		detail = fmt.Sprintf("%s / %s", formatBytes(mem.UsedBytes), formatBytes(mem.TotalBytes))
	}
	return section("Memory", value, width, m.usageBody(KeyMemory, mem.Reading, KindMemory, detail, width-4))
}

// usageBody is a gauge line followed by the metric's history graph.
func (m Model) usageBody(key MetricKey, r Reading, kind MetricKind, detail string, inner int) []string {
	if !r.Available {
		return []string{StaleStyle.Render("waiting for data")}
	}

	gaugeWidth := inner
	if detail != "" {
		gaugeWidth -= lipgloss.Width(detail) + 1
	}
	gauge := GaugeBar(gaugeWidth, r.Value, kind, r.Stale)
	if detail != "" {
		gauge += " " + LabelStyle.Render(detail)
	}
	body := []string{gauge}

	if m.compact() {
		return body
	}

	graph := RenderBrailleSparkline(m.state.History.Values(key), inner, m.graphHeight(), PercentScale, KindColor(kind))
	if graph != "" {
		body = append(body, strings.Split(graph, "\n")...)
	}
	return body
}

const (
	mountColWidth   = 14
	percentColWidth = 8
	ifaceColWidth   = 10
	rateColWidth    = 12
	sparkColWidth   = 10
	pidColWidth     = 8
	procCPUColWidth = 8
	procMemColWidth = 10
)

func (m Model) renderDiskSection(width int) string {
	inner := width - 4
	disks := m.state.Disks

	if len(disks) == 0 {
		return section("Disks", "", width, []string{MutedStyle.Render("no mounts configured")})
	}

	var body []string
	for _, d := range disks {
		mount := lipgloss.NewStyle().Width(mountColWidth).Render(truncate(d.Mount, mountColWidth-1))

		if !d.Available {
			body = append(body, LabelStyle.Render(mount)+StaleStyle.Render(UnavailableMarker))
			continue
		}

		size := fmt.Sprintf("%s / %s", formatBytes(d.UsedBytes), formatBytes(d.TotalBytes))
		pct := ReadingStyle(d.Reading, KindDisk).Width(percentColWidth).Render(formatPercent(d.Reading))

		line := LabelStyle.Render(mount)
		barWidth := inner - mountColWidth - percentColWidth - lipgloss.Width(size) - 2
		if barWidth >= 4 && !m.compact() {
			line += GaugeBar(barWidth, d.Value, KindDisk, d.Stale) + " "
		}
		line += pct + " " + LabelStyle.Render(size)
		body = append(body, line)
	}

	value := headerValueStyle.Render(fmt.Sprintf("%d mounted", len(disks)))
	return section("Disks", value, width, body)
}

func (m Model) renderNetworkSection(width int) string {
	ifaces := m.state.Interfaces

	value := headerValueStyle.Render(fmt.Sprintf("%d active", len(ifaces)))
	if m.state.NetworkStale {
		value = StaleStyle.Render(fmt.Sprintf("%d active%s", len(ifaces), StaleMarker))
	}

	if len(ifaces) == 0 {
		msg := "no active interfaces"
		if m.state.NetworkStale && len(m.state.Network.Tracked()) == 0 {
			msg = "network unavailable"
		}
		return section("Network", value, width, []string{MutedStyle.Render(msg)})
	}

	rateStyle := ValueStyle
	if m.state.NetworkStale {
		rateStyle = StaleStyle
	}
	rx := lipgloss.NewStyle().Foreground(ColorRx)
	tx := lipgloss.NewStyle().Foreground(ColorTx)

	var body []string
	for _, iface := range ifaces {
		name := lipgloss.NewStyle().Width(ifaceColWidth).Render(truncate(iface.Name, ifaceColWidth-1))
		rxRate := rateStyle.Width(rateColWidth).Render(formatRate(iface.RxRate))
		txRate := rateStyle.Width(rateColWidth).Render(formatRate(iface.TxRate))

		line := LabelStyle.Render(name) + rx.Render("↓ ") + rxRate
		if !m.compact() {
			line += rx.Render(m.rateSparkline(NetRxKey(iface.Name))) + "  "
		}
		line += tx.Render("↑ ") + txRate
		if !m.compact() {
			line += tx.Render(m.rateSparkline(NetTxKey(iface.Name)))
		}
		body = append(body, line)
	}

	return section("Network", value, width, body)
}

// rateSparkline draws one interface direction's recent rates, padded so
// columns line up while history is still short.
func (m Model) rateSparkline(key MetricKey) string {
	values := m.state.History.Values(key)
	spark := RenderMiniSparkline(values, sparkColWidth, AutoScale(values))
	return lipgloss.NewStyle().Width(sparkColWidth).Render(spark)
}

func (m Model) renderProcessSection(width int) string {
	if m.sampler == nil || m.sampler.processes == 0 {
		return ""
	}

	procs := m.state.Processes
	value := headerValueStyle.Render("by CPU")
	if m.state.ProcessesStale {
		value = StaleStyle.Render("by CPU" + StaleMarker)
	}

	if len(procs) == 0 {
		return section("Processes", value, width, []string{MutedStyle.Render("no process data")})
	}

	inner := width - 4
	nameWidth := inner - pidColWidth - procCPUColWidth - procMemColWidth
	if nameWidth < 8 {
		nameWidth = 8
	}

	head := MutedStyle.Render(
		lipgloss.NewStyle().Width(pidColWidth).Render("PID") +
			lipgloss.NewStyle().Width(nameWidth).Render("NAME") +
			lipgloss.NewStyle().Width(procCPUColWidth).Render("CPU") +
			"MEM",
	)
	body := []string{head}

	rowStyle := ValueStyle
	if m.state.ProcessesStale {
		rowStyle = StaleStyle
	}
	for _, p := range procs {
		row := lipgloss.NewStyle().Width(pidColWidth).Render(fmt.Sprintf("%d", p.PID)) +
			lipgloss.NewStyle().Width(nameWidth).Render(truncate(p.Name, nameWidth-1)) +
			lipgloss.NewStyle().Width(procCPUColWidth).Render(fmt.Sprintf("%.1f%%", p.CPUPercent)) +
			formatBytes(p.MemoryBytes)
		body = append(body, rowStyle.Render(row))
	}

	return section("Processes", value, width, body)
}
