package tui

import (
	"fmt"
	"strings"

	"opsdash-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) renderServers() string {
	leftW := (m.width - 3) / 2
	bodyH := m.height - 4

	left := m.renderHostMetrics(leftW)
	right := m.renderTargets(leftW)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, leftW, bodyH),
		" ",
		normalizePane(right, leftW, bodyH),
	)

	rows := []string{row, styleMuted().Render("j/k: select target   enter: fetch target metrics   r: refresh")}
	if m.serversErr != "" {
		rows = append([]string{styleError().Render(m.serversErr)}, rows...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m appModel) renderHostMetrics(w int) string {
	rows := []string{styleHeading().Render("Backend host")}
	if m.metrics == nil {
		rows = append(rows, styleMuted().Render("no metrics yet"))
		return strings.Join(rows, "\n")
	}
	rows = append(rows, metricsLines(&m.metrics.CPU, &m.metrics.Memory, &m.metrics.Storage, w)...)
	return strings.Join(rows, "\n")
}

func (m appModel) renderTargets(w int) string {
	rows := []string{styleHeading().Render("Managed targets")}
	if len(m.targets) == 0 {
		rows = append(rows, styleMuted().Render("none registered"))
	}

	for i, t := range m.targets {
		name := t.Host
		if t.Name != nil && *t.Name != "" {
			name = *t.Name + " (" + t.Host + ")"
		}
		line := name
		if i == m.serverRow {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render(truncLine(line, w))
		}
		rows = append(rows, truncLine(line, w))

		if tm := m.targetMetrics[t.ID]; tm != nil {
			if !tm.Reachable {
				reason := "unreachable"
				if tm.Error != nil && *tm.Error != "" {
					reason = *tm.Error
				}
				rows = append(rows, truncLine("  "+styleError().Render(reason), w))
				continue
			}
			for _, ln := range metricsLines(&tm.CPU, &tm.Memory, &tm.Storage, w-2) {
				rows = append(rows, "  "+ln)
			}
		}
	}
	return strings.Join(rows, "\n")
}

func metricsLines(cpu *model.CPUMetrics, mem *model.MemoryMetrics, disk *model.StorageMetrics, w int) []string {
	lines := []string{
		truncLine(fmt.Sprintf("cpu   %d cores, load %.2f / %.2f / %.2f",
			cpu.Cores, cpu.Load.Avg1, cpu.Load.Avg5, cpu.Load.Avg15), w),
		truncLine("mem   "+usageLine(mem.UsedBytes, mem.TotalBytes), w),
		truncLine(fmt.Sprintf("disk  %s %s", disk.Path, usageLine(disk.UsedBytes, disk.TotalBytes)), w),
	}
	return lines
}

func usageLine(used, total *int64) string {
	if used == nil || total == nil || *total == 0 {
		return "n/a"
	}
	pct := float64(*used) / float64(*total) * 100
	return fmt.Sprintf("%s / %s (%.0f%%)", humanBytes(*used), humanBytes(*total), pct)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}

func (m appModel) renderAnsible() string {
	mode := "backend"
	if m.localParse {
		mode = "local"
	}

	rows := []string{
		styleHeading().Render("Inventory analysis"),
		"",
		formField("Path", m.pathInput.View(), m.pathInput.Focused()),
		formField("Mode", mode+" (L toggles)", false),
		"",
		styleMuted().Render("e: edit path   enter: analyze   esc: stop editing"),
	}
	if m.ansibleErr != "" {
		rows = append(rows, "", styleError().Render(m.ansibleErr))
	}

	if m.analysis != nil {
		rows = append(rows, "",
			styleHeading().Render(m.analysis.InventoryFile))
		for _, g := range m.analysis.Groups {
			rows = append(rows, fmt.Sprintf("%s (%d)", g.Group, len(g.Hosts)))
			for _, h := range g.Hosts {
				ip := ""
				if h.IP != nil {
					ip = styleMuted().Render("  " + *h.IP)
				}
				rows = append(rows, "  "+h.Name+ip)
			}
		}
	}
	return strings.Join(rows, "\n")
}
