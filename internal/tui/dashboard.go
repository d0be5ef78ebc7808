package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"opsdash-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) renderDashboard() string {
	paneW := (m.width - 4) / 3
	if paneW < 24 {
		paneW = 24
	}
	paneH := m.height - 4

	tickets := m.renderTicketsPanel(paneW)
	tasks := m.renderTodayPanel(paneW)
	pipeline := m.renderPipelinePanel(paneW)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(tickets, paneW, paneH),
		" ",
		normalizePane(tasks, paneW, paneH),
		" ",
		normalizePane(pipeline, paneW, paneH),
	)

	if m.dashErr != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			styleError().Render(m.dashErr), "", row)
	}
	return row
}

func (m appModel) renderTicketsPanel(w int) string {
	rows := []string{styleHeading().Render("Alerts")}
	if len(m.tickets) == 0 {
		rows = append(rows, styleMuted().Render("no open tickets"))
	}
	for _, t := range m.tickets {
		sev := lipgloss.NewStyle().Bold(true).
			Foreground(severityColor(t.Severity)).
			Render(string(t.Severity))
		rows = append(rows, truncLine(sev+" "+t.Title, w))
	}
	return strings.Join(rows, "\n")
}

func (m appModel) renderTodayPanel(w int) string {
	rows := []string{styleHeading().Render("Due today")}
	if len(m.tasksToday) == 0 {
		rows = append(rows, styleMuted().Render("nothing due"))
	}
	for _, t := range m.tasksToday {
		rows = append(rows, truncLine(taskLine(t), w))
	}
	return strings.Join(rows, "\n")
}

func taskLine(t model.Task) string {
	marker := "·"
	switch t.Status {
	case model.TaskInProgress:
		marker = "»"
	case model.TaskDone:
		marker = "✓"
	}
	line := marker + " " + t.Title
	if t.EstimateHours != nil {
		line += styleMuted().Render(fmt.Sprintf(" (%.1fh)", *t.EstimateHours))
	}
	return line
}

func (m appModel) renderPipelinePanel(w int) string {
	rows := []string{styleHeading().Render("CI pipeline")}
	if m.pipeline == nil {
		rows = append(rows, styleMuted().Render("no pipeline data"))
		return strings.Join(rows, "\n")
	}

	// The pipeline payload is deliberately untyped; render the top-level keys
	// and leave nested values as compact JSON.
	if obj, ok := m.pipeline.(map[string]any); ok {
		for _, k := range sortedKeys(obj) {
			v := obj[k]
			var val string
			switch t := v.(type) {
			case string:
				val = t
			case float64:
				val = fmt.Sprintf("%g", t)
			case bool:
				val = fmt.Sprintf("%v", t)
			default:
				b, err := json.Marshal(v)
				if err != nil {
					val = fmt.Sprintf("%v", v)
				} else {
					val = string(b)
				}
			}
			rows = append(rows, truncLine(styleMuted().Render(k+": ")+val, w))
		}
		return strings.Join(rows, "\n")
	}

	b, err := json.MarshalIndent(m.pipeline, "", "  ")
	if err != nil {
		rows = append(rows, fmt.Sprintf("%v", m.pipeline))
	} else {
		rows = append(rows, string(b))
	}
	return strings.Join(rows, "\n")
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
