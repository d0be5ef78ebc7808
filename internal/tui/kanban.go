package tui

import (
	"fmt"
	"strings"

	"opsdash-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var kanbanTitles = [3]string{"To do", "In progress", "Done"}

func (m appModel) renderKanban() string {
	cols := m.kanbanColumns()
	colW := (m.width - 4) / 3
	if colW < 20 {
		colW = 20
	}
	colH := m.height - 4

	var rendered [3]string
	for i := range cols {
		rendered[i] = normalizePane(m.renderKanbanColumn(i, cols[i], colW), colW, colH)
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top,
		rendered[0], " ", rendered[1], " ", rendered[2])
	hint := styleMuted().Render("h/l: column   j/k: row   H/L: move task   r: refresh")
	return lipgloss.JoinVertical(lipgloss.Left, board, hint)
}

func (m appModel) renderKanbanColumn(idx int, tasks []model.Task, w int) string {
	header := styleHeading().Render(fmt.Sprintf("%s (%d)", kanbanTitles[idx], len(tasks)))
	if idx == m.kanbanCol {
		header = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).
			Render(fmt.Sprintf("%s (%d)", kanbanTitles[idx], len(tasks)))
	}

	rows := []string{header, ""}
	if len(tasks) == 0 {
		rows = append(rows, styleMuted().Render("empty"))
	}
	for i, t := range tasks {
		line := kanbanCard(t, w)
		if idx == m.kanbanCol && i == m.kanbanRow {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render(truncLine(line, w))
		}
		rows = append(rows, truncLine(line, w))
	}
	return strings.Join(rows, "\n")
}

func kanbanCard(t model.Task, w int) string {
	pri := lipgloss.NewStyle().
		Foreground(severityColor(t.Priority)).
		Render(string(t.Priority))
	line := pri + " " + t.Title
	if t.DueAt != nil && *t.DueAt != "" {
		line += styleMuted().Render(" due " + *t.DueAt)
	}
	return truncLine(line, w)
}
