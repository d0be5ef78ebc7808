package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) renderAdmin() string {
	if m.adminErr != "" {
		return styleError().Render(m.adminErr) + "\n" +
			styleMuted().Render("user administration needs the ADMIN role")
	}

	rows := []string{styleHeading().Render("Users"), ""}
	if len(m.users) == 0 {
		rows = append(rows, styleMuted().Render("no users loaded"))
	}

	for i, u := range m.users {
		role := styleMuted().Render(string(u.Role))
		state := ""
		if !u.IsActive {
			state = styleError().Render(" disabled")
		}
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name != "" {
			name = "  " + name
		}
		line := u.Email + name + "  " + role + state
		if i == m.adminRow {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render(truncLine(line, m.width-2))
		}
		rows = append(rows, truncLine(line, m.width-2))
	}

	rows = append(rows, "",
		styleMuted().Render("j/k: select   c: create   enter: edit   d: delete   r: refresh"))
	if len(m.groups) > 0 {
		var names []string
		for _, g := range m.groups {
			names = append(names, g.Name+" ("+g.ID+")")
		}
		rows = append(rows, "",
			styleMuted().Render("groups: "+strings.Join(names, ", ")))
	}
	return strings.Join(rows, "\n")
}
