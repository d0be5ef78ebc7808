package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "loading…"
	}

	if m.view == viewLogin {
		return m.renderLogin()
	}

	var body string
	switch m.view {
	case viewDashboard:
		body = m.renderDashboard()
	case viewKanban:
		body = m.renderKanban()
	case viewCalendar:
		body = m.renderCalendar()
	case viewAdmin:
		body = m.renderAdmin()
	case viewProfile:
		body = m.renderProfile()
	case viewServers:
		body = m.renderServers()
	case viewAnsible:
		body = m.renderAnsible()
	}

	frame := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		body,
	)

	// Pin the footer to the last line.
	bodyH := m.height - 1
	frame = normalizePane(frame, m.width, bodyH)
	screen := lipgloss.JoinVertical(lipgloss.Left, frame, m.renderFooter())

	if m.modal != modalNone {
		return overlayCentered(m.width, m.height, m.renderModal())
	}
	return screen
}

func (m appModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(colorSelectedFg).
		Background(colorSelectedBg)
	inactive := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorChromeMutedFg)

	var tabs []string
	for i, v := range tabOrder {
		label := viewTitle(v)
		if i < 9 {
			label = string(rune('1'+i)) + " " + label
		}
		if v == m.view {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}

	name := ""
	if id := m.session.Identity(); id != nil {
		name = strings.TrimSpace(id.FullName())
	}
	right := styleMuted().Render(name)

	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(right) - 1
	if gap < 1 {
		return truncLine(bar, m.width)
	}
	return bar + strings.Repeat(" ", gap) + right
}

func (m appModel) renderFooter() string {
	if m.errText != "" {
		return truncLine(styleError().Render(m.errText), m.width)
	}
	left := m.statusText
	help := "tab: next view   r: refresh   ?: help   q: quit"
	if left == "" {
		return truncLine(styleMuted().Render(help), m.width)
	}
	return truncLine(styleOK().Render(left)+"  "+styleMuted().Render(help), m.width)
}

func (m appModel) renderLogin() string {
	title := styleHeading().Render("opsdash")
	sub := styleMuted().Render("sign in to the operations backend")

	rows := []string{
		title,
		sub,
		"",
		formField("Email", m.emailInput.View(), m.loginFocus == 0),
		formField("Password", m.passwordInput.View(), m.loginFocus == 1),
		"",
	}
	if m.loggingIn {
		rows = append(rows, styleMuted().Render("signing in…"))
	} else {
		rows = append(rows, styleMuted().Render("enter: sign in   tab: switch field   ctrl+c: quit"))
	}
	if m.errText != "" {
		rows = append(rows, "", styleError().Render(m.errText))
	}

	card := lipgloss.NewStyle().
		Padding(1, 3).
		Render(strings.Join(rows, "\n"))
	return overlayCentered(m.width, m.height, card)
}

func (m appModel) renderModal() string {
	switch m.modal {
	case modalHelp:
		return renderModalBox(m.width, "Keys", renderMarkdown(m.helpText(), modalBodyWidth(m.width)))

	case modalConfirmDeleteEvent:
		title := ""
		if ev, ok := m.selectedEvent(); ok {
			title = ev.Title
		}
		return renderConfirmModal(m.width, "Delete event",
			"Delete \""+title+"\"? This cannot be undone.",
			"Delete", "Cancel", m.confirmFocus)

	case modalConfirmDeleteUser:
		email := ""
		if m.adminRow < len(m.users) {
			email = m.users[m.adminRow].Email
		}
		return renderConfirmModal(m.width, "Delete user",
			"Delete "+email+"? This cannot be undone.",
			"Delete", "Cancel", m.confirmFocus)

	case modalEventForm:
		return m.renderEventForm()

	case modalUserForm:
		return m.renderUserForm()
	}
	return ""
}

func (m appModel) renderEventForm() string {
	title := "New event"
	if m.cal.SelectedID() != "" {
		title = "Edit event"
	}

	rows := []string{
		formField("Title", m.evTitle.View(), m.evFocus == 0),
		formField("Start", m.evStart.View(), m.evFocus == 1),
		formField("End", m.evEnd.View(), m.evFocus == 2),
		formField("Description", m.evDesc.View(), m.evFocus == 3),
	}
	if m.cal.CanPickGroup() {
		rows = append(rows, formField("Group", m.evGroup.View(), m.evFocus == 4))
	}
	rows = append(rows,
		"",
		checkbox("all-day (ctrl+a)", m.evAllDay, false),
		"",
		styleMuted().Render("enter: save   tab: next field   esc: cancel"),
	)
	if m.cal.Busy() {
		rows = append(rows, styleMuted().Render("saving…"))
	}
	if m.errText != "" {
		rows = append(rows, styleError().Render(m.errText))
	}
	return renderModalBox(m.width, title, strings.Join(rows, "\n"))
}

func (m appModel) renderUserForm() string {
	title := "New user"
	if m.editingUser != "" {
		title = "Edit user"
	}

	i := 0
	field := func(label, view string) string {
		s := formField(label, view, m.uFocus == i)
		i++
		return s
	}

	rows := []string{field("Email", m.uEmail.View())}
	if m.editingUser == "" {
		rows = append(rows, field("Password", m.uPassword.View()))
	}
	rows = append(rows,
		field("First name", m.uFirst.View()),
		field("Last name", m.uLast.View()),
		field("Role", m.uRole.View()),
		field("Group", m.uGroup.View()),
		"",
		checkbox("active (ctrl+a)", m.uActive, false),
		"",
		styleMuted().Render("enter: save   tab: next field   esc: cancel"),
	)
	if m.errText != "" {
		rows = append(rows, styleError().Render(m.errText))
	}
	return renderModalBox(m.width, title, strings.Join(rows, "\n"))
}
