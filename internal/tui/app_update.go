package tui

import (
	"context"
	"strings"
	"time"

	"opsdash-cli/internal/calendar"
	"opsdash-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	if m.signedIn() {
		return tea.Batch(m.loadSessionCmd(), m.enterDashboardCmds())
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A strict 401 anywhere drops back to sign-in. The token is already gone;
	// only the view state needs to catch up.
	if m.sessionExpired() && m.view != viewLogin {
		m = m.goToLogin("session expired; sign in again")
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionDoneMsg:
		if id := m.session.Identity(); id != nil {
			m.cal.SetIdentity(id)
			if m.view == viewProfile {
				m.seedProfileInputs()
			}
		} else if !m.signedIn() && m.view != viewLogin {
			m = m.goToLogin(m.session.LastError())
		}
		return m, nil

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != "" {
			m.errText = msg.err
			return m, nil
		}
		m.errText = ""
		m.passwordInput.SetValue("")
		m.view = viewDashboard
		return m, tea.Batch(m.loadSessionCmd(), m.enterDashboardCmds())

	case dashTickMsg:
		// Stale generation: the dashboard was left or re-entered since this
		// tick was scheduled. Dropping it is what prevents timer pile-up.
		if msg.gen != m.dashGen || m.view != viewDashboard {
			return m, nil
		}
		return m, tea.Batch(m.fetchDashboardCmd(msg.gen), m.tickDash(msg.gen))

	case dashDataMsg:
		if msg.gen != m.dashGen {
			return m, nil
		}
		m.dashErr = msg.err
		if msg.err == "" {
			m.tickets = msg.tickets
			m.tasksToday = msg.tasks
			m.pipeline = msg.pipeline
		}
		return m, nil

	case calendarLoadedMsg:
		m.calErr = msg.err
		m.clampCalSelection()
		return m, nil

	case calendarOpMsg:
		if msg.err != "" {
			m.errText = msg.err
			return m, nil
		}
		m.errText = ""
		m.statusText = msg.action
		m.modal = modalNone
		return m, m.loadCalendarCmd()

	case tasksLoadedMsg:
		if msg.err != "" {
			m.errText = msg.err
			return m, nil
		}
		m.errText = ""
		m.tasks = msg.tasks
		m.clampKanbanSelection()
		return m, nil

	case taskMovedMsg:
		m.kanbanBusy = false
		if msg.err != "" {
			m.errText = msg.err
			return m, nil
		}
		m.errText = ""
		return m, m.loadTasksCmd()

	case usersLoadedMsg:
		m.adminErr = msg.err
		if msg.err == "" {
			m.users = msg.users
			m.groups = msg.groups
			if m.adminRow >= len(m.users) {
				m.adminRow = max(0, len(m.users)-1)
			}
		}
		return m, nil

	case userOpMsg:
		if msg.err != "" {
			m.errText = msg.err
			return m, nil
		}
		m.errText = ""
		m.statusText = msg.action
		m.modal = modalNone
		return m, m.loadUsersCmd()

	case serversLoadedMsg:
		m.serversErr = msg.err
		if msg.err == "" {
			m.metrics = msg.metrics
			m.targets = msg.targets
			if m.serverRow >= len(m.targets) {
				m.serverRow = max(0, len(m.targets)-1)
			}
		}
		return m, nil

	case targetMetricsMsg:
		if msg.err != "" {
			m.errText = msg.err
			return m, nil
		}
		m.errText = ""
		m.targetMetrics[msg.id] = msg.metrics
		return m, nil

	case ansibleDoneMsg:
		m.ansibleErr = msg.err
		if msg.err == "" {
			m.analysis = msg.analysis
		}
		return m, nil

	case profileSavedMsg:
		m.profileBusy = false
		if msg.err != "" {
			m.errText = msg.err
			return m, nil
		}
		m.errText = ""
		m.statusText = "profile saved"
		m.pFirst.Blur()
		m.pLast.Blur()
		return m, m.loadSessionCmd()

	case verifyRequestedMsg:
		if msg.err != "" {
			m.errText = msg.err
		} else {
			m.statusText = "verification email requested"
		}
		return m, nil
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != modalNone {
		return m.handleModalKey(msg)
	}

	if m.view == viewLogin {
		return m.handleLoginKey(msg)
	}

	// Inline text entry captures keys until blurred.
	if m.typingInline() {
		return m.handleInlineInputKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.modal = modalHelp
		return m, nil
	case "tab":
		return m.cycleView(1)
	case "shift+tab":
		return m.cycleView(-1)
	case "1", "2", "3", "4", "5", "6", "7":
		return m.switchView(tabOrder[int(msg.String()[0]-'1')])
	case "r":
		return m.refreshView()
	}

	switch m.view {
	case viewDashboard:
		return m, nil
	case viewKanban:
		return m.handleKanbanKey(msg)
	case viewCalendar:
		return m.handleCalendarKey(msg)
	case viewAdmin:
		return m.handleAdminKey(msg)
	case viewProfile:
		return m.handleProfileKey(msg)
	case viewServers:
		return m.handleServersKey(msg)
	case viewAnsible:
		return m.handleAnsibleKey(msg)
	}
	return m, nil
}

func (m appModel) typingInline() bool {
	switch m.view {
	case viewProfile:
		return m.pFirst.Focused() || m.pLast.Focused()
	case viewAnsible:
		return m.pathInput.Focused()
	}
	return false
}

func (m appModel) handleInlineInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewProfile:
		switch msg.String() {
		case "esc":
			m.pFirst.Blur()
			m.pLast.Blur()
			m.seedProfileInputs()
			return m, nil
		case "tab", "shift+tab":
			if m.pFirst.Focused() {
				m.pFirst.Blur()
				m.pLast.Focus()
			} else {
				m.pLast.Blur()
				m.pFirst.Focus()
			}
			return m, nil
		case "enter":
			m.profileBusy = true
			return m, m.saveProfileCmd()
		}
		var cmd tea.Cmd
		if m.pFirst.Focused() {
			m.pFirst, cmd = m.pFirst.Update(msg)
		} else {
			m.pLast, cmd = m.pLast.Update(msg)
		}
		return m, cmd

	case viewAnsible:
		switch msg.String() {
		case "esc":
			m.pathInput.Blur()
			return m, nil
		case "enter":
			m.pathInput.Blur()
			path := strings.TrimSpace(m.pathInput.Value())
			if path == "" {
				m.ansibleErr = "inventory path is required"
				return m, nil
			}
			m.ansibleErr = ""
			return m, m.analyzeCmd(path, m.localParse)
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.emailInput.Blur()
			m.passwordInput.Focus()
		} else {
			m.loginFocus = 0
			m.passwordInput.Blur()
			m.emailInput.Focus()
		}
		return m, nil
	case "enter":
		if m.loggingIn {
			return m, nil
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.errText = "email and password are required"
			return m, nil
		}
		m.loggingIn = true
		m.errText = ""
		return m, m.loginCmd(email, password)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) handleKanbanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.kanbanColumns()
	switch msg.String() {
	case "h", "left":
		if m.kanbanCol > 0 {
			m.kanbanCol--
			m.clampKanbanSelection()
		}
	case "l", "right":
		if m.kanbanCol < 2 {
			m.kanbanCol++
			m.clampKanbanSelection()
		}
	case "j", "down":
		if m.kanbanRow < len(cols[m.kanbanCol])-1 {
			m.kanbanRow++
		}
	case "k", "up":
		if m.kanbanRow > 0 {
			m.kanbanRow--
		}
	case "H", "shift+left":
		return m.moveSelectedTask(-1)
	case "L", "shift+right":
		return m.moveSelectedTask(1)
	}
	return m, nil
}

func (m appModel) moveSelectedTask(dir int) (tea.Model, tea.Cmd) {
	if m.kanbanBusy {
		return m, nil
	}
	cols := m.kanbanColumns()
	col := cols[m.kanbanCol]
	if m.kanbanRow >= len(col) {
		return m, nil
	}
	target := m.kanbanCol + dir
	if target < 0 || target > 2 {
		return m, nil
	}
	task := col[m.kanbanRow]
	status := kanbanStatuses[target]
	m.kanbanBusy = true
	m.kanbanCol = target
	m.kanbanRow = 0
	return m, m.moveTaskCmd(task.ID, status)
}

func (m appModel) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.calCursor = m.calCursor.AddDate(0, 0, -1)
		m.calSelIdx = 0
	case "l", "right":
		m.calCursor = m.calCursor.AddDate(0, 0, 1)
		m.calSelIdx = 0
	case "j", "down":
		m.calCursor = m.calCursor.AddDate(0, 0, 7)
		m.calSelIdx = 0
	case "k", "up":
		m.calCursor = m.calCursor.AddDate(0, 0, -7)
		m.calSelIdx = 0
	case "{":
		m.calCursor = m.calCursor.AddDate(0, -1, 0)
		m.calSelIdx = 0
	case "}":
		m.calCursor = m.calCursor.AddDate(0, 1, 0)
		m.calSelIdx = 0
	case "g":
		m.calCursor = time.Now()
		m.calSelIdx = 0
	case ".":
		day := m.dayEvents()
		if len(day) > 0 {
			m.calSelIdx = (m.calSelIdx + 1) % len(day)
		}
	case ",":
		day := m.dayEvents()
		if len(day) > 0 {
			m.calSelIdx = (m.calSelIdx - 1 + len(day)) % len(day)
		}
	case "c":
		m.openEventForm(calendar.Draft{
			Start:  m.calCursor.Format("2006-01-02T09:00"),
			AllDay: false,
		}, "")
		return m, nil
	case "enter", "e":
		if ev, ok := m.selectedEvent(); ok {
			if m.cal.StartEditing(ev.ID) {
				m.seedEventForm(m.cal.Draft())
				m.modal = modalEventForm
			}
		}
		return m, nil
	case "d", "x":
		if _, ok := m.selectedEvent(); ok {
			m.confirmFocus = confirmFocusCancel
			m.modal = modalConfirmDeleteEvent
		}
		return m, nil
	case ">":
		return m.nudgeSelectedEvent(24*time.Hour, false)
	case "<":
		return m.nudgeSelectedEvent(-24*time.Hour, false)
	case "+":
		return m.nudgeSelectedEvent(time.Hour, true)
	case "-":
		return m.nudgeSelectedEvent(-time.Hour, true)
	}
	return m, nil
}

// nudgeSelectedEvent is the keyboard version of dragging (resize=false) or
// stretching (resize=true) an event. The controller shows the new slot
// immediately and reverts it if the backend refuses.
func (m appModel) nudgeSelectedEvent(delta time.Duration, resize bool) (tea.Model, tea.Cmd) {
	ev, ok := m.selectedEvent()
	if !ok {
		return m, nil
	}
	start, ok := calendar.ParseEventTime(ev.Start)
	if !ok {
		m.errText = "event has an unparsable start time"
		return m, nil
	}

	var newStart string
	var newEnd *string
	if resize {
		newStart = ev.Start
		end := start.Add(time.Hour)
		if ev.End != nil {
			if e, ok := calendar.ParseEventTime(*ev.End); ok {
				end = e
			}
		}
		end = end.Add(delta)
		if !end.After(start) {
			m.errText = "event end must stay after its start"
			return m, nil
		}
		s := formatEventStamp(end, ev.AllDay)
		newEnd = &s
	} else {
		newStart = formatEventStamp(start.Add(delta), ev.AllDay)
		if ev.End != nil {
			if e, ok := calendar.ParseEventTime(*ev.End); ok {
				s := formatEventStamp(e.Add(delta), ev.AllDay)
				newEnd = &s
			}
		}
	}

	id := ev.ID
	allDay := ev.AllDay
	return m, func() tea.Msg {
		var err error
		if resize {
			err = m.cal.Resize(context.Background(), id, newStart, newEnd, allDay)
		} else {
			err = m.cal.DragReschedule(context.Background(), id, newStart, newEnd, allDay)
		}
		if err != nil {
			return calendarOpMsg{err: err.Error()}
		}
		return calendarOpMsg{action: "event rescheduled"}
	}
}

func (m appModel) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.adminRow < len(m.users)-1 {
			m.adminRow++
		}
	case "k", "up":
		if m.adminRow > 0 {
			m.adminRow--
		}
	case "c":
		m.openUserForm(nil)
	case "enter", "e":
		if m.adminRow < len(m.users) {
			u := m.users[m.adminRow]
			m.openUserForm(&u)
		}
	case "d", "x":
		if m.adminRow < len(m.users) {
			m.confirmFocus = confirmFocusCancel
			m.modal = modalConfirmDeleteUser
		}
	}
	return m, nil
}

func (m appModel) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.seedProfileInputs()
		m.pFirst.Focus()
		return m, nil
	case "t":
		next := "dark"
		if m.st.Theme() == "dark" {
			next = "bright"
		}
		m.st.SetTheme(next)
		applyThemePreference(next)
		m.statusText = "theme: " + next
		// The profile also carries the theme; sync it best-effort.
		return m, m.syncThemeCmd(next)
	case "v":
		return m, m.requestVerifyCmd()
	case "o":
		// Sign out locally. The server keeps no session state.
		m.st.SetToken("")
		m.session.Invalidate()
		m = m.goToLogin("signed out")
		return m, nil
	}
	return m, nil
}

func (m appModel) handleServersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.serverRow < len(m.targets)-1 {
			m.serverRow++
		}
	case "k", "up":
		if m.serverRow > 0 {
			m.serverRow--
		}
	case "enter":
		if m.serverRow < len(m.targets) {
			return m, m.fetchTargetMetricsCmd(m.targets[m.serverRow].ID)
		}
	}
	return m, nil
}

func (m appModel) handleAnsibleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e", "/":
		m.pathInput.Focus()
	case "L":
		m.localParse = !m.localParse
	}
	return m, nil
}

func (m appModel) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalHelp:
		m.modal = modalNone
		return m, nil

	case modalConfirmDeleteEvent:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.modal = modalNone
		case "tab", "shift+tab", "left", "right":
			m.confirmFocus = 1 - m.confirmFocus
		case "enter":
			m.modal = modalNone
			if m.confirmFocus == confirmFocusConfirm {
				if ev, ok := m.selectedEvent(); ok {
					return m, m.deleteEventCmd(ev.ID)
				}
			}
		}
		return m, nil

	case modalConfirmDeleteUser:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.modal = modalNone
		case "tab", "shift+tab", "left", "right":
			m.confirmFocus = 1 - m.confirmFocus
		case "enter":
			m.modal = modalNone
			if m.confirmFocus == confirmFocusConfirm && m.adminRow < len(m.users) {
				return m, m.deleteUserCmd(m.users[m.adminRow].ID)
			}
		}
		return m, nil

	case modalEventForm:
		return m.handleEventFormKey(msg)

	case modalUserForm:
		return m.handleUserFormKey(msg)
	}
	return m, nil
}

func (m appModel) handleEventFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.eventFormFields()
	// The group field disappears when the capability is revoked mid-form, so
	// the focus index can point past the end of the list.
	if m.evFocus >= len(fields) {
		m.evFocus = len(fields) - 1
	}
	switch msg.String() {
	case "esc", "ctrl+g":
		m.cal.Cancel()
		m.modal = modalNone
		return m, nil
	case "tab", "down":
		m.evFocus = (m.evFocus + 1) % len(fields)
		m.focusEventField(fields)
		return m, nil
	case "shift+tab", "up":
		m.evFocus = (m.evFocus - 1 + len(fields)) % len(fields)
		m.focusEventField(fields)
		return m, nil
	case "ctrl+a":
		m.evAllDay = !m.evAllDay
		return m, nil
	case "enter":
		d := calendar.Draft{
			Title:       strings.TrimSpace(m.evTitle.Value()),
			Start:       strings.TrimSpace(m.evStart.Value()),
			End:         strings.TrimSpace(m.evEnd.Value()),
			AllDay:      m.evAllDay,
			Description: m.evDesc.Value(),
			GroupID:     strings.TrimSpace(m.evGroup.Value()),
		}
		editing := m.cal.Mode() == calendar.Editing
		id := m.cal.SelectedID()
		return m, func() tea.Msg {
			var err error
			if editing {
				_, err = m.cal.Update(context.Background(), id, d)
			} else {
				_, err = m.cal.Create(context.Background(), d)
			}
			if err != nil {
				return calendarOpMsg{err: err.Error()}
			}
			if editing {
				return calendarOpMsg{action: "event updated"}
			}
			return calendarOpMsg{action: "event created"}
		}
	}

	var cmd tea.Cmd
	switch fields[m.evFocus] {
	case &m.evTitle:
		m.evTitle, cmd = m.evTitle.Update(msg)
	case &m.evStart:
		m.evStart, cmd = m.evStart.Update(msg)
	case &m.evEnd:
		m.evEnd, cmd = m.evEnd.Update(msg)
	case &m.evDesc:
		m.evDesc, cmd = m.evDesc.Update(msg)
	case &m.evGroup:
		m.evGroup, cmd = m.evGroup.Update(msg)
	}
	return m, cmd
}

func (m *appModel) eventFormFields() []*textinput.Model {
	fields := []*textinput.Model{&m.evTitle, &m.evStart, &m.evEnd, &m.evDesc}
	if m.cal.CanPickGroup() {
		fields = append(fields, &m.evGroup)
	}
	return fields
}

func (m *appModel) focusEventField(fields []*textinput.Model) {
	for i, f := range fields {
		if i == m.evFocus {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

func (m appModel) handleUserFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.userFormFields()
	switch msg.String() {
	case "esc", "ctrl+g":
		m.modal = modalNone
		return m, nil
	case "tab", "down":
		m.uFocus = (m.uFocus + 1) % len(fields)
		m.focusUserField(fields)
		return m, nil
	case "shift+tab", "up":
		m.uFocus = (m.uFocus - 1 + len(fields)) % len(fields)
		m.focusUserField(fields)
		return m, nil
	case "ctrl+a":
		m.uActive = !m.uActive
		return m, nil
	case "enter":
		return m, m.saveUserCmd()
	}

	var cmd tea.Cmd
	f := fields[m.uFocus]
	*f, cmd = f.Update(msg)
	return m, cmd
}

func (m *appModel) userFormFields() []*textinput.Model {
	fields := []*textinput.Model{&m.uEmail}
	if m.editingUser == "" {
		fields = append(fields, &m.uPassword)
	}
	return append(fields, &m.uFirst, &m.uLast, &m.uRole, &m.uGroup)
}

func (m *appModel) focusUserField(fields []*textinput.Model) {
	for i, f := range fields {
		if i == m.uFocus {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

func (m appModel) cycleView(dir int) (tea.Model, tea.Cmd) {
	cur := 0
	for i, v := range tabOrder {
		if v == m.view {
			cur = i
			break
		}
	}
	next := tabOrder[(cur+dir+len(tabOrder))%len(tabOrder)]
	return m.switchView(next)
}

func (m appModel) switchView(v view) (tea.Model, tea.Cmd) {
	if v == m.view {
		return m, nil
	}
	// Invalidate any in-flight dashboard poll.
	m.dashGen++
	m.view = v
	m.errText = ""
	m.statusText = ""

	switch v {
	case viewDashboard:
		return m, m.enterDashboardCmds()
	case viewKanban:
		return m, m.loadTasksCmd()
	case viewCalendar:
		return m, m.loadCalendarCmd()
	case viewAdmin:
		return m, m.loadUsersCmd()
	case viewProfile:
		m.seedProfileInputs()
		return m, nil
	case viewServers:
		return m, m.loadServersCmd()
	}
	return m, nil
}

func (m appModel) refreshView() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewDashboard:
		return m, m.fetchDashboardCmd(m.dashGen)
	case viewKanban:
		return m, m.loadTasksCmd()
	case viewCalendar:
		return m, m.loadCalendarCmd()
	case viewAdmin:
		return m, m.loadUsersCmd()
	case viewServers:
		return m, m.loadServersCmd()
	}
	return m, nil
}

func (m appModel) goToLogin(notice string) appModel {
	m.view = viewLogin
	m.modal = modalNone
	m.errText = notice
	m.loggingIn = false
	m.loginFocus = 0
	m.passwordInput.SetValue("")
	m.passwordInput.Blur()
	m.emailInput.Focus()
	m.session.Invalidate()
	return m
}

func (m *appModel) openEventForm(d calendar.Draft, _ string) {
	m.cal.StartCreating(d)
	m.seedEventForm(d)
	m.modal = modalEventForm
}

func (m *appModel) seedEventForm(d calendar.Draft) {
	m.evTitle.SetValue(d.Title)
	m.evStart.SetValue(d.Start)
	m.evEnd.SetValue(d.End)
	m.evDesc.SetValue(d.Description)
	m.evGroup.SetValue(d.GroupID)
	m.evAllDay = d.AllDay
	m.evFocus = 0
	m.focusEventField(m.eventFormFields())
}

func (m *appModel) openUserForm(u *model.User) {
	if u == nil {
		m.editingUser = ""
		m.uEmail.SetValue("")
		m.uPassword.SetValue("")
		m.uFirst.SetValue("")
		m.uLast.SetValue("")
		m.uRole.SetValue(string(model.RoleUser))
		m.uGroup.SetValue("")
		m.uActive = true
	} else {
		m.editingUser = u.ID
		m.uEmail.SetValue(u.Email)
		m.uPassword.SetValue("")
		m.uFirst.SetValue(u.FirstName)
		m.uLast.SetValue(u.LastName)
		m.uRole.SetValue(string(u.Role))
		if u.GroupID != nil {
			m.uGroup.SetValue(*u.GroupID)
		} else {
			m.uGroup.SetValue("")
		}
		m.uActive = u.IsActive
	}
	m.uFocus = 0
	m.focusUserField(m.userFormFields())
	m.modal = modalUserForm
}

func (m *appModel) seedProfileInputs() {
	if id := m.session.Identity(); id != nil {
		m.pFirst.SetValue(id.FirstName)
		m.pLast.SetValue(id.LastName)
	}
}

func (m *appModel) clampCalSelection() {
	if n := len(m.dayEvents()); m.calSelIdx >= n {
		m.calSelIdx = max(0, n-1)
	}
}

func (m *appModel) clampKanbanSelection() {
	cols := m.kanbanColumns()
	if m.kanbanRow >= len(cols[m.kanbanCol]) {
		m.kanbanRow = max(0, len(cols[m.kanbanCol])-1)
	}
}

func (m appModel) dayEvents() []model.Event {
	return eventsOnDay(m.cal.Visible(), m.calCursor)
}

func (m appModel) selectedEvent() (model.Event, bool) {
	day := m.dayEvents()
	if len(day) == 0 || m.calSelIdx >= len(day) {
		return model.Event{}, false
	}
	return day[m.calSelIdx], true
}
