package tui

import (
	"context"
	"strings"
	"time"

	"opsdash-cli/internal/ansible"
	"opsdash-cli/internal/calendar"
	"opsdash-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Dashboard widget sizes match what the side panels can show without
// scrolling.
const (
	dashTicketLimit = 5
	dashTaskLimit   = 8
	kanbanTaskLimit = 200
)

func (m appModel) loadSessionCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Load(context.Background())
		return sessionDoneMsg{}
	}
}

func (m appModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.client.Login(context.Background(), email, password)
		if err != nil {
			return loginDoneMsg{err: err.Error()}
		}
		m.st.SetToken(token)
		return loginDoneMsg{}
	}
}

func (m appModel) enterDashboardCmds() tea.Cmd {
	return tea.Batch(m.fetchDashboardCmd(m.dashGen), m.tickDash(m.dashGen))
}

func (m appModel) tickDash(gen int) tea.Cmd {
	return tea.Tick(m.pollInterval(), func(time.Time) tea.Msg {
		return dashTickMsg{gen: gen}
	})
}

func (m appModel) fetchDashboardCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tickets, err := m.client.ListTickets(ctx, dashTicketLimit)
		if err != nil {
			return dashDataMsg{gen: gen, err: err.Error()}
		}
		tasks, err := m.client.ListTasksToday(ctx, dashTaskLimit)
		if err != nil {
			return dashDataMsg{gen: gen, err: err.Error()}
		}
		pipeline, err := m.client.PipelineStatus(ctx)
		if err != nil {
			return dashDataMsg{gen: gen, err: err.Error()}
		}
		return dashDataMsg{gen: gen, tickets: tickets, tasks: tasks, pipeline: pipeline}
	}
}

func (m appModel) loadCalendarCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.cal.LoadAll(context.Background()); err != nil {
			return calendarLoadedMsg{err: err.Error()}
		}
		return calendarLoadedMsg{}
	}
}

func (m appModel) deleteEventCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.cal.Delete(context.Background(), id); err != nil {
			return calendarOpMsg{err: err.Error()}
		}
		return calendarOpMsg{action: "event deleted"}
	}
}

func (m appModel) loadTasksCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.client.ListTasks(context.Background(), kanbanTaskLimit)
		if err != nil {
			return tasksLoadedMsg{err: err.Error()}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (m appModel) moveTaskCmd(id string, status model.TaskStatus) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.SetTaskStatus(context.Background(), id, status); err != nil {
			return taskMovedMsg{err: err.Error()}
		}
		return taskMovedMsg{}
	}
}

func (m appModel) loadUsersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		users, err := m.client.ListUsers(ctx, 200)
		if err != nil {
			return usersLoadedMsg{err: err.Error()}
		}
		groups, err := m.client.ListGroups(ctx)
		if err != nil {
			return usersLoadedMsg{err: err.Error()}
		}
		return usersLoadedMsg{users: users, groups: groups}
	}
}

func (m appModel) saveUserCmd() tea.Cmd {
	email := strings.TrimSpace(m.uEmail.Value())
	password := m.uPassword.Value()
	payload := map[string]any{
		"email":      email,
		"first_name": strings.TrimSpace(m.uFirst.Value()),
		"last_name":  strings.TrimSpace(m.uLast.Value()),
		"role":       strings.ToUpper(strings.TrimSpace(m.uRole.Value())),
		"is_active":  m.uActive,
	}
	if g := strings.TrimSpace(m.uGroup.Value()); g != "" {
		payload["group_id"] = g
	}
	id := m.editingUser

	return func() tea.Msg {
		ctx := context.Background()
		if id == "" {
			if email == "" || password == "" {
				return userOpMsg{err: "email and password are required"}
			}
			payload["password"] = password
			if _, err := m.client.CreateUser(ctx, payload); err != nil {
				return userOpMsg{err: err.Error()}
			}
			return userOpMsg{action: "user created"}
		}
		if _, err := m.client.UpdateUser(ctx, id, payload); err != nil {
			return userOpMsg{err: err.Error()}
		}
		return userOpMsg{action: "user updated"}
	}
}

func (m appModel) deleteUserCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.DeleteUser(context.Background(), id); err != nil {
			return userOpMsg{err: err.Error()}
		}
		return userOpMsg{action: "user deleted"}
	}
}

func (m appModel) loadServersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		metrics, err := m.client.ServerMetrics(ctx)
		if err != nil {
			return serversLoadedMsg{err: err.Error()}
		}
		targets, err := m.client.ListServers(ctx)
		if err != nil {
			return serversLoadedMsg{err: err.Error()}
		}
		return serversLoadedMsg{metrics: metrics, targets: targets}
	}
}

func (m appModel) fetchTargetMetricsCmd(id string) tea.Cmd {
	return func() tea.Msg {
		tm, err := m.client.ServerTargetMetrics(context.Background(), id)
		if err != nil {
			return targetMetricsMsg{id: id, err: err.Error()}
		}
		return targetMetricsMsg{id: id, metrics: tm}
	}
}

func (m appModel) analyzeCmd(path string, local bool) tea.Cmd {
	return func() tea.Msg {
		if local {
			res, err := ansible.Analyze(path)
			if err != nil {
				return ansibleDoneMsg{err: err.Error()}
			}
			return ansibleDoneMsg{analysis: res}
		}
		res, err := m.client.AnalyzeInventory(context.Background(), path)
		if err != nil {
			return ansibleDoneMsg{err: err.Error()}
		}
		if res == nil {
			return ansibleDoneMsg{err: "analysis returned no result"}
		}
		return ansibleDoneMsg{analysis: res}
	}
}

func (m appModel) saveProfileCmd() tea.Cmd {
	payload := map[string]any{
		"first_name": strings.TrimSpace(m.pFirst.Value()),
		"last_name":  strings.TrimSpace(m.pLast.Value()),
	}
	return func() tea.Msg {
		me, err := m.client.UpdateMe(context.Background(), payload)
		if err != nil {
			return profileSavedMsg{err: err.Error()}
		}
		return profileSavedMsg{me: me}
	}
}

// syncThemeCmd mirrors the local theme choice onto the server profile. A
// failure is ignored: the local preference already took effect and the server
// copy is cosmetic.
func (m appModel) syncThemeCmd(theme string) tea.Cmd {
	return func() tea.Msg {
		_, _ = m.client.UpdateMe(context.Background(), map[string]any{"theme": theme})
		return nil
	}
}

func (m appModel) requestVerifyCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.RequestEmailVerification(context.Background()); err != nil {
			return verifyRequestedMsg{err: err.Error()}
		}
		return verifyRequestedMsg{}
	}
}

// kanbanStatuses is the column order, left to right.
var kanbanStatuses = [3]model.TaskStatus{model.TaskTodo, model.TaskInProgress, model.TaskDone}

// kanbanColumns splits the loaded tasks into the three columns, preserving
// list order within each.
func (m appModel) kanbanColumns() [3][]model.Task {
	var cols [3][]model.Task
	for _, t := range m.tasks {
		for i, s := range kanbanStatuses {
			if t.Status == s {
				cols[i] = append(cols[i], t)
				break
			}
		}
	}
	return cols
}

// formatEventStamp keeps all-day events on bare dates when rescheduling; timed
// events carry the full local datetime.
func formatEventStamp(t time.Time, allDay bool) string {
	if allDay {
		return t.Format("2006-01-02")
	}
	return calendar.FormatEventTime(t)
}

// eventsOnDay returns the events whose start falls on the given local day,
// ordered as loaded. Events with unparsable starts never match.
func eventsOnDay(events []model.Event, day time.Time) []model.Event {
	y, mo, d := day.Date()
	var out []model.Event
	for _, ev := range events {
		t, ok := calendar.ParseEventTime(ev.Start)
		if !ok {
			continue
		}
		ey, em, ed := t.Date()
		if ey == y && em == mo && ed == d {
			out = append(out, ev)
		}
	}
	return out
}
