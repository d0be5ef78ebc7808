package tui

import (
	"testing"

	"opsdash-cli/internal/model"
	"opsdash-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel(t *testing.T, token string) appModel {
	t.Helper()
	st := store.Open(t.TempDir())
	t.Cleanup(func() { st.Close() })
	if token != "" {
		st.SetToken(token)
	}
	return newAppModel(st, &store.GlobalConfig{}, "http://127.0.0.1:1")
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartsOnLoginWithoutToken(t *testing.T) {
	m := testModel(t, "")
	if m.view != viewLogin {
		t.Fatalf("view = %v, want login", m.view)
	}
}

func TestStartsOnDashboardWithToken(t *testing.T) {
	m := testModel(t, "tok-1")
	if m.view != viewDashboard {
		t.Fatalf("view = %v, want dashboard", m.view)
	}
}

func TestTabCyclesViews(t *testing.T) {
	m := testModel(t, "tok-1")

	next, _ := m.Update(keyMsg("tab"))
	m = next.(appModel)
	if m.view != viewKanban {
		t.Fatalf("after tab: view = %v, want kanban", m.view)
	}

	next, _ = m.Update(keyMsg("shift+tab"))
	m = next.(appModel)
	if m.view != viewDashboard {
		t.Fatalf("after shift+tab: view = %v, want dashboard", m.view)
	}
}

func TestNumberKeyJumpsToView(t *testing.T) {
	m := testModel(t, "tok-1")
	next, _ := m.Update(keyMsg("3"))
	m = next.(appModel)
	if m.view != viewCalendar {
		t.Fatalf("view = %v, want calendar", m.view)
	}
}

func TestStaleDashboardTickIsDropped(t *testing.T) {
	m := testModel(t, "tok-1")
	// Leaving the dashboard bumps the generation; the old tick must neither
	// fetch nor reschedule.
	next, _ := m.Update(keyMsg("tab"))
	m = next.(appModel)

	_, cmd := m.Update(dashTickMsg{gen: 0})
	if cmd != nil {
		t.Fatalf("stale tick produced a command")
	}
}

func TestStaleDashboardDataIsDropped(t *testing.T) {
	m := testModel(t, "tok-1")
	m.dashGen = 2
	m.tickets = []model.Ticket{{ID: "t-1", Title: "keep me"}}

	next, _ := m.Update(dashDataMsg{
		gen:     1,
		tickets: []model.Ticket{{ID: "t-9", Title: "stale"}},
	})
	m = next.(appModel)

	if len(m.tickets) != 1 || m.tickets[0].ID != "t-1" {
		t.Fatalf("stale dashboard data overwrote state: %+v", m.tickets)
	}
}

func TestCurrentDashboardDataApplies(t *testing.T) {
	m := testModel(t, "tok-1")
	next, _ := m.Update(dashDataMsg{
		gen:     0,
		tickets: []model.Ticket{{ID: "t-1", Severity: model.SeverityP0}},
		tasks:   []model.Task{{ID: "task-1", Status: model.TaskTodo}},
	})
	m = next.(appModel)

	if len(m.tickets) != 1 || len(m.tasksToday) != 1 {
		t.Fatalf("fresh dashboard data not applied: %d tickets, %d tasks",
			len(m.tickets), len(m.tasksToday))
	}
}

func TestExpiredSessionDropsToLogin(t *testing.T) {
	m := testModel(t, "tok-1")
	m.expired.Store(true)

	next, _ := m.Update(dashTickMsg{gen: 0})
	m = next.(appModel)

	if m.view != viewLogin {
		t.Fatalf("view = %v, want login after expiry", m.view)
	}
	if m.errText == "" {
		t.Fatalf("expected a notice explaining the redirect")
	}
}

func TestSignOutClearsTokenAndReturnsToLogin(t *testing.T) {
	m := testModel(t, "tok-1")
	next, _ := m.Update(keyMsg("5")) // profile
	m = next.(appModel)

	next, _ = m.Update(keyMsg("o"))
	m = next.(appModel)

	if m.view != viewLogin {
		t.Fatalf("view = %v, want login", m.view)
	}
	if _, ok := m.st.Token(); ok {
		t.Fatalf("token survived sign-out")
	}
}

func TestEventFormFocusSurvivesFieldListShrink(t *testing.T) {
	m := testModel(t, "tok-1")
	m.view = viewCalendar
	m.modal = modalEventForm
	// Focus sat on the group field before the capability went away; the
	// controller now reports four fields, not five.
	m.evFocus = 4

	next, _ := m.Update(keyMsg("x"))
	m = next.(appModel)

	if m.evFocus != 3 {
		t.Fatalf("evFocus = %d, want clamp to last field", m.evFocus)
	}
}

func TestLoginValidationBeforeNetwork(t *testing.T) {
	m := testModel(t, "")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(appModel)

	if cmd != nil {
		t.Fatalf("empty credentials should not produce a login command")
	}
	if m.errText == "" {
		t.Fatalf("expected a validation message")
	}
}
