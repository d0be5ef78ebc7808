package tui

import (
	"opsdash-cli/internal/model"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewKanban
	viewCalendar
	viewAdmin
	viewProfile
	viewServers
	viewAnsible
)

func viewTitle(v view) string {
	switch v {
	case viewLogin:
		return "Sign in"
	case viewDashboard:
		return "Dashboard"
	case viewKanban:
		return "Kanban"
	case viewCalendar:
		return "Calendar"
	case viewAdmin:
		return "Admin"
	case viewProfile:
		return "Profile"
	case viewServers:
		return "Servers"
	case viewAnsible:
		return "Ansible"
	}
	return "?"
}

// tabOrder is the cycle used by tab/shift+tab once signed in. Admin is always
// listed; the backend rejects the calls for non-admins and the view renders
// the failure.
var tabOrder = []view{
	viewDashboard,
	viewKanban,
	viewCalendar,
	viewAdmin,
	viewProfile,
	viewServers,
	viewAnsible,
}

type modalKind int

const (
	modalNone modalKind = iota
	modalEventForm
	modalConfirmDeleteEvent
	modalUserForm
	modalConfirmDeleteUser
	modalHelp
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// sessionDoneMsg fires when the identity resolver settles (either way).
type sessionDoneMsg struct{}

// dashTickMsg drives the dashboard poll loop. Ticks carry the generation they
// were scheduled under; a stale generation means the view was left (or
// re-entered) and the tick must not fetch or reschedule, otherwise timers
// stack up.
type dashTickMsg struct{ gen int }

type dashDataMsg struct {
	gen      int
	tickets  []model.Ticket
	tasks    []model.Task
	pipeline any
	err      string
}

type calendarLoadedMsg struct{ err string }

// calendarOpMsg reports a mutation (create/update/delete/move/resize).
type calendarOpMsg struct {
	err    string
	action string
}

type tasksLoadedMsg struct {
	tasks []model.Task
	err   string
}

type taskMovedMsg struct{ err string }

type usersLoadedMsg struct {
	users  []model.User
	groups []model.Group
	err    string
}

type userOpMsg struct {
	err    string
	action string
}

type serversLoadedMsg struct {
	metrics *model.Metrics
	targets []model.ServerTarget
	err     string
}

type targetMetricsMsg struct {
	id      string
	metrics *model.RemoteMetrics
	err     string
}

type ansibleDoneMsg struct {
	analysis *model.InventoryAnalysis
	err      string
}

type loginDoneMsg struct{ err string }

type profileSavedMsg struct {
	me  *model.Identity
	err string
}

type verifyRequestedMsg struct{ err string }
