package tui

import (
	"sync/atomic"
	"time"

	"opsdash-cli/internal/api"
	"opsdash-cli/internal/calendar"
	"opsdash-cli/internal/model"
	"opsdash-cli/internal/session"
	"opsdash-cli/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
)

type appModel struct {
	st      *store.Store
	cfg     *store.GlobalConfig
	client  *api.Client
	session *session.Resolver
	cal     *calendar.Controller

	// expired is flipped by the client's logout hook when a strict 401 clears
	// the token mid-flight. The next Update drops the UI back to the sign-in
	// view. Shared pointer because tea copies the model by value.
	expired *atomic.Bool

	width          int
	height         int
	seenWindowSize bool

	view  view
	modal modalKind

	// statusText is a transient one-line notice rendered in the footer.
	statusText string
	errText    string

	// login
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loggingIn     bool

	// dashboard
	dashGen    int
	tickets    []model.Ticket
	tasksToday []model.Task
	pipeline   any
	dashErr    string

	// kanban
	tasks      []model.Task
	kanbanCol  int
	kanbanRow  int
	kanbanBusy bool

	// calendar
	calCursor    time.Time
	calSelIdx    int
	calErr       string
	evTitle      textinput.Model
	evStart      textinput.Model
	evEnd        textinput.Model
	evDesc       textinput.Model
	evGroup      textinput.Model
	evAllDay     bool
	evFocus      int
	confirmFocus confirmModalFocus

	// admin
	users        []model.User
	groups       []model.Group
	adminRow     int
	adminErr     string
	editingUser  string // id; empty while creating
	uEmail       textinput.Model
	uPassword    textinput.Model
	uFirst       textinput.Model
	uLast        textinput.Model
	uRole        textinput.Model
	uGroup       textinput.Model
	uActive      bool
	uFocus       int

	// profile
	pFirst       textinput.Model
	pLast        textinput.Model
	profileFocus int
	profileBusy  bool

	// servers
	metrics       *model.Metrics
	targets       []model.ServerTarget
	serverRow     int
	serversErr    string
	targetMetrics map[string]*model.RemoteMetrics

	// ansible
	pathInput  textinput.Model
	localParse bool
	analysis   *model.InventoryAnalysis
	ansibleErr string
}

func newAppModel(st *store.Store, cfg *store.GlobalConfig, baseURL string) appModel {
	base := baseURL
	if base == "" {
		base = cfg.BaseURL
	}

	expired := &atomic.Bool{}

	policy := api.UnauthorizedRedirect
	if st.Debug() || cfg.OnUnauthorized == "propagate" {
		policy = api.UnauthorizedPropagate
	}

	client := api.New(base, st,
		api.WithUnauthorizedPolicy(policy),
		api.WithLogoutHook(func() { expired.Store(true) }),
	)

	m := appModel{
		st:      st,
		cfg:     cfg,
		client:  client,
		session: session.NewResolver(client, st),
		cal:     calendar.NewController(client),
		expired: expired,

		view:          viewLogin,
		calCursor:     time.Now(),
		targetMetrics: map[string]*model.RemoteMetrics{},
	}

	if _, ok := st.Token(); ok {
		m.view = viewDashboard
	}

	m.emailInput = newInput("Email", 64, 40)
	m.passwordInput = newInput("Password", 64, 40)
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.emailInput.Focus()

	m.evTitle = newInput("Title", 200, 40)
	m.evStart = newInput("YYYY-MM-DD[THH:MM]", 32, 24)
	m.evEnd = newInput("YYYY-MM-DD[THH:MM]", 32, 24)
	m.evDesc = newInput("Description", 500, 40)
	m.evGroup = newInput("Group id", 64, 24)

	m.uEmail = newInput("Email", 64, 32)
	m.uPassword = newInput("Password", 64, 32)
	m.uPassword.EchoMode = textinput.EchoPassword
	m.uFirst = newInput("First name", 64, 32)
	m.uLast = newInput("Last name", 64, 32)
	m.uRole = newInput("ADMIN|MODERATOR|USER", 16, 24)
	m.uGroup = newInput("Group id", 64, 32)
	m.uActive = true

	m.pFirst = newInput("First name", 64, 32)
	m.pLast = newInput("Last name", 64, 32)

	m.pathInput = newInput("/path/to/inventory.yml", 300, 48)

	return m
}

func newInput(placeholder string, charLimit, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = charLimit
	in.Width = width
	return in
}

// pollInterval is how often the dashboard refreshes while visible.
func (m appModel) pollInterval() time.Duration {
	if m.cfg != nil && m.cfg.PollSeconds > 0 {
		return time.Duration(m.cfg.PollSeconds) * time.Second
	}
	return 5 * time.Second
}

// sessionExpired reports and clears the strict-401 flag.
func (m appModel) sessionExpired() bool {
	return m.expired.Swap(false)
}

func (m appModel) signedIn() bool {
	_, ok := m.st.Token()
	return ok
}
