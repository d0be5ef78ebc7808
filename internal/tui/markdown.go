package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with
	// WithAutoStyle can trigger terminal capability/background queries that may
	// block on some terminals; a fixed style plus caching keeps the help
	// overlay instant.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			// Avoid WithAutoStyle(): it can block waiting on terminal queries.
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		// Re-check in case a concurrent goroutine filled it.
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle keeps the help overlay aligned with the TUI palette.
func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func (m appModel) helpText() string {
	common := `## Everywhere

- **tab / shift+tab** cycle views, **1..7** jump
- **r** refresh the current view
- **q / ctrl+c** quit
`
	switch m.view {
	case viewKanban:
		return common + `
## Kanban

- **h/l, j/k** move the selection
- **H / L** move the selected task one column left/right
`
	case viewCalendar:
		return common + `
## Calendar

- **h/l j/k** move by day/week, **{ }** by month, **g** today
- **, .** pick among the day's events
- **c** new event, **enter** edit, **d** delete
- **< >** shift the selected event a day; **+ -** stretch or shrink it an hour

Moves show instantly and roll back if the backend refuses them.
`
	case viewAdmin:
		return common + `
## Admin

- **j/k** select a user
- **c** create, **enter** edit, **d** delete
`
	case viewProfile:
		return common + `
## Profile

- **e** edit names, **t** toggle theme, **v** request a verification email
- **o** sign out
`
	case viewServers:
		return common + `
## Servers

- **j/k** select a managed target
- **enter** fetch that target's metrics over the backend
`
	case viewAnsible:
		return common + `
## Ansible

- **e** edit the inventory path, **enter** analyze
- **L** toggle local parsing (no backend round-trip)
`
	}
	return common + `
## Dashboard

Alerts, today's tasks and the CI pipeline refresh automatically every few
seconds while this view is visible.
`
}
