package tui

import (
	"opsdash-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(st *store.Store, cfg *store.GlobalConfig, baseURL string) error {
	applyColorProfilePreference()
	applyThemePreference(st.Theme())

	m := newAppModel(st, cfg, baseURL)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
