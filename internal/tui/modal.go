package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func modalWidth(screenW int) int {
	w := screenW - 8
	if w > 64 {
		w = 64
	}
	if w < 30 {
		w = 30
	}
	return w
}

func modalBodyWidth(screenW int) int {
	return modalWidth(screenW) - 4
}

// renderModalBox draws a titled box with the modal surface colors. No border:
// nested bordered components inside a background-colored modal leave artifacts
// on some terminals.
func renderModalBox(screenW int, title, content string) string {
	w := modalWidth(screenW)

	header := lipgloss.NewStyle().
		Width(w).
		Padding(0, 2).
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Render(title)

	body := lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Foreground(colorModalSurfaceFg).
		Background(colorModalSurfaceBg).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func renderConfirmModal(screenW int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorModalSurfaceBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(screenW)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc/ctrl+g: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(screenW, title, content)
}

// overlayCentered places the modal over a dimmed backdrop.
func overlayCentered(screenW, screenH int, modal string) string {
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, modal)
}

// formField renders a labeled input row; the label lights up for the focused
// field.
func formField(label, rendered string, focused bool) string {
	st := styleMuted().Width(12)
	if focused {
		st = lipgloss.NewStyle().Width(12).Bold(true).Foreground(colorAccent)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, st.Render(label), rendered)
}

func checkbox(label string, on, focused bool) string {
	box := "[ ] "
	if on {
		box = "[x] "
	}
	st := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if focused {
		st = st.Bold(true).Foreground(colorAccent)
	}
	return st.Render(box + label)
}
