package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and, if
// height > 0, exactly height lines tall. This keeps lipgloss.JoinHorizontal
// stable when panes hold content of uneven width.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		lines[i] = truncLine(lines[i], width)
	}

	return strings.Join(lines, "\n")
}

// truncLine cuts a line to width columns (ellipsis when cut) and pads short
// lines with spaces.
func truncLine(ln string, width int) string {
	if width <= 0 {
		return ""
	}

	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			ln = xansi.Cut(ln, 0, 1)
		} else {
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln = ln + strings.Repeat(" ", width-w)
	}
	return ln
}
