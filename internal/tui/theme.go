package tui

import (
	"os"
	"strconv"
	"strings"

	"opsdash-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// Common semantic colors used across the TUI.
var (
	colorMuted lipgloss.TerminalColor = ac("240", "243")

	// Used for headings/tab bars and other secondary chrome.
	colorChromeMutedFg lipgloss.TerminalColor = ac("240", "245")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")

	// Slightly elevated surface for controls/inputs so they remain visible on
	// light terminals.
	colorControlBg lipgloss.TerminalColor = ac("252", "235")
	colorInputBg   lipgloss.TerminalColor = ac("254", "234")

	colorAccent   lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccentFg lipgloss.TerminalColor = ac("255", "235")

	colorError lipgloss.TerminalColor = ac("160", "203")
	colorOK    lipgloss.TerminalColor = ac("28", "42")
	colorWarn  lipgloss.TerminalColor = ac("130", "214")

	// Modal colors track the surface.
	colorModalSurfaceBg = colorSurfaceBg
	colorModalSurfaceFg = colorSurfaceFg
	colorModalHeaderBg  = colorControlBg
	colorModalHeaderFg  = colorSurfaceFg
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleOK() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorOK)
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

// severityColor maps ticket severities to a stable palette. P0 must read as
// "on fire" on both backgrounds.
func severityColor(s model.Severity) lipgloss.TerminalColor {
	switch s {
	case model.SeverityP0:
		return colorError
	case model.SeverityP1:
		return colorWarn
	case model.SeverityP2:
		return colorAccent
	default:
		return colorMuted
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is
// useful for non-interactive CLI output but can accidentally disable colors in
// a TUI. Here we only honor NO_COLOR and otherwise follow the terminal's
// capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector reports,
	// trust the env. Color probing under-reports on some terminals.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection from the
// persisted appearance preference ("dark" or "bright").
//
// Priority:
//  1. OPSDASH_TUI_THEME=light|dark|auto
//  2. the persisted preference
//  3. COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference(pref string) {
	if v := strings.TrimSpace(os.Getenv("OPSDASH_TUI_THEME")); v != "" {
		switch strings.ToLower(v) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		case "auto":
			// fallthrough to the stored preference
		default:
			// Unknown value: ignore.
		}
	}

	switch strings.ToLower(strings.TrimSpace(pref)) {
	case "bright":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	// Heuristic: COLORFGBG is often "fg;bg" (sometimes more segments). Use the
	// last segment as bg; lower palette slots are the dark colors.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		bgStr := strings.TrimSpace(parts[len(parts)-1])
		if bg, err := strconv.Atoi(bgStr); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
