package tui

import (
	"fmt"
	"strings"
	"time"

	"opsdash-cli/internal/calendar"
	"opsdash-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) renderCalendar() string {
	sideW := 34
	gridW := m.width - sideW - 3
	if gridW < 42 {
		gridW = 42
	}
	bodyH := m.height - 4

	grid := m.renderMonthGrid(gridW)
	day := m.renderDayList(gridW)
	left := lipgloss.JoinVertical(lipgloss.Left, grid, "", day)

	side := m.renderUpcoming(sideW)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, gridW, bodyH),
		" ",
		normalizePane(side, sideW, bodyH),
	)

	hint := styleMuted().Render("h/l/j/k: move   {/}: month   g: today   c: new   enter: edit   d: delete   </>: shift day   +/-: resize   ,/.: pick")
	rows := []string{row, truncLine(hint, m.width)}
	if m.calErr != "" {
		rows = append([]string{styleError().Render(m.calErr)}, rows...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m appModel) renderMonthGrid(w int) string {
	cellW := w / 7
	if cellW < 4 {
		cellW = 4
	}

	events := m.cal.Visible()
	now := time.Now()
	cursor := m.calCursor

	header := styleHeading().Render(cursor.Format("January 2006"))
	if m.cal.Busy() {
		header += styleMuted().Render("  saving…")
	}

	var dow []string
	for _, d := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		dow = append(dow, truncLine(d, cellW))
	}

	rows := []string{header, strings.Join(dow, "")}
	for _, week := range monthGridWeeks(cursor) {
		var cells []string
		for _, day := range week {
			cells = append(cells, m.renderDayCell(day, cursor, now, events, cellW))
		}
		rows = append(rows, strings.Join(cells, ""))
	}
	return strings.Join(rows, "\n")
}

func (m appModel) renderDayCell(day, cursor, now time.Time, events []model.Event, cellW int) string {
	label := fmt.Sprintf("%2d", day.Day())
	if n := len(eventsOnDay(events, day)); n > 0 {
		label += fmt.Sprintf("·%d", n)
	}
	label = truncLine(label, cellW)

	st := lipgloss.NewStyle()
	switch {
	case sameDay(day, cursor):
		st = st.Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	case sameDay(day, now):
		st = st.Bold(true).Foreground(colorAccent)
	case day.Month() != cursor.Month():
		st = styleMuted()
	}
	return st.Render(label)
}

func (m appModel) renderDayList(w int) string {
	day := m.dayEvents()
	rows := []string{styleHeading().Render(m.calCursor.Format("Mon 02 Jan"))}
	if len(day) == 0 {
		rows = append(rows, styleMuted().Render("no events"))
	}
	for i, ev := range day {
		line := eventLine(ev)
		if i == m.calSelIdx {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render(truncLine(line, w))
		}
		rows = append(rows, truncLine(line, w))
	}
	return strings.Join(rows, "\n")
}

func (m appModel) renderUpcoming(w int) string {
	rows := []string{styleHeading().Render("Upcoming")}
	up := m.cal.Upcoming(time.Now())
	if len(up) == 0 {
		rows = append(rows, styleMuted().Render("nothing scheduled"))
	}
	for _, ev := range up {
		when := ev.Start
		if t, ok := calendar.ParseEventTime(ev.Start); ok {
			if ev.AllDay {
				when = t.Format("02 Jan")
			} else {
				when = t.Format("02 Jan 15:04")
			}
		}
		rows = append(rows, truncLine(styleMuted().Render(when)+" "+ev.Title, w))
	}
	return strings.Join(rows, "\n")
}

func eventLine(ev model.Event) string {
	when := "all day"
	if !ev.AllDay {
		if t, ok := calendar.ParseEventTime(ev.Start); ok {
			when = t.Format("15:04")
		} else {
			when = "??:??"
		}
		if ev.End != nil {
			if e, ok := calendar.ParseEventTime(*ev.End); ok {
				when += "-" + e.Format("15:04")
			}
		}
	}
	return styleMuted().Render(when) + " " + ev.Title
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// monthGridWeeks lays out the anchor's month as full Monday-to-Sunday weeks,
// including the leading/trailing days that belong to the neighboring months.
func monthGridWeeks(anchor time.Time) [][7]time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())

	// Walk back to Monday.
	start := first
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	var weeks [][7]time.Time
	day := start
	for {
		var week [7]time.Time
		for i := 0; i < 7; i++ {
			week[i] = day
			day = day.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
		if day.Month() != anchor.Month() && day.After(first) {
			break
		}
	}
	return weeks
}
