// Package ics renders the calendar event list as an iCalendar document so
// operators can subscribe from a desktop calendar.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"opsdash-cli/internal/calendar"
	"opsdash-cli/internal/model"
)

// Export serializes events to iCalendar. Events whose start cannot be parsed
// are skipped rather than failing the whole export; the skipped count is
// returned so callers can warn.
func Export(events []model.Event, now time.Time) (string, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//opsdash//calendar export//EN")

	skipped := 0
	for _, ev := range events {
		start, ok := calendar.ParseEventTime(ev.Start)
		if !ok {
			skipped++
			continue
		}

		ve := cal.AddEvent(fmt.Sprintf("%s@opsdash", ev.ID))
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Title)
		if ev.Description != nil && *ev.Description != "" {
			ve.SetDescription(*ev.Description)
		}

		if ev.AllDay {
			ve.SetAllDayStartAt(start)
			if end, ok := endTime(ev); ok {
				ve.SetAllDayEndAt(end)
			}
			continue
		}
		ve.SetStartAt(start)
		if end, ok := endTime(ev); ok {
			ve.SetEndAt(end)
		} else {
			// Mirror the calendar grid's default block.
			ve.SetEndAt(start.Add(time.Hour))
		}
	}
	return cal.Serialize(), skipped
}

func endTime(ev model.Event) (time.Time, bool) {
	if ev.End == nil {
		return time.Time{}, false
	}
	return calendar.ParseEventTime(*ev.End)
}
