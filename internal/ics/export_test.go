package ics

import (
	"strings"
	"testing"
	"time"

	"opsdash-cli/internal/model"
)

func TestExportSerializesEvents(t *testing.T) {
	desc := "quarterly planning"
	end := "2024-04-01T11:00:00"
	events := []model.Event{
		{ID: "ev-1", Title: "planning", Start: "2024-04-01T10:00:00", End: &end, Description: &desc},
		{ID: "ev-2", Title: "maintenance day", Start: "2024-04-02", AllDay: true},
	}

	out, skipped := Export(events, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if skipped != 0 {
		t.Fatalf("expected no skips, got %d", skipped)
	}
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:ev-1@opsdash",
		"SUMMARY:planning",
		"DESCRIPTION:quarterly planning",
		"UID:ev-2@opsdash",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportSkipsUnparsableStarts(t *testing.T) {
	events := []model.Event{
		{ID: "ev-1", Title: "ok", Start: "2024-04-01T10:00:00"},
		{ID: "ev-2", Title: "broken", Start: "whenever"},
	}
	out, skipped := Export(events, time.Now())
	if skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", skipped)
	}
	if strings.Contains(out, "broken") {
		t.Fatalf("unparsable event should not be exported")
	}
}
