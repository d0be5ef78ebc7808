package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"opsdash-cli/internal/api"
	"opsdash-cli/internal/model"
)

type fakeCreds struct{ token string }

func (f *fakeCreds) Token() (string, bool) { return f.token, f.token != "" }
func (f *fakeCreds) SetToken(t string)     { f.token = t }

// fakeBackend is a minimal in-memory /events/ + /groups/ server.
type fakeBackend struct {
	mu       sync.Mutex
	events   []model.Event
	nextID   int
	payloads []map[string]any
	failPut  bool
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/groups/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.Group{{ID: "g1", Slug: "chef_projet", Name: "Project leads"}})
	})
	mux.HandleFunc("/events/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, b.events)
		case http.MethodPost:
			p := decodePayload(r)
			b.payloads = append(b.payloads, p)
			b.nextID++
			ev := eventFromPayload(fmt.Sprintf("ev-%d", b.nextID), p)
			b.events = append(b.events, ev)
			writeJSON(w, ev)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := r.PathValue("id")
		switch r.Method {
		case http.MethodPut:
			if b.failPut {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"detail":"overlaps a frozen window"}`))
				return
			}
			p := decodePayload(r)
			b.payloads = append(b.payloads, p)
			for i := range b.events {
				if b.events[i].ID == id {
					applyPayload(&b.events[i], p)
					writeJSON(w, b.events[i])
					return
				}
			}
			http.NotFound(w, r)
		case http.MethodDelete:
			for i := range b.events {
				if b.events[i].ID == id {
					b.events = append(b.events[:i], b.events[i+1:]...)
					writeJSON(w, map[string]any{"ok": true})
					return
				}
			}
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodePayload(r *http.Request) map[string]any {
	var p map[string]any
	_ = json.NewDecoder(r.Body).Decode(&p)
	return p
}

func eventFromPayload(id string, p map[string]any) model.Event {
	ev := model.Event{ID: id}
	applyPayload(&ev, p)
	return ev
}

func applyPayload(ev *model.Event, p map[string]any) {
	if v, ok := p["title"].(string); ok {
		ev.Title = v
	}
	if v, ok := p["start"].(string); ok {
		ev.Start = v
	}
	if v, ok := p["end"].(string); ok {
		ev.End = &v
	} else if _, present := p["end"]; present {
		ev.End = nil
	}
	if v, ok := p["all_day"].(bool); ok {
		ev.AllDay = v
	}
	if v, ok := p["description"].(string); ok {
		ev.Description = &v
	}
	if v, ok := p["group_id"].(string); ok {
		ev.GroupID = &v
	}
}

func newTestController(t *testing.T, b *fakeBackend) *Controller {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	creds := &fakeCreds{token: "tok"}
	return NewController(api.New(srv.URL, creds))
}

func TestCreateRoundTrip(t *testing.T) {
	b := &fakeBackend{}
	c := newTestController(t, b)

	ev, err := c.Create(context.Background(), Draft{Title: "T", Start: "2024-01-01T10:00:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev == nil || ev.Title != "T" {
		t.Fatalf("unexpected created event: %+v", ev)
	}

	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	found := false
	for _, e := range c.Events() {
		if e.Title == "T" && e.Start == "2024-01-01T10:00:00" {
			found = true
		}
	}
	if !found {
		t.Fatalf("created event missing from canonical list: %+v", c.Events())
	}
	if c.Mode() != Browsing {
		t.Fatalf("create should reset edit state to Browsing")
	}
}

func TestCreateValidationBlocksNetworkCall(t *testing.T) {
	b := &fakeBackend{}
	c := newTestController(t, b)

	if _, err := c.Create(context.Background(), Draft{Title: "  ", Start: ""}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(b.payloads) != 0 {
		t.Fatalf("validation failure must not reach the network, got %d payloads", len(b.payloads))
	}
}

func TestOptimisticDragFailureReverts(t *testing.T) {
	b := &fakeBackend{
		events: []model.Event{{ID: "ev-1", Title: "standup", Start: "2024-03-01T09:00:00"}},
	}
	c := newTestController(t, b)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("loadAll: %v", err)
	}

	b.mu.Lock()
	b.failPut = true
	b.mu.Unlock()

	err := c.DragReschedule(context.Background(), "ev-1", "2024-03-02T09:00:00", nil, false)
	if err == nil {
		t.Fatalf("expected drag failure to surface")
	}
	if !strings.Contains(err.Error(), "frozen window") {
		t.Fatalf("expected backend detail, got %q", err.Error())
	}

	// Visual layer reverted to the pre-drag position.
	vis := c.Visible()
	if len(vis) != 1 || vis[0].Start != "2024-03-01T09:00:00" {
		t.Fatalf("visual layer should revert, got %+v", vis)
	}
	// Canonical list untouched.
	evs := c.Events()
	if len(evs) != 1 || evs[0].Start != "2024-03-01T09:00:00" {
		t.Fatalf("canonical list must not be mutated, got %+v", evs)
	}
}

func TestOptimisticDragSuccessReconciles(t *testing.T) {
	b := &fakeBackend{
		events: []model.Event{{ID: "ev-1", Title: "standup", Start: "2024-03-01T09:00:00"}},
	}
	c := newTestController(t, b)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("loadAll: %v", err)
	}

	end := "2024-03-02T10:00:00"
	if err := c.DragReschedule(context.Background(), "ev-1", "2024-03-02T09:00:00", &end, false); err != nil {
		t.Fatalf("drag: %v", err)
	}

	evs := c.Events()
	if len(evs) != 1 || evs[0].Start != "2024-03-02T09:00:00" {
		t.Fatalf("canonical list should carry the server result, got %+v", evs)
	}
	if evs[0].End == nil || *evs[0].End != end {
		t.Fatalf("end should be updated, got %+v", evs[0].End)
	}
	// Override cleared after reconcile.
	vis := c.Visible()
	if vis[0].Start != evs[0].Start {
		t.Fatalf("visible and canonical should agree after reconcile")
	}
}

func TestGroupKeyOmittedWithoutCapability(t *testing.T) {
	b := &fakeBackend{}
	c := newTestController(t, b)

	// No identity set: no capability. A stale group id in the draft must not leak.
	if _, err := c.Create(context.Background(), Draft{Title: "T", Start: "2024-01-01", GroupID: "g1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(b.payloads) == 0 {
		t.Fatalf("expected a captured payload")
	}
	if _, present := b.payloads[0]["group_id"]; present {
		t.Fatalf("group_id must be omitted without the capability: %+v", b.payloads[0])
	}
}

func TestGroupKeySentWithCapability(t *testing.T) {
	b := &fakeBackend{}
	c := newTestController(t, b)
	c.SetIdentity(&model.Identity{ID: "u1", Role: model.RoleAdmin})

	if _, err := c.Create(context.Background(), Draft{Title: "T", Start: "2024-01-01", GroupID: "g1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, present := b.payloads[0]["group_id"]; !present || got != "g1" {
		t.Fatalf("expected group_id g1, got %v (present=%v)", got, present)
	}

	// Privileged group membership also grants the capability.
	c2 := newTestController(t, &fakeBackend{})
	c2.SetIdentity(&model.Identity{ID: "u2", Role: model.RoleUser,
		Group: &model.Group{ID: "g1", Slug: "chef_projet", Name: "Project leads"}})
	if !c2.CanPickGroup() {
		t.Fatalf("chef_projet membership should grant the capability")
	}
}

func TestUpcomingProjection(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	mk := func(id string, d time.Duration) model.Event {
		return model.Event{ID: id, Title: id, Start: FormatEventTime(now.Add(d))}
	}
	b := &fakeBackend{events: []model.Event{
		mk("past", -time.Hour),
		mk("plus2", 2 * time.Hour),
		mk("plus1", time.Hour),
	}}
	c := newTestController(t, b)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("loadAll: %v", err)
	}

	up := c.Upcoming(now)
	if len(up) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(up))
	}
	if up[0].ID != "plus1" || up[1].ID != "plus2" {
		t.Fatalf("expected ascending order plus1,plus2, got %s,%s", up[0].ID, up[1].ID)
	}
}

func TestUpcomingCapsAtEight(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	b := &fakeBackend{}
	for i := 1; i <= 12; i++ {
		b.events = append(b.events, model.Event{
			ID:    fmt.Sprintf("ev-%d", i),
			Start: FormatEventTime(now.Add(time.Duration(i) * time.Hour)),
		})
	}
	c := newTestController(t, b)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if up := c.Upcoming(now); len(up) != 8 {
		t.Fatalf("expected cap of 8, got %d", len(up))
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	b := &fakeBackend{
		events: []model.Event{{ID: "ev-1", Title: "standup", Start: "2024-03-01T09:00:00"}},
	}
	c := newTestController(t, b)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if !c.StartEditing("ev-1") {
		t.Fatalf("expected to select ev-1")
	}
	if c.Mode() != Editing || c.SelectedID() != "ev-1" {
		t.Fatalf("unexpected edit state: mode=%v selected=%q", c.Mode(), c.SelectedID())
	}

	if err := c.Delete(context.Background(), "ev-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if c.Mode() != Browsing || c.SelectedID() != "" {
		t.Fatalf("delete should clear selection")
	}
	if len(c.Events()) != 0 {
		t.Fatalf("event should be gone, got %+v", c.Events())
	}
}

func TestStartEditingSeedsDraft(t *testing.T) {
	desc := "retro notes"
	end := "2024-03-01T10:00:00"
	b := &fakeBackend{
		events: []model.Event{{ID: "ev-1", Title: "retro", Start: "2024-03-01T09:00:00", End: &end, Description: &desc}},
	}
	c := newTestController(t, b)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if !c.StartEditing("ev-1") {
		t.Fatalf("expected ev-1 to be editable")
	}
	d := c.Draft()
	if d.Title != "retro" || d.Start != "2024-03-01T09:00:00" || d.End != end || d.Description != desc {
		t.Fatalf("draft not seeded: %+v", d)
	}
	c.Cancel()
	if c.Mode() != Browsing || c.Draft().Title != "" {
		t.Fatalf("cancel should reset the draft")
	}
}

func TestParseEventTimeShapes(t *testing.T) {
	for _, s := range []string{"2024-01-02", "2024-01-02T10:30", "2024-01-02T10:30:00"} {
		if _, ok := ParseEventTime(s); !ok {
			t.Fatalf("expected %q to parse", s)
		}
	}
	if _, ok := ParseEventTime("not a time"); ok {
		t.Fatalf("junk must not parse")
	}
}
