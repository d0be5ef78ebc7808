// Package calendar owns the local event list and mediates every mutation
// against the backend.
//
// Two layers keep optimistic drag/resize honest: the canonical list is only
// ever replaced wholesale by confirmed server reads, while a transient
// per-event timing override carries the optimistic guess. On failure the
// override is dropped (the visual change reverts); on success a full re-fetch
// lets the server's projection win.
package calendar

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"opsdash-cli/internal/api"
	"opsdash-cli/internal/model"
)

const eventPageLimit = 500

// ErrBusy reports a mutating call fired while a previous one is still in
// flight. Callers disable their submit control on Busy() instead of queueing.
var ErrBusy = errors.New("a calendar operation is already in progress")

type EditMode int

const (
	Browsing EditMode = iota
	Editing
	Creating
)

// Draft is the form state for create/edit. All fields are entry strings;
// empty means unset.
type Draft struct {
	Title       string
	Start       string
	End         string
	AllDay      bool
	Description string
	GroupID     string
}

type timing struct {
	start  string
	end    *string
	allDay bool
}

type Controller struct {
	client *api.Client

	mu         sync.Mutex
	events     []model.Event
	groups     []model.Group
	overrides  map[string]timing
	mode       EditMode
	selectedID string
	draft      Draft
	busy       bool

	canPickGroup bool

	loadGen    uint64
	loadCancel context.CancelFunc
}

func NewController(client *api.Client) *Controller {
	return &Controller{
		client:    client,
		overrides: map[string]timing{},
	}
}

// SetIdentity derives the group-pick capability from the signed-in identity:
// ADMIN role, or membership in the privileged project-lead group.
func (c *Controller) SetIdentity(me *model.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canPickGroup = me != nil &&
		(me.Role == model.RoleAdmin || (me.Group != nil && me.Group.Slug == "chef_projet"))
}

func (c *Controller) CanPickGroup() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canPickGroup
}

// LoadAll replaces the canonical event and group lists wholesale. Calling it
// again while a previous load is in flight cancels the superseded fetch; if
// both still complete, only the newest one is applied.
func (c *Controller) LoadAll(ctx context.Context) error {
	c.mu.Lock()
	if c.loadCancel != nil {
		c.loadCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.loadCancel = cancel
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()
	defer cancel()

	events, err := c.client.ListEvents(ctx, eventPageLimit)
	if err != nil {
		return err
	}
	groups, err := c.client.ListGroups(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.loadGen {
		return nil
	}
	c.events = events
	c.groups = groups
	return nil
}

// Events returns the canonical list (never the optimistic layer).
func (c *Controller) Events() []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Visible returns the events as the calendar grid should draw them: the
// canonical list with any transient optimistic timing applied on top.
func (c *Controller) Visible() []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Event, len(c.events))
	copy(out, c.events)
	for i := range out {
		if ov, ok := c.overrides[out[i].ID]; ok {
			out[i].Start = ov.start
			out[i].End = ov.end
			out[i].AllDay = ov.allDay
		}
	}
	return out
}

func (c *Controller) Groups() []model.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Group, len(c.groups))
	copy(out, c.groups)
	return out
}

func (c *Controller) Find(id string) (model.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

// Upcoming is the lazy projection for the sidebar: events starting at or
// after now, ascending, capped at eight. Recomputed on demand; it never
// polls on its own.
func (c *Controller) Upcoming(now time.Time) []model.Event {
	type timed struct {
		ev model.Event
		t  time.Time
	}
	c.mu.Lock()
	events := make([]model.Event, len(c.events))
	copy(events, c.events)
	c.mu.Unlock()

	var keep []timed
	for _, ev := range events {
		t, ok := ParseEventTime(ev.Start)
		if !ok || t.Before(now) {
			continue
		}
		keep = append(keep, timed{ev: ev, t: t})
	}
	sort.SliceStable(keep, func(i, j int) bool { return keep[i].t.Before(keep[j].t) })
	if len(keep) > 8 {
		keep = keep[:8]
	}
	out := make([]model.Event, 0, len(keep))
	for _, k := range keep {
		out = append(out, k.ev)
	}
	return out
}

// --- edit state machine -----------------------------------------------------

func (c *Controller) Mode() EditMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) SetDraft(d Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// StartCreating enters the Creating state with a fresh (or grid-selected) draft.
func (c *Controller) StartCreating(d Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = Creating
	c.selectedID = ""
	c.draft = d
}

// StartEditing enters the Editing state for an existing event, seeding the
// draft from the canonical copy.
func (c *Controller) StartEditing(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if ev.ID != id {
			continue
		}
		c.mode = Editing
		c.selectedID = id
		c.draft = Draft{
			Title:       ev.Title,
			Start:       ev.Start,
			End:         strOrEmpty(ev.End),
			AllDay:      ev.AllDay,
			Description: strOrEmpty(ev.Description),
			GroupID:     strOrEmpty(ev.GroupID),
		}
		return true
	}
	return false
}

// Cancel returns to Browsing without touching the server.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetEditLocked()
}

func (c *Controller) resetEditLocked() {
	c.mode = Browsing
	c.selectedID = ""
	c.draft = Draft{}
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// --- mutations --------------------------------------------------------------

// Create posts the draft, refreshes the list and resets the edit state.
func (c *Controller) Create(ctx context.Context, d Draft) (*model.Event, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	ev, err := c.client.CreateEvent(ctx, c.payload(d))
	if err != nil {
		return nil, err
	}
	if err := c.LoadAll(ctx); err != nil {
		return ev, err
	}
	c.mu.Lock()
	c.resetEditLocked()
	c.mu.Unlock()
	return ev, nil
}

// Update puts the draft for id, refreshes the list and resets the edit state.
func (c *Controller) Update(ctx context.Context, id string, d Draft) (*model.Event, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	ev, err := c.client.UpdateEvent(ctx, id, c.payload(d))
	if err != nil {
		return nil, err
	}
	if err := c.LoadAll(ctx); err != nil {
		return ev, err
	}
	c.mu.Lock()
	c.resetEditLocked()
	c.mu.Unlock()
	return ev, nil
}

// Delete removes id and clears the selection if it pointed at the deleted
// event. Confirmation is the caller's responsibility (modal in the TUI,
// --yes in the CLI).
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.client.DeleteEvent(ctx, id); err != nil {
		return err
	}
	err := c.LoadAll(ctx)
	c.mu.Lock()
	if c.selectedID == id {
		c.resetEditLocked()
	}
	delete(c.overrides, id)
	c.mu.Unlock()
	return err
}

// DragReschedule moves an event optimistically: the visual layer shifts
// immediately, the update goes out with only the timing fields, and a failure
// reverts the visual change while leaving the canonical list untouched.
func (c *Controller) DragReschedule(ctx context.Context, id, newStart string, newEnd *string, allDay bool) error {
	return c.moveOptimistic(ctx, id, newStart, newEnd, allDay)
}

// Resize adjusts an event's duration with the same optimistic contract as
// DragReschedule.
func (c *Controller) Resize(ctx context.Context, id, newStart string, newEnd *string, allDay bool) error {
	return c.moveOptimistic(ctx, id, newStart, newEnd, allDay)
}

func (c *Controller) moveOptimistic(ctx context.Context, id, newStart string, newEnd *string, allDay bool) error {
	c.mu.Lock()
	found := false
	for _, ev := range c.events {
		if ev.ID == id {
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return errors.New("unknown event: " + id)
	}
	prev, hadPrev := c.overrides[id]
	c.overrides[id] = timing{start: newStart, end: newEnd, allDay: allDay}
	c.mu.Unlock()

	if err := c.begin(); err != nil {
		c.revertOverride(id, prev, hadPrev)
		return err
	}
	defer c.end()

	payload := map[string]any{
		"start":   newStart,
		"end":     nullable(strOrEmpty(newEnd)),
		"all_day": allDay,
	}
	if _, err := c.client.UpdateEvent(ctx, id, payload); err != nil {
		c.revertOverride(id, prev, hadPrev)
		return err
	}

	// Reconcile: the server's canonical projection wins over the local guess.
	err := c.LoadAll(ctx)
	c.mu.Lock()
	delete(c.overrides, id)
	c.mu.Unlock()
	return err
}

func (c *Controller) revertOverride(id string, prev timing, hadPrev bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hadPrev {
		c.overrides[id] = prev
	} else {
		delete(c.overrides, id)
	}
}

// payload builds the outgoing body. The group_id key is present only when
// the caller holds the group capability; without it the key is omitted
// entirely, even if a stale value sits in the draft.
func (c *Controller) payload(d Draft) map[string]any {
	c.mu.Lock()
	canPick := c.canPickGroup
	c.mu.Unlock()

	p := map[string]any{
		"title":       d.Title,
		"description": nullable(d.Description),
		"start":       nullable(d.Start),
		"end":         nullable(d.End),
		"all_day":     d.AllDay,
	}
	if canPick {
		p["group_id"] = nullable(d.GroupID)
	}
	return p
}

func validateDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Start) == "" {
		return errors.New("title and start are required")
	}
	return nil
}

// ParseEventTime accepts the timestamp shapes the backend emits: a bare date,
// a local datetime with or without seconds, or RFC3339.
func ParseEventTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatEventTime renders a time the way the backend expects mutations:
// a local datetime without zone suffix.
func FormatEventTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
