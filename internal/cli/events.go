package cli

import (
	"errors"
	"os"
	"time"

	"opsdash-cli/internal/calendar"
	"opsdash-cli/internal/ics"

	"github.com/spf13/cobra"
)

// loadCalendar builds a controller with the caller's capability applied.
// Mutating event commands go through the controller so the CLI and the TUI
// share one payload/capability path.
func loadCalendar(cmd *cobra.Command, d *deps) (*calendar.Controller, error) {
	ctrl := calendar.NewController(d.client)
	me, err := d.client.Me(cmd.Context())
	if err != nil {
		return nil, err
	}
	ctrl.SetIdentity(me)
	return ctrl, nil
}

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Calendar events",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			evs, err := d.client.ListEvents(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 500, "Max events to return")

	showCmd := &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			ctrl := calendar.NewController(d.client)
			if err := ctrl.LoadAll(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			ev, ok := ctrl.Find(args[0])
			if !ok {
				return writeErr(cmd, errors.New("no such event: "+args[0]))
			}
			return writeOut(cmd, app, ev)
		},
	}

	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Next events (start >= now, ascending, max 8)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			ctrl := calendar.NewController(d.client)
			if err := ctrl.LoadAll(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ctrl.Upcoming(time.Now())})
		},
	}

	var draft calendar.Draft
	addDraftFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&draft.Title, "title", "", "Event title")
		c.Flags().StringVar(&draft.Start, "start", "", "Start (YYYY-MM-DD or YYYY-MM-DDTHH:MM[:SS])")
		c.Flags().StringVar(&draft.End, "end", "", "End")
		c.Flags().BoolVar(&draft.AllDay, "all-day", false, "All-day event")
		c.Flags().StringVar(&draft.Description, "description", "", "Description")
		c.Flags().StringVar(&draft.GroupID, "group", "", "Group id (requires the group capability)")
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			ctrl, err := loadCalendar(cmd, d)
			if err != nil {
				return writeErr(cmd, err)
			}
			ev, err := ctrl.Create(cmd.Context(), draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, ev)
		},
	}
	addDraftFlags(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Replace an event's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			ctrl, err := loadCalendar(cmd, d)
			if err != nil {
				return writeErr(cmd, err)
			}
			ev, err := ctrl.Update(cmd.Context(), args[0], draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, ev)
		},
	}
	addDraftFlags(updateCmd)

	var moveStart, moveEnd string
	var moveAllDay bool
	moveCmd := &cobra.Command{
		Use:   "move <event-id>",
		Short: "Reschedule an event (timing fields only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if moveStart == "" {
				return writeErr(cmd, errors.New("--start is required"))
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			ctrl := calendar.NewController(d.client)
			if err := ctrl.LoadAll(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			var end *string
			if moveEnd != "" {
				end = &moveEnd
			}
			if err := ctrl.DragReschedule(cmd.Context(), args[0], moveStart, end, moveAllDay); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
	moveCmd.Flags().StringVar(&moveStart, "start", "", "New start")
	moveCmd.Flags().StringVar(&moveEnd, "end", "", "New end")
	moveCmd.Flags().BoolVar(&moveAllDay, "all-day", false, "All-day event")

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			ctrl := calendar.NewController(d.client)
			if err := ctrl.Delete(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	var outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as iCalendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			evs, err := d.client.ListEvents(cmd.Context(), 500)
			if err != nil {
				return writeErr(cmd, err)
			}
			body, skipped := ics.Export(evs, time.Now())
			if outPath == "" || outPath == "-" {
				cmd.Print(body)
			} else if err := os.WriteFile(outPath, []byte(body), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			if skipped > 0 {
				cmd.PrintErrf("skipped %d event(s) with unparsable start times\n", skipped)
			}
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file (- = stdout)")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(upcomingCmd)
	cmd.AddCommand(createCmd)
	cmd.AddCommand(updateCmd)
	cmd.AddCommand(moveCmd)
	cmd.AddCommand(deleteCmd)
	cmd.AddCommand(exportCmd)
	return cmd
}

func newGroupsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			groups, err := d.client.ListGroups(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": groups})
		},
	}
}
