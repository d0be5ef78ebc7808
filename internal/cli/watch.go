package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// newWatchCmd polls server metrics on a cron schedule and prints one JSON
// document per run. The schedule is a repeating task that is torn down on
// SIGINT/SIGTERM, so no timers outlive the command.
func newWatchCmd(app *App) *cobra.Command {
	var schedule, targetID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll server metrics on a schedule",
		Example: `  opsdash watch
  opsdash watch --cron "@every 10s"
  opsdash watch --target srv-1 --cron "*/1 * * * *"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			if schedule == "" {
				schedule = d.config.WatchCron
			}
			if schedule == "" {
				schedule = "@every 30s"
			}

			poll := func() {
				ctx := cmd.Context()
				var v any
				var err error
				if targetID != "" {
					v, err = d.client.ServerTargetMetrics(ctx, targetID)
				} else {
					v, err = d.client.ServerMetrics(ctx)
				}
				if err != nil {
					_ = writeOut(cmd, app, map[string]any{
						"at":    time.Now().Format(time.RFC3339),
						"error": err.Error(),
					})
					return
				}
				_ = writeOut(cmd, app, map[string]any{
					"at":      time.Now().Format(time.RFC3339),
					"metrics": v,
				})
			}

			c := cron.New()
			if _, err := c.AddFunc(schedule, poll); err != nil {
				return writeErr(cmd, err)
			}

			// First sample immediately; cron fires the rest.
			poll()
			c.Start()
			defer c.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			select {
			case <-sig:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "cron", "", `Cron schedule (default from config, else "@every 30s")`)
	cmd.Flags().StringVar(&targetID, "target", "", "Managed target id (default: the backend host)")
	return cmd
}
