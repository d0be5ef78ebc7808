package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newServersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Server metrics and managed targets",
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics [target-id]",
		Short: "Metrics for the backend host, or for a managed target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			if len(args) == 1 {
				m, err := d.client.ServerTargetMetrics(cmd.Context(), args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, m)
			}
			m, err := d.client.ServerMetrics(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, m)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List managed targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			servers, err := d.client.ListServers(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": servers})
		},
	}

	var host, name string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a managed target",
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				return writeErr(cmd, errors.New("--host is required"))
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			srv, err := d.client.AddServer(cmd.Context(), host, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, srv)
		},
	}
	addCmd.Flags().StringVar(&host, "host", "", "Hostname or address")
	addCmd.Flags().StringVar(&name, "name", "", "Display name")

	var yes bool
	removeCmd := &cobra.Command{
		Use:   "remove <target-id>",
		Short: "Remove a managed target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to remove without --yes"))
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			if err := d.client.DeleteServer(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
	removeCmd.Flags().BoolVar(&yes, "yes", false, "Confirm removal")

	cmd.AddCommand(metricsCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(removeCmd)
	return cmd
}
