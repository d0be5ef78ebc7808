package cli

import (
	"fmt"
	"os"
	"strings"

	"opsdash-cli/internal/api"
	"opsdash-cli/internal/format"
	"opsdash-cli/internal/store"
	"opsdash-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	Format     string
	PrettyJSON bool
	Debug      bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "opsdash",
		Short:        "Operations dashboard client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  opsdash

  # Scriptable commands
  opsdash login --email ops@example.net
  opsdash events list
  opsdash tasks move task-42 IN_PROGRESS

  # Keep raw 401 bodies visible instead of dropping to the login flow
  opsdash --debug whoami
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// --debug persists, like the legacy ?debug=1 query parameter: once set
		// it stays on for future sessions until `opsdash debug off`.
		if app.Debug {
			st := store.Open("")
			st.SetDebug(true)
			st.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", envOr("OPSDASH_BASE_URL", ""), "API origin (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("OPSDASH_FORMAT", "json"), "Output format (json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Enable the persistent diagnostic override (401s are returned, not redirected)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newDebugCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newGroupsCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newTicketsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newPipelineCmd(app))
	cmd.AddCommand(newServersCmd(app))
	cmd.AddCommand(newAnsibleCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// deps bundles the per-invocation wiring: preference store, global config and
// the authenticated client.
type deps struct {
	store  *store.Store
	config *store.GlobalConfig
	client *api.Client
}

func loadDeps(app *App) (*deps, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	st := store.Open("")

	base := app.BaseURL
	if base == "" {
		base = cfg.BaseURL
	}

	// The persisted debug override forces propagate so diagnostic flows can
	// render the raw failure; otherwise the config picks the policy.
	policy := api.UnauthorizedRedirect
	if st.Debug() || cfg.OnUnauthorized == "propagate" {
		policy = api.UnauthorizedPropagate
	}

	client := api.New(base, st,
		api.WithUnauthorizedPolicy(policy),
		api.WithLogoutHook(func() {
			fmt.Fprintln(os.Stderr, "session expired; run `opsdash login`")
		}),
	)
	return &deps{store: st, config: cfg, client: client}, nil
}

func (d *deps) close() {
	d.store.Close()
}

func runTUI(app *App) error {
	d, err := loadDeps(app)
	if err != nil {
		return err
	}
	defer d.close()
	return tui.Run(d.store, d.config, app.BaseURL)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
