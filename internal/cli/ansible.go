package cli

import (
	"errors"

	"opsdash-cli/internal/ansible"

	"github.com/spf13/cobra"
)

func newAnsibleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ansible",
		Short: "Inventory analysis",
	}

	var local bool
	analyzeCmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Flatten an inventory into groups and hosts",
		Long: "Asks the backend to analyze an inventory file on a path it can reach.\n" +
			"With --local the file is parsed on this machine instead (YAML inventories only).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if local {
				res, err := ansible.Analyze(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, res)
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			res, err := d.client.AnalyzeInventory(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if res == nil {
				return writeErr(cmd, errors.New("analysis returned no result"))
			}
			return writeOut(cmd, app, res)
		},
	}
	analyzeCmd.Flags().BoolVar(&local, "local", false, "Parse the file locally instead of asking the backend")

	cmd.AddCommand(analyzeCmd)
	return cmd
}
