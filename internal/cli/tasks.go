package cli

import (
	"fmt"

	"opsdash-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTicketsCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List alert tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			tickets, err := d.client.ListTickets(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tickets})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "Max tickets to return")
	return cmd
}

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Kanban tasks",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			tasks, err := d.client.ListTasks(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tasks})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max tasks to return")

	var todayLimit int
	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Tasks due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			tasks, err := d.client.ListTasksToday(cmd.Context(), todayLimit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tasks})
		},
	}
	todayCmd.Flags().IntVar(&todayLimit, "limit", 8, "Max tasks to return")

	moveCmd := &cobra.Command{
		Use:   "move <task-id> <TODO|IN_PROGRESS|DONE>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := model.TaskStatus(args[1])
			switch status {
			case model.TaskTodo, model.TaskInProgress, model.TaskDone:
			default:
				return writeErr(cmd, fmt.Errorf("unknown status %q", args[1]))
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			task, err := d.client.SetTaskStatus(cmd.Context(), args[0], status)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, task)
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(todayCmd)
	cmd.AddCommand(moveCmd)
	return cmd
}

func newPipelineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline",
		Short: "Show CI pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			status, err := d.client.PipelineStatus(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if status == nil {
				status = map[string]any{"status": "unknown"}
			}
			return writeOut(cmd, app, status)
		},
	}
}
