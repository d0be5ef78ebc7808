package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User administration (ADMIN role)",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			users, err := d.client.ListUsers(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": users})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max users to return")

	var email, password, firstName, lastName, role, groupID string
	var active bool
	addUserFlags := func(c *cobra.Command, withPassword bool) {
		c.Flags().StringVar(&email, "email", "", "Email")
		if withPassword {
			c.Flags().StringVar(&password, "password", "", "Initial password")
		}
		c.Flags().StringVar(&firstName, "first-name", "", "First name")
		c.Flags().StringVar(&lastName, "last-name", "", "Last name")
		c.Flags().StringVar(&role, "role", "", "Role (ADMIN|MODERATOR|USER)")
		c.Flags().StringVar(&groupID, "group", "", "Group id")
		c.Flags().BoolVar(&active, "active", true, "Account enabled")
	}
	userPayload := func(cmd *cobra.Command, withPassword bool) map[string]any {
		p := map[string]any{}
		set := func(flag, key, val string) {
			if cmd.Flags().Changed(flag) {
				p[key] = val
			}
		}
		set("email", "email", email)
		if withPassword {
			set("password", "password", password)
		}
		set("first-name", "first_name", firstName)
		set("last-name", "last_name", lastName)
		set("role", "role", role)
		set("group", "group_id", groupID)
		if cmd.Flags().Changed("active") {
			p["is_active"] = active
		}
		return p
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return writeErr(cmd, errors.New("--email and --password are required"))
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			u, err := d.client.CreateUser(cmd.Context(), userPayload(cmd, true))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}
	addUserFlags(createCmd, true)

	updateCmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user (only changed flags are sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			u, err := d.client.UpdateUser(cmd.Context(), args[0], userPayload(cmd, false))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}
	addUserFlags(updateCmd, false)

	var newPassword string
	passwordCmd := &cobra.Command{
		Use:   "password <user-id>",
		Short: "Reset a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newPassword == "" {
				return writeErr(cmd, errors.New("--new-password is required"))
			}
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()
			if err := d.client.SetUserPassword(cmd.Context(), args[0], newPassword); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
	passwordCmd.Flags().StringVar(&newPassword, "new-password", "", "New password")

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
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
			if err := d.client.DeleteUser(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(createCmd)
	cmd.AddCommand(updateCmd)
	cmd.AddCommand(passwordCmd)
	cmd.AddCommand(deleteCmd)
	return cmd
}
