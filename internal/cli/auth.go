package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"opsdash-cli/internal/api"
	"opsdash-cli/internal/store"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			if strings.TrimSpace(email) == "" {
				return writeErr(cmd, errors.New("--email is required"))
			}
			if password == "" {
				pw, err := readPassword(cmd, "Password: ")
				if err != nil {
					return writeErr(cmd, err)
				}
				password = pw
			}

			token, err := d.client.Login(cmd.Context(), email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if token == "" {
				return writeErr(cmd, errors.New("login did not return a token"))
			}
			d.store.SetToken(token)
			return writeOut(cmd, app, map[string]any{"ok": true, "email": email})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.Open("")
			defer st.Close()
			st.SetToken("")
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	var req api.RegisterRequest
	var password, jobTitle, phone string
	var age int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account, then sign in with it",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			if req.Email == "" || req.FirstName == "" || req.LastName == "" {
				return writeErr(cmd, errors.New("--email, --first-name and --last-name are required"))
			}
			if password == "" {
				pw, err := readPassword(cmd, "Password: ")
				if err != nil {
					return writeErr(cmd, err)
				}
				password = pw
			}
			req.Password = password
			if jobTitle != "" {
				req.JobTitle = &jobTitle
			}
			if phone != "" {
				req.PhoneNumber = &phone
			}
			if age > 0 {
				req.Age = &age
			}

			if err := d.client.Register(cmd.Context(), req); err != nil {
				return writeErr(cmd, err)
			}
			// Mirror the web flow: register then sign straight in.
			token, err := d.client.Login(cmd.Context(), req.Email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			d.store.SetToken(token)
			return writeOut(cmd, app, map[string]any{"ok": true, "email": req.Email})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&jobTitle, "job-title", "", "Job title")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().IntVar(&age, "age", 0, "Age")
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			if _, ok := d.store.Token(); !ok {
				return writeErr(cmd, errors.New("not signed in; run `opsdash login`"))
			}
			me, err := d.client.Me(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if me == nil {
				return writeErr(cmd, errors.New("session expired; run `opsdash login`"))
			}
			return writeOut(cmd, app, me)
		},
	}
}

func newDebugCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug [on|off]",
		Short: "Show or set the persistent diagnostic override",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.Open("")
			defer st.Close()
			if len(args) == 1 {
				switch args[0] {
				case "on":
					st.SetDebug(true)
				case "off":
					st.SetDebug(false)
				default:
					return writeErr(cmd, fmt.Errorf("unknown argument %q (want on|off)", args[0]))
				}
			}
			return writeOut(cmd, app, map[string]any{"debug": st.Debug()})
		},
	}
	return cmd
}

func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available; pass --password")
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
