package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the planning service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				if !app.interactive() {
					return fmt.Errorf("--username and --password are required in non-interactive mode")
				}
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("Username").
							Value(&username),
						huh.NewInput().
							Title("Password").
							EchoMode(huh.EchoModePassword).
							Value(&password),
					),
				).WithTheme(agriplanHuhTheme()).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
			}

			user, err := app.Session.SignIn(context.Background(), username, password)
			if err != nil {
				return err
			}

			out := app.out()
			fmt.Fprintf(out, "Signed in as %s (%s)\n", formatter.Bold(user.FullName()), user.Username)
			if user.Unit != nil {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("Unit:"), user.Unit.Name)
			}
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("Role:"), formatter.RoleLabel(user.Role))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.SignOut(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(app.out(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Session.Current(context.Background())
			if err != nil {
				return err
			}
			out := app.out()
			if sess == nil {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}

			user := sess.User
			pairs := [][2]string{
				{"User", fmt.Sprintf("%s (%s)", user.FullName(), user.Username)},
				{"Email", user.Email},
				{"Role", formatter.RoleLabel(user.Role)},
			}
			if user.Unit != nil {
				pairs = append(pairs, [2]string{"Unit", fmt.Sprintf("%s (%s)", user.Unit.Name, user.Unit.TypeLabel())})
			}
			fmt.Fprint(out, formatter.RenderKV(pairs))
			return nil
		},
	}
}
