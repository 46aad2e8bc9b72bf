package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/ministry"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts and planning profiles",
	}

	cmd.AddCommand(
		newUserListCmd(app),
		newUserAddCmd(app),
		newUserUpdateCmd(app),
		newUserRemoveCmd(app),
	)
	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users with their roles and units",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(context.Background())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				unit := formatter.Dim("—")
				if u.Unit != nil {
					unit = u.Unit.Name
				}
				active := formatter.OK("yes")
				if !u.User.IsActive {
					active = formatter.Dim("no")
				}
				rows = append(rows, []string{
					strconv.FormatInt(u.User.ID, 10),
					u.User.Username,
					u.User.FullName(),
					formatter.RoleLabel(u.Role),
					unit,
					active,
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "USERNAME", "NAME", "ROLE", "UNIT", "ACTIVE"}, rows))
			return nil
		},
	}
}

func newUserAddCmd(app *App) *cobra.Command {
	var in ministry.UserInput
	var role string
	var unitID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user with a planning profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = domain.UserRole(strings.ToUpper(role))
			if unitID > 0 {
				in.UnitID = &unitID
			}
			u, err := app.Users.Create(context.Background(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Created user %s (%s)\n",
				formatter.Bold(u.User.Username), formatter.RoleLabel(u.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&role, "role", "", "Role (superadmin, strategic_affairs, state_minister, advisor)")
	cmd.Flags().Int64Var(&unitID, "unit", 0, "Assigned unit id")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("role")
	return cmd
}

func newUserUpdateCmd(app *App) *cobra.Command {
	var email, password, firstName, lastName, role string
	var unitID int64
	var active bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user; only changed flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			// Only flags the caller set become part of the patch.
			var up ministry.UserUpdate
			if cmd.Flags().Changed("email") {
				up.Email = &email
			}
			if cmd.Flags().Changed("password") {
				up.Password = &password
			}
			if cmd.Flags().Changed("first-name") {
				up.FirstName = &firstName
			}
			if cmd.Flags().Changed("last-name") {
				up.LastName = &lastName
			}
			if cmd.Flags().Changed("role") {
				r := domain.UserRole(strings.ToUpper(role))
				up.Role = &r
			}
			if cmd.Flags().Changed("unit") {
				up.UnitID = &unitID
			}
			if cmd.Flags().Changed("active") {
				up.IsActive = &active
			}

			u, err := app.Users.Update(context.Background(), id, up)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Updated user %s\n", formatter.Bold(u.User.Username))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&role, "role", "", "Role")
	cmd.Flags().Int64Var(&unitID, "unit", 0, "Assigned unit id")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the account is active")
	return cmd
}

func newUserRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if app.interactive() && !yes {
				ok, err := confirmDelete(fmt.Sprintf("user %d", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.out(), "Cancelled.")
					return nil
				}
			}
			if err := app.Users.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "User %d removed.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
