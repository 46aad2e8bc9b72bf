package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/ministry"
)

func ministryUnitInput(name, unitType string, parentID int64) ministry.UnitInput {
	in := ministry.UnitInput{Name: name, Type: domain.UnitType(unitType)}
	if parentID > 0 {
		in.ParentID = &parentID
	}
	return in
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func newUnitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage organisational units",
	}

	cmd.AddCommand(
		newUnitListCmd(app),
		newUnitAddCmd(app),
		newUnitInspectCmd(app),
		newUnitUpdateCmd(app),
		newUnitRemoveCmd(app),
	)
	return cmd
}

func newUnitListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List units",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := app.Units.List(context.Background())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(units))
			for _, u := range units {
				parent := formatter.Dim("—")
				if u.ParentName != "" {
					parent = u.ParentName
				}
				rows = append(rows, []string{
					strconv.FormatInt(u.ID, 10),
					u.Name,
					u.TypeLabel(),
					parent,
					strconv.Itoa(u.UsersCount),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "NAME", "TYPE", "PARENT", "USERS"}, rows))
			return nil
		},
	}
}

func newUnitAddCmd(app *App) *cobra.Command {
	var name, unitType string
	var parentID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ministryUnitInput(name, unitType, parentID)
			unit, err := app.Units.Create(context.Background(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Created unit %s (id %d)\n", formatter.Bold(unit.Name), unit.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Unit name")
	cmd.Flags().StringVar(&unitType, "type", string(domain.UnitStateMinister), "Unit type (STRATEGIC, STATE_MINISTER, ADVISOR)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent unit id (0 for a root office)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newUnitInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Show a unit with its current-year statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()

			unit, err := app.Units.Get(ctx, id)
			if err != nil {
				return err
			}
			pairs := [][2]string{
				{"Name", unit.Name},
				{"Type", unit.TypeLabel()},
				{"Users", strconv.Itoa(unit.UsersCount)},
				{"Child offices", strconv.Itoa(unit.ChildrenCount)},
			}
			if unit.ParentName != "" {
				pairs = append(pairs, [2]string{"Parent", unit.ParentName})
			}

			out := app.out()
			fmt.Fprintln(out, formatter.Header(unit.Name))
			fmt.Fprint(out, formatter.RenderKV(pairs))

			stats, err := app.Units.Statistics(ctx, id)
			if err != nil {
				// Statistics need extra permissions; the unit itself rendered.
				fmt.Fprintln(out, formatter.Dim("Statistics unavailable: "+err.Error()))
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Header("This year"))
			fmt.Fprint(out, formatter.RenderKV([][2]string{
				{"Active indicators", strconv.Itoa(stats.IndicatorsCount)},
				{"Annual plans", strconv.Itoa(stats.AnnualPlansCount)},
				{"Quarterly reports", strconv.Itoa(stats.QuarterlyReportsCount)},
				{"Pending approvals", strconv.Itoa(stats.PendingApprovals)},
			}))
			return nil
		},
	}
}

func newUnitUpdateCmd(app *App) *cobra.Command {
	var name, unitType string
	var parentID int64

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a unit; only changed flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()

			// The backend replaces the whole record on update, so start
			// from the current values and overlay the flags that were set.
			current, err := app.Units.Get(ctx, id)
			if err != nil {
				return err
			}
			in := ministry.UnitInput{
				Name:     current.Name,
				Type:     current.Type,
				ParentID: current.ParentID,
			}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("type") {
				in.Type = domain.UnitType(unitType)
			}
			if cmd.Flags().Changed("parent") {
				in.ParentID = nil
				if parentID > 0 {
					in.ParentID = &parentID
				}
			}

			unit, err := app.Units.Update(ctx, id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Updated unit %s\n", formatter.Bold(unit.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Unit name")
	cmd.Flags().StringVar(&unitType, "type", "", "Unit type")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent unit id (0 for a root office)")
	return cmd
}

func newUnitRemoveCmd(app *App) *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a unit, probing dependents first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			out := app.out()

			usage, err := app.Units.Usage(ctx, id)
			if err != nil {
				return err
			}

			if usage.Blocked() && !force {
				fmt.Fprintln(out, blockedUnitMessage(usage))
				return nil
			}

			if force {
				if app.interactive() && !yes {
					ok, err := confirmForceDelete(fmt.Sprintf("unit %d", id), usage.Describe())
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Cancelled.")
						return nil
					}
				}
				if err := app.Units.ForceDelete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(out, "Unit %d and its dependents removed.\n", id)
				return nil
			}

			if app.interactive() && !yes {
				ok, err := confirmDelete(fmt.Sprintf("unit %d", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}
			if err := app.Units.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Unit %d removed.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Cascade-delete dependents")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
