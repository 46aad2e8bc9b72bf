package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/ministry"
)

func newIndicatorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicator",
		Short: "Manage performance indicators",
	}

	cmd.AddCommand(
		newIndicatorListCmd(app),
		newIndicatorAddCmd(app),
		newIndicatorUpdateCmd(app),
		newIndicatorRemoveCmd(app),
	)
	return cmd
}

func newIndicatorListCmd(app *App) *cobra.Command {
	var unitID int64
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indicators",
		RunE: func(cmd *cobra.Command, args []string) error {
			indicators, err := app.Indicators.List(context.Background(), ministry.IndicatorFilter{
				UnitID:     unitID,
				ActiveOnly: activeOnly,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(indicators))
			for _, ind := range indicators {
				active := formatter.OK("yes")
				if !ind.Active {
					active = formatter.Dim("no")
				}
				rows = append(rows, []string{
					strconv.FormatInt(ind.ID, 10),
					ind.Code,
					formatter.Truncate(ind.Name, 40),
					ind.OwnerUnit.Name,
					ind.UnitOfMeasure,
					active,
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "CODE", "NAME", "OWNER", "UNIT", "ACTIVE"}, rows))
			return nil
		},
	}

	cmd.Flags().Int64Var(&unitID, "unit", 0, "Filter by owning unit id")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active indicators")
	return cmd
}

func indicatorFlags(cmd *cobra.Command, in *ministry.IndicatorInput) {
	cmd.Flags().StringVar(&in.Code, "code", "", "Indicator code")
	cmd.Flags().StringVar(&in.Name, "name", "", "Indicator name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().Int64Var(&in.OwnerUnitID, "unit", 0, "Owning unit id")
	cmd.Flags().StringVar(&in.UnitOfMeasure, "measure", "", "Unit of measure (e.g. hectares, %)")
	cmd.Flags().BoolVar(&in.Active, "active", true, "Whether the indicator is active")
}

func newIndicatorAddCmd(app *App) *cobra.Command {
	var in ministry.IndicatorInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an indicator",
		RunE: func(cmd *cobra.Command, args []string) error {
			ind, err := app.Indicators.Create(context.Background(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Created indicator %s %s (id %d)\n",
				formatter.Bold(ind.Code), ind.Name, ind.ID)
			return nil
		},
	}

	indicatorFlags(cmd, &in)
	cmd.MarkFlagRequired("code")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("unit")
	return cmd
}

func newIndicatorUpdateCmd(app *App) *cobra.Command {
	var in ministry.IndicatorInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an indicator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ind, err := app.Indicators.Update(context.Background(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Updated indicator %s\n", formatter.Bold(ind.Code))
			return nil
		},
	}

	indicatorFlags(cmd, &in)
	return cmd
}

func newIndicatorRemoveCmd(app *App) *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an indicator, probing dependents first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			out := app.out()

			usage, err := app.Indicators.Usage(ctx, id)
			if err != nil {
				return err
			}

			if usage.Blocked() && !force {
				fmt.Fprintln(out, blockedIndicatorMessage(usage))
				return nil
			}

			if force {
				if app.interactive() && !yes {
					ok, err := confirmForceDelete(fmt.Sprintf("indicator %d", id), usage.Describe())
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Cancelled.")
						return nil
					}
				}
				if err := app.Indicators.ForceDelete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(out, "Indicator %d and its data points removed.\n", id)
				return nil
			}

			if app.interactive() && !yes {
				ok, err := confirmDelete(fmt.Sprintf("indicator %d", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}
			if err := app.Indicators.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Indicator %d removed.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Cascade-delete dependent data points")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
