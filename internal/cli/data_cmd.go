package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/ministry"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage raw performance data points",
	}

	cmd.AddCommand(
		newDataListCmd(app),
		newDataAddCmd(app),
		newDataUpdateCmd(app),
		newDataRemoveCmd(app),
		newDataBulkCmd(app),
		newDataExportCmd(app),
	)
	return cmd
}

func dataFilterFlags(cmd *cobra.Command, f *ministry.PerformanceFilter) {
	cmd.Flags().IntVar(&f.Year, "year", 0, "Filter by year")
	cmd.Flags().IntVar(&f.Quarter, "quarter", 0, "Filter by quarter (1-4)")
	cmd.Flags().Int64Var(&f.IndicatorID, "indicator", 0, "Filter by indicator id")
}

func newDataListCmd(app *App) *cobra.Command {
	var filter ministry.PerformanceFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List performance data points",
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := app.Performance.List(context.Background(), filter)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					strconv.FormatInt(p.IndicatorID, 10),
					strconv.Itoa(p.Year),
					fmt.Sprintf("Q%d", p.Quarter),
					formatter.FormatOptional(p.PlanValue),
					formatter.FormatOptional(p.PerformanceValue),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "INDICATOR", "YEAR", "QUARTER", "PLANNED", "ACHIEVED"}, rows))
			return nil
		},
	}

	dataFilterFlags(cmd, &filter)
	return cmd
}

func performanceInput(cmd *cobra.Command, indicatorID int64, year, quarter int, plan, achieved float64) ministry.PerformanceInput {
	in := ministry.PerformanceInput{
		IndicatorID: indicatorID,
		Year:        year,
		Quarter:     quarter,
	}
	if cmd.Flags().Changed("plan") {
		in.PlanValue = &plan
	}
	if cmd.Flags().Changed("achieved") {
		in.PerformanceValue = &achieved
	}
	return in
}

func newDataAddCmd(app *App) *cobra.Command {
	var indicatorID int64
	var year, quarter int
	var plan, achieved float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a data point",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Performance.Create(context.Background(),
				performanceInput(cmd, indicatorID, year, quarter, plan, achieved))
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Recorded data point %d\n", p.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&indicatorID, "indicator", 0, "Indicator id")
	cmd.Flags().IntVar(&year, "year", 0, "Year")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Quarter (1-4)")
	cmd.Flags().Float64Var(&plan, "plan", 0, "Planned value")
	cmd.Flags().Float64Var(&achieved, "achieved", 0, "Achieved value")
	cmd.MarkFlagRequired("indicator")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("quarter")
	return cmd
}

func newDataUpdateCmd(app *App) *cobra.Command {
	var indicatorID int64
	var year, quarter int
	var plan, achieved float64

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a data point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := app.Performance.Update(context.Background(), id,
				performanceInput(cmd, indicatorID, year, quarter, plan, achieved))
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Updated data point %d\n", p.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&indicatorID, "indicator", 0, "Indicator id")
	cmd.Flags().IntVar(&year, "year", 0, "Year")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Quarter (1-4)")
	cmd.Flags().Float64Var(&plan, "plan", 0, "Planned value")
	cmd.Flags().Float64Var(&achieved, "achieved", 0, "Achieved value")
	return cmd
}

func newDataRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a data point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if app.interactive() && !yes {
				ok, err := confirmDelete(fmt.Sprintf("data point %d", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.out(), "Cancelled.")
					return nil
				}
			}
			if err := app.Performance.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Data point %d removed.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newDataBulkCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply many value updates from a JSON file",
		Long: `Apply many plan/achieved value updates in one request.

The file is a JSON array of objects with "id" and optional
"plan_value" and "performance_value" fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var updates []ministry.PerformanceUpdate
			if err := json.Unmarshal(raw, &updates); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			if len(updates) == 0 {
				return fmt.Errorf("%s contains no updates", file)
			}

			n, err := app.Performance.BulkUpdate(context.Background(), updates)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Updated %d data point(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file of updates")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newDataExportCmd(app *App) *cobra.Command {
	var filter ministry.PerformanceFilter

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export data points to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := app.Performance.Export(context.Background(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Wrote %s (%d bytes)\n", file.Path, file.Size)
			return nil
		},
	}

	dataFilterFlags(cmd, &filter)
	return cmd
}
