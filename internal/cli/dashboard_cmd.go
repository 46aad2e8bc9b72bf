package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
)

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Ministry-wide planning overview",
	}

	cmd.AddCommand(
		newDashboardStatsCmd(app),
		newDashboardActivityCmd(app),
		newDashboardPendingCmd(app),
		newDashboardSummaryCmd(app),
	)
	return cmd
}

func newDashboardStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Dashboard.Stats(context.Background())
			if err != nil {
				return err
			}
			content := formatter.RenderKV([][2]string{
				{"Units", strconv.Itoa(stats.TotalUnits)},
				{"Indicators", strconv.Itoa(stats.TotalIndicators)},
				{"Submitted plans", strconv.Itoa(stats.SubmittedPlans)},
				{"Approved plans", strconv.Itoa(stats.ApprovedPlans)},
				{"Pending approvals", strconv.Itoa(stats.PendingApprovals)},
				{"Performance reports", strconv.Itoa(stats.PerformanceReports)},
			})
			fmt.Fprintln(app.out(), formatter.RenderBox("Planning overview", content))
			return nil
		},
	}
}

func newDashboardActivityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show recent workflow activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Dashboard.RecentActivities(context.Background())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					formatter.FormatDateTime(e.CreatedAt),
					e.ActionDisplay,
					e.Actor.FullName(),
					e.Unit.Name,
					formatter.Truncate(e.Message, 44),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"WHEN", "ACTION", "WHO", "UNIT", "MESSAGE"}, rows))
			return nil
		},
	}
}

func newDashboardPendingCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Review plans awaiting approval",
		Long: `Review plans awaiting approval.

In a terminal this opens an interactive picker where plans can be
selected and approved in bulk. With --plain (or when output is piped)
it prints a table instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plans, err := app.Dashboard.PendingApprovals(ctx)
			if err != nil {
				return err
			}

			if len(plans) == 0 {
				fmt.Fprintln(app.out(), formatter.OK("Nothing awaiting approval."))
				return nil
			}

			if !plain && app.interactive() {
				return runApprovalPicker(ctx, app, plans)
			}

			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					strconv.Itoa(p.Year),
					p.Unit.Name,
					p.CreatedBy.FullName(),
					formatter.FormatDate(p.SubmittedAt),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "YEAR", "UNIT", "SUBMITTED BY", "SUBMITTED"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print a table instead of the interactive picker")
	return cmd
}

func newDashboardSummaryCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show approval rates for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			s, err := app.Dashboard.PerformanceSummary(context.Background(), year)
			if err != nil {
				return err
			}
			content := formatter.RenderKV([][2]string{
				{"Plans", fmt.Sprintf("%d approved of %d", s.ApprovedPlans, s.TotalPlans)},
				{"Plan approval rate", formatter.Percent(s.PlanApprovalRate)},
				{"Reports", fmt.Sprintf("%d approved of %d", s.ApprovedReports, s.TotalReports)},
				{"Report approval rate", formatter.Percent(s.ReportApprovalRate)},
			})
			fmt.Fprintln(app.out(), formatter.RenderBox(fmt.Sprintf("Performance %d", s.Year), content))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (defaults to the current year)")
	return cmd
}
