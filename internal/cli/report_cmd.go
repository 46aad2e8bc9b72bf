package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/ministry"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manage quarterly reports and their entries",
	}

	cmd.AddCommand(
		newReportListCmd(app),
		newReportAddCmd(app),
		newReportEntriesCmd(app),
		newReportEntryAddCmd(app),
		newReportSubmitCmd(app),
		newReportApproveCmd(app),
		newReportRejectCmd(app),
		newReportRemoveCmd(app),
	)
	return cmd
}

func newReportListCmd(app *App) *cobra.Command {
	var year, quarter int
	var unitID int64
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quarterly reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := app.Reports.List(context.Background(), ministry.ReportFilter{
				Year:    year,
				Quarter: quarter,
				UnitID:  unitID,
				Status:  domain.WorkflowStatus(strings.ToUpper(status)),
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				label := r.QuarterLabel
				if label == "" {
					label = fmt.Sprintf("Q%d", r.Quarter)
				}
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					strconv.Itoa(r.Year),
					label,
					r.Unit.Name,
					formatter.StatusBadge(r.Status),
					strconv.Itoa(r.EntriesCount),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "YEAR", "QUARTER", "UNIT", "STATUS", "ENTRIES"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Filter by quarter (1-4)")
	cmd.Flags().Int64Var(&unitID, "unit", 0, "Filter by unit id")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	return cmd
}

func newReportAddCmd(app *App) *cobra.Command {
	var year, quarter int
	var unitID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a quarterly report",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Reports.Create(context.Background(), ministry.ReportInput{
				Year:    year,
				Quarter: quarter,
				UnitID:  unitID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Created report %d for %s, %d Q%d\n",
				report.ID, report.Unit.Name, report.Year, report.Quarter)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Report year")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Quarter (1-4)")
	cmd.Flags().Int64Var(&unitID, "unit", 0, "Unit id")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("quarter")
	cmd.MarkFlagRequired("unit")
	return cmd
}

func newReportEntriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "entries <report-id>",
		Short: "List a report's achieved-value entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entries, err := app.Reports.Entries(context.Background(), id)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				evidence := formatter.Dim("—")
				if e.Evidence != "" {
					evidence = filepath.Base(e.Evidence)
				}
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.Indicator.Code,
					formatter.Truncate(e.Indicator.Name, 36),
					formatter.FormatValue(e.AchievedValue),
					evidence,
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "CODE", "INDICATOR", "ACHIEVED", "EVIDENCE"}, rows))
			return nil
		},
	}
}

func newReportEntryAddCmd(app *App) *cobra.Command {
	var indicatorID int64
	var achieved float64
	var remarks, evidencePath string

	cmd := &cobra.Command{
		Use:   "entry-add <report-id>",
		Short: "Record an achieved value, optionally attaching evidence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			in := ministry.EntryInput{
				IndicatorID:   indicatorID,
				AchievedValue: achieved,
				Remarks:       remarks,
			}
			if evidencePath != "" {
				f, err := os.Open(evidencePath)
				if err != nil {
					return fmt.Errorf("open evidence: %w", err)
				}
				defer f.Close()
				in.Evidence = f
				in.EvidenceName = filepath.Base(evidencePath)
			}

			entry, err := app.Reports.AddEntry(context.Background(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Added entry %d (achieved %s)\n",
				entry.ID, formatter.FormatValue(entry.AchievedValue))
			return nil
		},
	}

	cmd.Flags().Int64Var(&indicatorID, "indicator", 0, "Indicator id")
	cmd.Flags().Float64Var(&achieved, "achieved", 0, "Achieved value")
	cmd.Flags().StringVar(&remarks, "remarks", "", "Remarks")
	cmd.Flags().StringVar(&evidencePath, "evidence", "", "Path to an evidence file to upload")
	cmd.MarkFlagRequired("indicator")
	cmd.MarkFlagRequired("achieved")
	return cmd
}

func newReportSubmitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <id>",
		Short: "Submit a draft report for approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			report, err := app.Reports.Submit(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Report %d is now %s\n", report.ID, formatter.StatusBadge(report.Status))
			return nil
		},
	}
}

func newReportApproveCmd(app *App) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a submitted report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			report, err := app.Reports.Approve(context.Background(), id, message)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Report %d is now %s\n", report.ID, formatter.StatusBadge(report.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Optional approval note")
	return cmd
}

func newReportRejectCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a submitted report with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			report, err := app.Reports.Reject(context.Background(), id, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Report %d is now %s\n", report.ID, formatter.StatusBadge(report.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "message", "m", "", "Rejection reason (required)")
	return cmd
}

func newReportRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a quarterly report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if app.interactive() && !yes {
				ok, err := confirmDelete(fmt.Sprintf("report %d", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.out(), "Cancelled.")
					return nil
				}
			}
			if err := app.Reports.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Report %d removed.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
