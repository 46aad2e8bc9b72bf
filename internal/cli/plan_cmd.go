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

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage annual plans and their targets",
	}

	cmd.AddCommand(
		newPlanListCmd(app),
		newPlanAddCmd(app),
		newPlanTargetsCmd(app),
		newPlanTargetAddCmd(app),
		newPlanSubmitCmd(app),
		newPlanApproveCmd(app),
		newPlanRejectCmd(app),
		newPlanBulkCmd(app, "bulk-approve"),
		newPlanBulkCmd(app, "bulk-reject"),
		newPlanRemoveCmd(app),
	)
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var year int
	var unitID int64
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List annual plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(context.Background(), ministry.PlanFilter{
				Year:   year,
				UnitID: unitID,
				Status: domain.WorkflowStatus(strings.ToUpper(status)),
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					strconv.Itoa(p.Year),
					p.Unit.Name,
					formatter.StatusBadge(p.Status),
					strconv.Itoa(p.TargetsCount),
					formatter.FormatDate(p.SubmittedAt),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "YEAR", "UNIT", "STATUS", "TARGETS", "SUBMITTED"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year")
	cmd.Flags().Int64Var(&unitID, "unit", 0, "Filter by unit id")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, submitted, approved, rejected)")
	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var year int
	var unitID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an annual plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.Create(context.Background(), ministry.PlanInput{
				Year:   year,
				UnitID: unitID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Created plan %d for %s, %d\n", plan.ID, plan.Unit.Name, plan.Year)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Plan year")
	cmd.Flags().Int64Var(&unitID, "unit", 0, "Unit id")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("unit")
	return cmd
}

func newPlanTargetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "targets <plan-id>",
		Short: "List a plan's targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			targets, err := app.Plans.Targets(context.Background(), id)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(targets))
			for _, t := range targets {
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10),
					t.Indicator.Code,
					formatter.Truncate(t.Indicator.Name, 36),
					formatter.FormatValue(t.Baseline),
					formatter.FormatValue(t.TargetValue),
					formatter.Truncate(t.Remarks, 30),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "CODE", "INDICATOR", "BASELINE", "TARGET", "REMARKS"}, rows))
			return nil
		},
	}
}

func newPlanTargetAddCmd(app *App) *cobra.Command {
	var indicatorID int64
	var target, baseline float64
	var remarks string

	cmd := &cobra.Command{
		Use:   "target-add <plan-id>",
		Short: "Attach an indicator target to a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := app.Plans.AddTarget(context.Background(), id, ministry.TargetInput{
				IndicatorID: indicatorID,
				TargetValue: target,
				Baseline:    baseline,
				Remarks:     remarks,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Added target %d (%s → %s)\n",
				t.ID, formatter.FormatValue(t.Baseline), formatter.FormatValue(t.TargetValue))
			return nil
		},
	}

	cmd.Flags().Int64Var(&indicatorID, "indicator", 0, "Indicator id")
	cmd.Flags().Float64Var(&target, "target", 0, "Target value")
	cmd.Flags().Float64Var(&baseline, "baseline", 0, "Baseline value")
	cmd.Flags().StringVar(&remarks, "remarks", "", "Remarks")
	cmd.MarkFlagRequired("indicator")
	cmd.MarkFlagRequired("target")
	return cmd
}

func newPlanSubmitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <id>",
		Short: "Submit a draft plan for approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.Submit(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Plan %d is now %s\n", plan.ID, formatter.StatusBadge(plan.Status))
			return nil
		},
	}
}

func newPlanApproveCmd(app *App) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a submitted plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.Approve(context.Background(), id, message)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Plan %d is now %s\n", plan.ID, formatter.StatusBadge(plan.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Optional approval note")
	return cmd
}

func newPlanRejectCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a submitted plan with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.Reject(context.Background(), id, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Plan %d is now %s\n", plan.ID, formatter.StatusBadge(plan.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "message", "m", "", "Rejection reason (required)")
	return cmd
}

func parseIDList(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newPlanBulkCmd(app *App, verb string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   verb + " <id>...",
		Short: "Apply a decision to several submitted plans at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDList(args)
			if err != nil {
				return err
			}

			var res *ministry.BulkResult
			if verb == "bulk-approve" {
				res, err = app.Plans.BulkApprove(context.Background(), ids)
			} else {
				res, err = app.Plans.BulkReject(context.Background(), ids, reason)
			}
			if err != nil {
				return err
			}

			out := app.out()
			if res.Approved > 0 {
				fmt.Fprintf(out, "Approved %d plan(s)\n", res.Approved)
			}
			if res.Rejected > 0 {
				fmt.Fprintf(out, "Rejected %d plan(s)\n", res.Rejected)
			}
			if res.Skipped > 0 {
				fmt.Fprintln(out, formatter.Warn(fmt.Sprintf("Skipped %d plan(s) not awaiting approval", res.Skipped)))
			}
			return nil
		},
	}

	if verb == "bulk-reject" {
		cmd.Flags().StringVarP(&reason, "message", "m", "", "Rejection reason (required)")
	}
	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an annual plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if app.interactive() && !yes {
				ok, err := confirmDelete(fmt.Sprintf("plan %d", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.out(), "Cancelled.")
					return nil
				}
			}
			if err := app.Plans.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Plan %d removed.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
