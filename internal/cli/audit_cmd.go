package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/ministry"
)

func newAuditCmd(app *App) *cobra.Command {
	var unitID int64
	var action string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Browse the workflow audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Audit.List(context.Background(), ministry.AuditFilter{
				UnitID: unitID,
				Action: domain.AuditAction(strings.ToUpper(action)),
				Limit:  limit,
			})
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
					formatter.Truncate(e.Message, 48),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"WHEN", "ACTION", "WHO", "UNIT", "MESSAGE"}, rows))
			return nil
		},
	}

	cmd.Flags().Int64Var(&unitID, "unit", 0, "Filter by unit id")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action (create, submit, approve, ...)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")
	return cmd
}
