package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/ministry"
	"github.com/moa-plans/agriplan/internal/session"
	"github.com/moa-plans/agriplan/internal/state"
)

// App holds references to the session store and all service interfaces
// used by CLI commands.
type App struct {
	Session *session.Store
	Local   *state.Store

	Units       ministry.UnitService
	Indicators  ministry.IndicatorService
	Plans       ministry.PlanService
	Reports     ministry.ReportService
	Users       ministry.UserService
	Performance ministry.PerformanceService
	Dashboard   ministry.DashboardService
	Audit       ministry.AuditService
	Exchange    ministry.ExchangeService

	// IsInteractive gates huh forms and TUI views; non-interactive runs
	// must get everything from flags.
	IsInteractive func() bool

	Out io.Writer
}

func (app *App) out() io.Writer {
	if app.Out != nil {
		return app.Out
	}
	return os.Stdout
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "agriplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "agriplan",
		Short:         "Ministry planning and performance client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newUnitCmd(app),
		newIndicatorCmd(app),
		newPlanCmd(app),
		newReportCmd(app),
		newUserCmd(app),
		newDataCmd(app),
		newDashboardCmd(app),
		newAuditCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}
