package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/cli"
	"github.com/moa-plans/agriplan/internal/config"
	"github.com/moa-plans/agriplan/internal/gateway"
	"github.com/moa-plans/agriplan/internal/ministry"
	"github.com/moa-plans/agriplan/internal/session"
	"github.com/moa-plans/agriplan/internal/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	database, err := state.OpenDB(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer database.Close()
	store := state.NewStore(database)

	// The session store is the client's token source, and the client is
	// the session store's transport. Bind resolves the cycle.
	sessions := session.NewStore(store)

	var observer api.Observer = api.NoopObserver{}
	var gwObserver gateway.Observer = gateway.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewLogObserver(os.Stderr)
		gwObserver = gateway.NewLogObserver(os.Stderr)
	}
	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout, sessions, observer)
	sessions.Bind(client)

	gw := gateway.New(client, gwObserver)
	saver := ministry.NewExportSaver(client, store, cfg.ExportDir)

	app := &cli.App{
		Session:     sessions,
		Local:       store,
		Units:       ministry.NewUnitService(client, gw),
		Indicators:  ministry.NewIndicatorService(client, gw),
		Plans:       ministry.NewPlanService(client, gw),
		Reports:     ministry.NewReportService(client, gw),
		Users:       ministry.NewUserService(client),
		Performance: ministry.NewPerformanceService(client, saver),
		Dashboard:   ministry.NewDashboardService(client),
		Audit:       ministry.NewAuditService(client),
		Exchange:    ministry.NewExchangeService(client, saver),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
