package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/ministry"
)

func newImportCmd(app *App) *cobra.Command {
	var file string
	var quarterly bool
	var unitID int64
	var year, quarter int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import plans or reports from a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			source := ministry.ImportAnnual
			if quarterly {
				source = ministry.ImportQuarterly
			}

			stop := formatter.StartSpinner(app.out(), "Importing "+filepath.Base(file))
			res, err := app.Exchange.Import(context.Background(), ministry.ImportInput{
				Source:   source,
				UnitID:   unitID,
				Year:     year,
				Quarter:  quarter,
				FileName: filepath.Base(file),
				File:     f,
			})
			stop()
			if err != nil {
				return err
			}

			out := app.out()
			fmt.Fprintf(out, "Imported %d row(s)\n", res.Processed)
			if res.Failed > 0 {
				fmt.Fprintln(out, formatter.Warn(fmt.Sprintf("%d row(s) failed:", res.Failed)))
				for _, msg := range res.Errors {
					fmt.Fprintln(out, "  "+formatter.Dim(msg))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Spreadsheet to import")
	cmd.Flags().BoolVar(&quarterly, "quarterly", false, "Import quarterly report rows instead of annual plan rows")
	cmd.Flags().Int64Var(&unitID, "unit", 0, "Target unit id")
	cmd.Flags().IntVar(&year, "year", 0, "Target year")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Target quarter (required with --quarterly)")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("unit")
	cmd.MarkFlagRequired("year")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export planning data to CSV files",
	}

	cmd.AddCommand(
		newExportPlansCmd(app),
		newExportReportsCmd(app),
		newExportIndicatorsCmd(app),
		newExportAuditCmd(app),
		newExportLogCmd(app),
	)
	return cmd
}

func reportExported(app *App, file *ministry.ExportedFile, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out(), "Wrote %s (%d bytes)\n", file.Path, file.Size)
	return nil
}

func newExportPlansCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Export annual plans for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := app.Exchange.ExportAnnualPlans(context.Background(), year)
			return reportExported(app, file, err)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year")
	cmd.MarkFlagRequired("year")
	return cmd
}

func newExportReportsCmd(app *App) *cobra.Command {
	var year, quarter int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Export quarterly reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := app.Exchange.ExportQuarterlyReports(context.Background(), year, quarter)
			return reportExported(app, file, err)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Quarter (omit for the whole year)")
	cmd.MarkFlagRequired("year")
	return cmd
}

func newExportIndicatorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "Export the indicator catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := app.Exchange.ExportIndicators(context.Background())
			return reportExported(app, file, err)
		},
	}
}

func newExportAuditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Export the workflow audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := app.Exchange.ExportAuditLog(context.Background())
			return reportExported(app, file, err)
		},
	}
}

func newExportLogCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List previous exports recorded locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Local.ListExports(context.Background(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.Filename,
					strconv.FormatInt(r.ByteSize, 10),
					formatter.FormatDateTime(r.CreatedAt),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "FILE", "BYTES", "WHEN"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to show")
	return cmd
}
