package ministry

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/state"
)

// ExportSaver writes blob downloads to the export directory and records
// them in the local state store so `export log` can list past downloads.
type ExportSaver struct {
	client *api.Client
	store  *state.Store
	dir    string
}

func NewExportSaver(client *api.Client, store *state.Store, dir string) *ExportSaver {
	return &ExportSaver{client: client, store: store, dir: dir}
}

func (s *ExportSaver) download(ctx context.Context, path string, query url.Values, fallbackName string) (*ExportedFile, error) {
	data, name, err := s.client.Download(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = fallbackName
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	dest := filepath.Join(s.dir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing export file: %w", err)
	}

	size := int64(len(data))
	if err := s.store.RecordExport(ctx, name, size); err != nil {
		return nil, fmt.Errorf("recording export: %w", err)
	}
	return &ExportedFile{Path: dest, Name: name, Size: size}, nil
}

type exchangeService struct {
	client *api.Client
	saver  *ExportSaver
}

func NewExchangeService(client *api.Client, saver *ExportSaver) ExchangeService {
	return &exchangeService{client: client, saver: saver}
}

// Import uploads a CSV or XLSX file of plan targets or report entries.
// Quarter is mandatory for quarterly imports, mirroring the server-side
// check so the upload is not wasted on a known rejection.
func (s *exchangeService) Import(ctx context.Context, in ImportInput) (*ImportResult, error) {
	if in.Source == ImportQuarterly && !domain.ValidQuarters[in.Quarter] {
		return nil, &api.Error{
			Kind:    api.KindValidation,
			Message: "quarter is required for quarterly imports",
			Fields:  map[string][]string{"quarter": {"Quarter must be between 1 and 4."}},
		}
	}

	fields := map[string]string{
		"source":  string(in.Source),
		"unit_id": strconv.FormatInt(in.UnitID, 10),
		"year":    strconv.Itoa(in.Year),
	}
	if in.Quarter != 0 {
		fields["quarter"] = strconv.Itoa(in.Quarter)
	}

	var payload struct {
		Message   string   `json:"message"`
		Processed int      `json:"processed"`
		Failed    int      `json:"failed"`
		Errors    []string `json:"errors"`
	}
	err := s.client.Upload(ctx, "/import-export/import_data/", fields, "file", in.FileName, in.File, &payload)
	if err != nil {
		return nil, err
	}
	return &ImportResult{
		Message:   payload.Message,
		Processed: payload.Processed,
		Failed:    payload.Failed,
		Errors:    payload.Errors,
	}, nil
}

func (s *exchangeService) ExportAnnualPlans(ctx context.Context, year int) (*ExportedFile, error) {
	query := url.Values{"year": {strconv.Itoa(year)}}
	fallback := fmt.Sprintf("annual_plans_%d.csv", year)
	return s.saver.download(ctx, "/import-export/export_annual_plans/", query, fallback)
}

func (s *exchangeService) ExportQuarterlyReports(ctx context.Context, year, quarter int) (*ExportedFile, error) {
	query := url.Values{"year": {strconv.Itoa(year)}}
	fallback := fmt.Sprintf("quarterly_reports_%d", year)
	if quarter != 0 {
		query.Set("quarter", strconv.Itoa(quarter))
		fallback += fmt.Sprintf("_Q%d", quarter)
	}
	return s.saver.download(ctx, "/import-export/export_quarterly_reports/", query, fallback+".csv")
}

func (s *exchangeService) ExportIndicators(ctx context.Context) (*ExportedFile, error) {
	return s.saver.download(ctx, "/import-export/export_indicators/", nil, "indicators.csv")
}

func (s *exchangeService) ExportAuditLog(ctx context.Context) (*ExportedFile, error) {
	return s.saver.download(ctx, "/import-export/export_audit_log/", nil, "audit_log.csv")
}
