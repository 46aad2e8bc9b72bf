package ministry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/state"
	"github.com/moa-plans/agriplan/internal/testutil"
)

type exchangeFixture struct {
	svc   ExchangeService
	store *state.Store
	dir   string
	log   *callLog
}

func newExchangeFixture(t *testing.T, fn http.HandlerFunc) exchangeFixture {
	t.Helper()
	log := &callLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		fn(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second, api.TokenFunc(func() string { return "tkn" }), api.NoopObserver{})
	store := testutil.NewTestStore(t)
	dir := t.TempDir()
	saver := NewExportSaver(client, store, dir)
	return exchangeFixture{svc: NewExchangeService(client, saver), store: store, dir: dir, log: log}
}

func TestImportUploadsMultipartFields(t *testing.T) {
	fx := newExchangeFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/import-export/import_data/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "QUARTERLY", r.FormValue("source"))
		assert.Equal(t, "2", r.FormValue("unit_id"))
		assert.Equal(t, "2026", r.FormValue("year"))
		assert.Equal(t, "3", r.FormValue("quarter"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "q3.csv", header.Filename)

		w.Write([]byte(`{"message": "Import completed successfully", "processed": 12, "failed": 1, "errors": ["row 7: unknown indicator"]}`))
	})

	result, err := fx.svc.Import(context.Background(), ImportInput{
		Source:   ImportQuarterly,
		UnitID:   2,
		Year:     2026,
		Quarter:  3,
		FileName: "q3.csv",
		File:     strings.NewReader("indicator_code,achieved_value\nCROP-01,42.5\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
}

func TestImportQuarterlyRequiresQuarter(t *testing.T) {
	fx := newExchangeFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := fx.svc.Import(context.Background(), ImportInput{
		Source: ImportQuarterly,
		UnitID: 2,
		Year:   2026,
		File:   strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.KindOf(err))
	assert.Empty(t, fx.log.all(), "invalid input must not waste the upload")
}

func TestExportAnnualPlansSavesAndRecords(t *testing.T) {
	fx := newExchangeFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/import-export/export_annual_plans/", r.URL.Path)
		assert.Equal(t, "2026", r.URL.Query().Get("year"))
		w.Header().Set("Content-Disposition", `attachment; filename="annual_plans_2026.csv"`)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("unit,year,status\nCrops,2026,APPROVED\n"))
	})

	file, err := fx.svc.ExportAnnualPlans(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, "annual_plans_2026.csv", file.Name)
	assert.Equal(t, filepath.Join(fx.dir, "annual_plans_2026.csv"), file.Path)

	data, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Crops,2026,APPROVED")
	assert.Equal(t, int64(len(data)), file.Size)

	records, err := fx.store.ListExports(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "annual_plans_2026.csv", records[0].Filename)
	assert.Equal(t, file.Size, records[0].ByteSize)
}

func TestExportQuarterlyReportsFallbackFilename(t *testing.T) {
	fx := newExchangeFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("quarter"))
		// No Content-Disposition header; the client names the file itself.
		w.Write([]byte("unit,quarter\n"))
	})

	file, err := fx.svc.ExportQuarterlyReports(context.Background(), 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, "quarterly_reports_2026_Q3.csv", file.Name)
}
