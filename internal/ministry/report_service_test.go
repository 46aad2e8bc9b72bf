package ministry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/gateway"
)

func newReportService(t *testing.T, fn http.HandlerFunc) ReportService {
	t.Helper()
	srv := httptest.NewServer(fn)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second, api.TokenFunc(func() string { return "tkn" }), api.NoopObserver{})
	return NewReportService(client, gateway.New(client, nil))
}

func TestCreateReportValidatesQuarter(t *testing.T) {
	svc := newReportService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid quarter")
	})

	_, err := svc.Create(context.Background(), ReportInput{Year: 2026, Quarter: 5, UnitID: 2})
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.KindOf(err))
}

func TestAddEntryWithEvidenceUploadsMultipart(t *testing.T) {
	svc := newReportService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quarterly-entries/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "8", r.FormValue("report"))
		assert.Equal(t, "11", r.FormValue("indicator_id"))
		assert.Equal(t, "42.5", r.FormValue("achieved_value"))

		file, header, err := r.FormFile("evidence")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.pdf", header.Filename)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": 60, "report": 8,
			"indicator": {"id": 11, "code": "CROP-01", "owner_unit": {"id": 2}},
			"achieved_value": 42.5, "remarks": "", "evidence": "/media/evidence/receipt.pdf"
		}`))
	})

	entry, err := svc.AddEntry(context.Background(), 8, EntryInput{
		IndicatorID:   11,
		AchievedValue: 42.5,
		EvidenceName:  "receipt.pdf",
		Evidence:      strings.NewReader("%PDF-1.4 fake"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60), entry.ID)
	assert.Equal(t, int64(8), entry.ReportID)
	assert.Equal(t, "/media/evidence/receipt.pdf", entry.Evidence)
}

func TestAddEntryWithoutEvidenceUsesJSONFallback(t *testing.T) {
	log := &callLog{}
	svc := newReportService(t, func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		if r.URL.Path != "/quarterly-entries/" {
			http.Error(w, `{"detail": "Not found."}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 61, "report": 8, "indicator": {"id": 11, "owner_unit": {"id": 2}}, "achieved_value": 10}`))
	})

	entry, err := svc.AddEntry(context.Background(), 8, EntryInput{IndicatorID: 11, AchievedValue: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(61), entry.ID)
	assert.Equal(t, []string{
		"POST /quarterly-reports/8/add_entry/",
		"POST /quarterly-reports/8/entries/",
		"POST /quarterly-entries/",
	}, log.all())
}

func TestServerCrashOnTransitionSuggestsDependencyFault(t *testing.T) {
	svc := newReportService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<!DOCTYPE html><html><body>IntegrityError at /quarterly-reports/8/approve/</body></html>"))
	})

	_, err := svc.Approve(context.Background(), 8, "")
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.KindServerFault, apiErr.Kind)
	assert.True(t, apiErr.HTMLBody)
	assert.Contains(t, apiErr.UserMessage(), "crashed")
	assert.NotContains(t, apiErr.UserMessage(), "rejected the submitted values")
}
