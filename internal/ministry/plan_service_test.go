package ministry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/gateway"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, r.Method+" "+r.URL.Path)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func newPlanService(t *testing.T, fn http.HandlerFunc) (PlanService, *callLog) {
	t.Helper()
	log := &callLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		fn(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second, api.TokenFunc(func() string { return "tkn" }), api.NoopObserver{})
	return NewPlanService(client, gateway.New(client, nil)), log
}

func TestAddTargetFallsBackToSecondRoute(t *testing.T) {
	svc, log := newPlanService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/annual-plans/3/targets/" {
			http.Error(w, `{"detail": "Not found."}`, http.StatusNotFound)
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 11, body["indicator_id"])
		assert.EqualValues(t, 250, body["target_value"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": 91, "plan": 3,
			"indicator": {"id": 11, "code": "CROP-01", "name": "Wheat yield", "owner_unit": {"id": 2, "name": "Crops"}},
			"target_value": 250, "baseline": 180, "remarks": "stretch goal"
		}`))
	})

	target, err := svc.AddTarget(context.Background(), 3, TargetInput{
		IndicatorID: 11,
		TargetValue: 250,
		Baseline:    180,
		Remarks:     "stretch goal",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(91), target.ID)
	assert.Equal(t, int64(3), target.PlanID)
	assert.Equal(t, "CROP-01", target.Indicator.Code)
	assert.Equal(t, 250.0, target.TargetValue)

	calls := log.all()
	require.Len(t, calls, 2, "first candidate misses, second hits, rest untouched")
	assert.Equal(t, "POST /annual-plans/3/add_target/", calls[0])
	assert.Equal(t, "POST /annual-plans/3/targets/", calls[1])
}

func TestAddTargetAggregatesWhenNoRouteExists(t *testing.T) {
	svc, log := newPlanService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Not found."}`, http.StatusNotFound)
	})

	_, err := svc.AddTarget(context.Background(), 3, TargetInput{IndicatorID: 11})
	var agg *api.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Attempts, 6)
	assert.Len(t, log.all(), 6)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, log := newPlanService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty reason")
	})

	_, err := svc.Reject(context.Background(), 5, "")
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.KindOf(err))
	assert.Empty(t, log.all())
}

func TestRejectPostsReason(t *testing.T) {
	svc, _ := newPlanService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/annual-plans/5/reject/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "targets incomplete", body["message"])
		w.Write([]byte(`{"id": 5, "year": 2026, "status": "REJECTED", "unit": {"id": 2, "name": "Crops"}, "created_by": {"id": 1}}`))
	})

	plan, err := svc.Reject(context.Background(), 5, "targets incomplete")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, plan.Status)
}

func TestSubmitPostsTransition(t *testing.T) {
	svc, log := newPlanService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5, "year": 2026, "status": "SUBMITTED", "unit": {"id": 2}, "created_by": {"id": 1}, "submitted_at": "2026-08-29T09:00:00Z"}`))
	})

	plan, err := svc.Submit(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, plan.Status)
	require.NotNil(t, plan.SubmittedAt)
	assert.Equal(t, []string{"POST /annual-plans/5/submit/"}, log.all())
}

func TestBulkApproveTriesCollectionRouteFirst(t *testing.T) {
	svc, log := newPlanService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/annual-plans/bulk_approve/" {
			http.Error(w, `{"detail": "Not found."}`, http.StatusNotFound)
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body["plan_ids"], 3)
		w.Write([]byte(`{"message": "2 plans approved successfully", "approved_count": 2}`))
	})

	result, err := svc.BulkApprove(context.Background(), []int64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Approved)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{
		"POST /annual-plans/bulk_approve/",
		"POST /annual-plans/4/bulk_approve/",
	}, log.all())
}

func TestListMapsFiltersAndPayload(t *testing.T) {
	svc, _ := newPlanService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026", r.URL.Query().Get("year"))
		assert.Equal(t, "2", r.URL.Query().Get("unit"))
		assert.Equal(t, "SUBMITTED", r.URL.Query().Get("status"))
		w.Write([]byte(`[{
			"id": 5, "year": 2026, "status": "SUBMITTED",
			"unit": {"id": 2, "name": "Crops", "type": "STATE_MINISTER"},
			"created_by": {"id": 1, "username": "meron"},
			"targets_count": 4
		}]`))
	})

	plans, err := svc.List(context.Background(), PlanFilter{Year: 2026, UnitID: 2, Status: domain.StatusSubmitted})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Crops", plans[0].Unit.Name)
	assert.Equal(t, domain.UnitStateMinister, plans[0].Unit.Type)
	assert.Equal(t, 4, plans[0].TargetsCount)
	assert.Equal(t, "meron", plans[0].CreatedBy.Username)
}
