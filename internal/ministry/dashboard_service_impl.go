package ministry

import (
	"context"
	"net/url"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
)

type dashboardService struct {
	client *api.Client
}

func NewDashboardService(client *api.Client) DashboardService {
	return &dashboardService{client: client}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var payload statsPayload
	if err := s.client.Get(ctx, "/dashboard/stats/", nil, &payload); err != nil {
		return nil, err
	}
	stats := payload.toDomain()
	return &stats, nil
}

func (s *dashboardService) RecentActivities(ctx context.Context) ([]domain.WorkflowAuditEntry, error) {
	var payload []auditPayload
	if err := s.client.Get(ctx, "/dashboard/recent_activities/", nil, &payload); err != nil {
		return nil, err
	}
	entries := make([]domain.WorkflowAuditEntry, 0, len(payload))
	for _, p := range payload {
		entries = append(entries, p.toDomain())
	}
	return entries, nil
}

func (s *dashboardService) PendingApprovals(ctx context.Context) ([]domain.AnnualPlan, error) {
	var payload []planPayload
	if err := s.client.Get(ctx, "/dashboard/pending_approvals/", nil, &payload); err != nil {
		return nil, err
	}
	plans := make([]domain.AnnualPlan, 0, len(payload))
	for _, p := range payload {
		plans = append(plans, p.toDomain())
	}
	return plans, nil
}

func (s *dashboardService) PerformanceSummary(ctx context.Context, year int) (*domain.PerformanceSummary, error) {
	var query url.Values
	if year != 0 {
		query = url.Values{"year": {strconv.Itoa(year)}}
	}
	var payload summaryPayload
	if err := s.client.Get(ctx, "/dashboard/performance_summary/", query, &payload); err != nil {
		return nil, err
	}
	summary := payload.toDomain()
	return &summary, nil
}
