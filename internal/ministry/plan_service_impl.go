package ministry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/gateway"
)

type planService struct {
	client *api.Client
	gw     *gateway.Gateway
}

func NewPlanService(client *api.Client, gw *gateway.Gateway) PlanService {
	return &planService{client: client, gw: gw}
}

func (s *planService) List(ctx context.Context, filter PlanFilter) ([]domain.AnnualPlan, error) {
	query := url.Values{}
	if filter.Year != 0 {
		query.Set("year", strconv.Itoa(filter.Year))
	}
	if filter.UnitID != 0 {
		query.Set("unit", strconv.FormatInt(filter.UnitID, 10))
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	var payload []planPayload
	if err := s.client.Get(ctx, "/annual-plans/", query, &payload); err != nil {
		return nil, err
	}
	plans := make([]domain.AnnualPlan, 0, len(payload))
	for _, p := range payload {
		plans = append(plans, p.toDomain())
	}
	return plans, nil
}

func (s *planService) Get(ctx context.Context, id int64) (*domain.AnnualPlan, error) {
	var payload planPayload
	if err := s.client.Get(ctx, fmt.Sprintf("/annual-plans/%d/", id), nil, &payload); err != nil {
		return nil, err
	}
	plan := payload.toDomain()
	return &plan, nil
}

func (s *planService) Create(ctx context.Context, in PlanInput) (*domain.AnnualPlan, error) {
	body := map[string]any{
		"year":    in.Year,
		"unit_id": in.UnitID,
	}
	var payload planPayload
	if err := s.client.Post(ctx, "/annual-plans/", body, &payload); err != nil {
		return nil, err
	}
	plan := payload.toDomain()
	return &plan, nil
}

func (s *planService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/annual-plans/%d/", id), nil)
}

func (s *planService) Targets(ctx context.Context, planID int64) ([]domain.PlanTarget, error) {
	var payload []targetPayload
	if err := s.client.Get(ctx, fmt.Sprintf("/annual-plans/%d/targets/", planID), nil, &payload); err != nil {
		return nil, err
	}
	targets := make([]domain.PlanTarget, 0, len(payload))
	for _, p := range payload {
		targets = append(targets, p.toDomain())
	}
	return targets, nil
}

// AddTarget creates one indicator target on a draft plan. The route for
// this action has shifted across backend versions (custom action,
// nested router, flat collection, hyphen/underscore spellings), so the
// known spellings are tried in priority order through the fallback
// executor.
func (s *planService) AddTarget(ctx context.Context, planID int64, in TargetInput) (*domain.PlanTarget, error) {
	// The flat-collection candidates need the plan reference in the body;
	// the nested ones ignore it.
	body := map[string]any{
		"plan":         planID,
		"indicator_id": in.IndicatorID,
		"target_value": in.TargetValue,
		"baseline":     in.Baseline,
		"remarks":      in.Remarks,
	}
	candidates := []gateway.Candidate{
		{Method: http.MethodPost, Path: fmt.Sprintf("/annual-plans/%d/add_target/", planID)},
		{Method: http.MethodPost, Path: fmt.Sprintf("/annual-plans/%d/targets/", planID)},
		{Method: http.MethodPost, Path: fmt.Sprintf("/annual-plans/%d/add-target/", planID)},
		{Method: http.MethodPost, Path: "/annual-plan-targets/"},
		{Method: http.MethodPost, Path: "/plan-targets/"},
		{Method: http.MethodPost, Path: fmt.Sprintf("/plans/%d/targets/", planID)},
	}

	var payload targetPayload
	op := fmt.Sprintf("add target to plan %d", planID)
	if err := s.gw.Execute(ctx, op, candidates, body, &payload); err != nil {
		return nil, err
	}
	target := payload.toDomain()
	if target.PlanID == 0 {
		target.PlanID = planID
	}
	return &target, nil
}

func (s *planService) Submit(ctx context.Context, id int64) (*domain.AnnualPlan, error) {
	return s.transition(ctx, id, "submit", "")
}

func (s *planService) Approve(ctx context.Context, id int64, message string) (*domain.AnnualPlan, error) {
	return s.transition(ctx, id, "approve", message)
}

// Reject requires a reason so the submitting unit knows what to fix.
func (s *planService) Reject(ctx context.Context, id int64, reason string) (*domain.AnnualPlan, error) {
	if reason == "" {
		return nil, &api.Error{
			Kind:    api.KindValidation,
			Message: "a rejection reason is required",
			Fields:  map[string][]string{"message": {"This field is required."}},
		}
	}
	return s.transition(ctx, id, "reject", reason)
}

func (s *planService) transition(ctx context.Context, id int64, action, message string) (*domain.AnnualPlan, error) {
	var body map[string]any
	if message != "" {
		body = map[string]any{"message": message}
	}
	var payload planPayload
	path := fmt.Sprintf("/annual-plans/%d/%s/", id, action)
	if err := s.client.Post(ctx, path, body, &payload); err != nil {
		return nil, err
	}
	plan := payload.toDomain()
	return &plan, nil
}

// BulkApprove approves every submitted plan in ids. The bulk actions
// were registered as detail routes on some backend builds and as
// collection routes on others; both spellings are tried.
func (s *planService) BulkApprove(ctx context.Context, ids []int64) (*BulkResult, error) {
	return s.bulk(ctx, "bulk_approve", ids, "")
}

func (s *planService) BulkReject(ctx context.Context, ids []int64, reason string) (*BulkResult, error) {
	if reason == "" {
		return nil, &api.Error{
			Kind:    api.KindValidation,
			Message: "a rejection reason is required",
			Fields:  map[string][]string{"reason": {"This field is required."}},
		}
	}
	return s.bulk(ctx, "bulk_reject", ids, reason)
}

func (s *planService) bulk(ctx context.Context, action string, ids []int64, reason string) (*BulkResult, error) {
	if len(ids) == 0 {
		return &BulkResult{}, nil
	}
	body := map[string]any{"plan_ids": ids}
	if reason != "" {
		body["reason"] = reason
	}
	candidates := []gateway.Candidate{
		{Method: http.MethodPost, Path: fmt.Sprintf("/annual-plans/%s/", action)},
		{Method: http.MethodPost, Path: fmt.Sprintf("/annual-plans/%d/%s/", ids[0], action)},
	}

	var payload struct {
		Message       string `json:"message"`
		ApprovedCount int    `json:"approved_count"`
		RejectedCount int    `json:"rejected_count"`
	}
	op := fmt.Sprintf("%s %d plans", action, len(ids))
	if err := s.gw.Execute(ctx, op, candidates, body, &payload); err != nil {
		return nil, err
	}

	result := &BulkResult{Approved: payload.ApprovedCount, Rejected: payload.RejectedCount}
	result.Skipped = len(ids) - result.Approved - result.Rejected
	return result, nil
}
