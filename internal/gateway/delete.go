package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
)

// ForceDeleteError is the terminal failure of a force delete: every
// cascade endpoint was rejected and the client-side remediation walk
// could not clear the way either. Both halves are kept so the operator
// can see which routes were probed and what finally blocked.
type ForceDeleteError struct {
	Cascade     *api.AggregateError
	Remediation error
}

func (e *ForceDeleteError) Error() string {
	return fmt.Sprintf("%s; manual remediation also failed: %v", e.Cascade.Error(), e.Remediation)
}

func (e *ForceDeleteError) Unwrap() error { return e.Remediation }

// UserMessage combines the cascade and remediation failures verbosely.
func (e *ForceDeleteError) UserMessage() string {
	return e.Cascade.UserMessage() + " A manual cleanup of dependent records was attempted and also failed: " + e.Remediation.Error()
}

// DeleteUnit performs a plain delete. It fails fast when dependents
// exist; callers decide whether to escalate to ForceDeleteUnit.
func (g *Gateway) DeleteUnit(ctx context.Context, unitID int64) error {
	return g.client.Delete(ctx, fmt.Sprintf("/units/%d/", unitID), nil)
}

// DeleteIndicator performs a plain delete of an indicator.
func (g *Gateway) DeleteIndicator(ctx context.Context, indicatorID int64) error {
	return g.client.Delete(ctx, fmt.Sprintf("/indicators/%d/", indicatorID), nil)
}

// ForceDeleteUnit removes a unit together with its dependents. Cascade
// endpoint variants are tried first; only when the server supports none
// of them does the gateway fall back to walking the dependent
// collections itself: draft-state dependents are deleted, records that
// must survive have their unit reference detached, and the plain delete
// is retried exactly once. Authorization failures abort immediately at
// every stage.
func (g *Gateway) ForceDeleteUnit(ctx context.Context, unitID int64) error {
	path := fmt.Sprintf("/units/%d/", unitID)
	candidates := []Candidate{
		{Method: http.MethodDelete, Path: path, Query: url.Values{"cascade": {"true"}}, Terminal: true},
		{Method: http.MethodDelete, Path: path, Query: url.Values{"force": {"true"}}},
		{Method: http.MethodPost, Path: fmt.Sprintf("/units/%d/cascade-delete/", unitID)},
	}

	err := g.Execute(ctx, fmt.Sprintf("force delete unit %d", unitID), candidates, nil, nil)
	if err == nil {
		return nil
	}
	agg, ok := err.(*api.AggregateError)
	if !ok {
		return err
	}

	g.observer.OnGatewayEvent(Event{
		Type:      EventRemediationPass,
		Operation: fmt.Sprintf("force delete unit %d", unitID),
		Detail:    "cascade endpoints exhausted, removing dependents client-side",
	})

	if err := g.remediateUnitDependents(ctx, unitID); err != nil {
		if api.IsAuthFailure(err) {
			return err
		}
		return &ForceDeleteError{Cascade: agg, Remediation: err}
	}
	if err := g.DeleteUnit(ctx, unitID); err != nil {
		if api.IsAuthFailure(err) {
			return err
		}
		return &ForceDeleteError{Cascade: agg, Remediation: err}
	}
	return nil
}

// ForceDeleteIndicator removes an indicator and its dependents, with
// the same cascade-then-remediate shape as units. The only dependent
// collection reachable client-side is performance data; plan targets
// and report entries can only be swept by a server-side cascade.
func (g *Gateway) ForceDeleteIndicator(ctx context.Context, indicatorID int64) error {
	path := fmt.Sprintf("/indicators/%d/", indicatorID)
	candidates := []Candidate{
		{Method: http.MethodDelete, Path: path, Query: url.Values{"cascade": {"true"}}, Terminal: true},
		{Method: http.MethodDelete, Path: path, Query: url.Values{"force": {"true"}}},
		{Method: http.MethodPost, Path: fmt.Sprintf("/indicators/%d/cascade-delete/", indicatorID)},
	}

	err := g.Execute(ctx, fmt.Sprintf("force delete indicator %d", indicatorID), candidates, nil, nil)
	if err == nil {
		return nil
	}
	agg, ok := err.(*api.AggregateError)
	if !ok {
		return err
	}

	g.observer.OnGatewayEvent(Event{
		Type:      EventRemediationPass,
		Operation: fmt.Sprintf("force delete indicator %d", indicatorID),
		Detail:    "cascade endpoints exhausted, removing dependents client-side",
	})

	if err := g.remediateIndicatorDependents(ctx, indicatorID); err != nil {
		if api.IsAuthFailure(err) {
			return err
		}
		return &ForceDeleteError{Cascade: agg, Remediation: err}
	}
	if err := g.DeleteIndicator(ctx, indicatorID); err != nil {
		if api.IsAuthFailure(err) {
			return err
		}
		return &ForceDeleteError{Cascade: agg, Remediation: err}
	}
	return nil
}

// remediateUnitDependents clears everything that references the unit:
// child offices are reparented to the root, assigned users are
// detached, plans and reports still in a mutable workflow state are
// deleted, and finalized ones have their unit reference nulled so the
// approval record survives the unit.
func (g *Gateway) remediateUnitDependents(ctx context.Context, unitID int64) error {
	var units []struct {
		ID     int64  `json:"id"`
		Parent *int64 `json:"parent"`
	}
	if err := g.client.Get(ctx, "/units/", nil, &units); err != nil {
		return fmt.Errorf("listing child offices: %w", err)
	}
	for _, u := range units {
		if u.Parent == nil || *u.Parent != unitID {
			continue
		}
		body := map[string]any{"parent": nil}
		req := api.Request{Method: http.MethodPatch, Path: fmt.Sprintf("/units/%d/", u.ID), Body: body}
		if err := g.client.Do(ctx, req, nil); err != nil {
			return fmt.Errorf("detaching child office %d: %w", u.ID, err)
		}
	}

	query := url.Values{"unit": {strconv.FormatInt(unitID, 10)}}

	var users []struct {
		ID int64 `json:"id"`
	}
	if err := g.client.Get(ctx, "/users/", query, &users); err != nil {
		if api.IsAuthFailure(err) {
			return err
		}
		// Non-admin callers cannot list users; leave them for the server.
	}
	for _, u := range users {
		req := api.Request{
			Method: http.MethodPatch,
			Path:   fmt.Sprintf("/users/%d/update-user/", u.ID),
			Body:   map[string]any{"unit_id": nil},
		}
		if err := g.client.Do(ctx, req, nil); err != nil {
			return fmt.Errorf("detaching user %d: %w", u.ID, err)
		}
	}

	var plans []struct {
		ID     int64                 `json:"id"`
		Status domain.WorkflowStatus `json:"status"`
	}
	if err := g.client.Get(ctx, "/annual-plans/", query, &plans); err != nil {
		return fmt.Errorf("listing annual plans: %w", err)
	}
	for _, p := range plans {
		if p.Status.Final() {
			req := api.Request{
				Method: http.MethodPatch,
				Path:   fmt.Sprintf("/annual-plans/%d/", p.ID),
				Body:   map[string]any{"unit": nil},
			}
			if err := g.client.Do(ctx, req, nil); err != nil {
				return fmt.Errorf("detaching finalized plan %d: %w", p.ID, err)
			}
			continue
		}
		if err := g.client.Delete(ctx, fmt.Sprintf("/annual-plans/%d/", p.ID), nil); err != nil {
			return fmt.Errorf("deleting draft plan %d: %w", p.ID, err)
		}
	}

	var reports []struct {
		ID     int64                 `json:"id"`
		Status domain.WorkflowStatus `json:"status"`
	}
	if err := g.client.Get(ctx, "/quarterly-reports/", query, &reports); err != nil {
		return fmt.Errorf("listing quarterly reports: %w", err)
	}
	for _, r := range reports {
		if r.Status.Final() {
			req := api.Request{
				Method: http.MethodPatch,
				Path:   fmt.Sprintf("/quarterly-reports/%d/", r.ID),
				Body:   map[string]any{"unit": nil},
			}
			if err := g.client.Do(ctx, req, nil); err != nil {
				return fmt.Errorf("detaching finalized report %d: %w", r.ID, err)
			}
			continue
		}
		if err := g.client.Delete(ctx, fmt.Sprintf("/quarterly-reports/%d/", r.ID), nil); err != nil {
			return fmt.Errorf("deleting draft report %d: %w", r.ID, err)
		}
	}

	return nil
}

// remediateIndicatorDependents deletes the indicator's performance data
// points, the only dependent collection filterable by indicator.
func (g *Gateway) remediateIndicatorDependents(ctx context.Context, indicatorID int64) error {
	query := url.Values{"indicator_id": {strconv.FormatInt(indicatorID, 10)}}
	var points []struct {
		ID int64 `json:"id"`
	}
	if err := g.client.Get(ctx, "/performance-data/", query, &points); err != nil {
		return fmt.Errorf("listing performance data: %w", err)
	}
	for _, p := range points {
		if err := g.client.Delete(ctx, fmt.Sprintf("/performance-data/%d/", p.ID), nil); err != nil {
			return fmt.Errorf("deleting performance data %d: %w", p.ID, err)
		}
	}
	return nil
}
