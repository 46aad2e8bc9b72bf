package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
)

// UnitUsage counts the records that depend on a unit and would block or
// be swept up by its deletion.
type UnitUsage struct {
	Users        int
	Plans        int
	Reports      int
	ChildOffices int
}

// Blocked reports whether any dependent record exists.
func (u UnitUsage) Blocked() bool {
	return u.Users > 0 || u.Plans > 0 || u.Reports > 0 || u.ChildOffices > 0
}

// Describe lists the non-zero dependent counts for display.
func (u UnitUsage) Describe() []string {
	var parts []string
	if u.Users > 0 {
		parts = append(parts, fmt.Sprintf("%d assigned user(s)", u.Users))
	}
	if u.Plans > 0 {
		parts = append(parts, fmt.Sprintf("%d annual plan(s)", u.Plans))
	}
	if u.Reports > 0 {
		parts = append(parts, fmt.Sprintf("%d quarterly report(s)", u.Reports))
	}
	if u.ChildOffices > 0 {
		parts = append(parts, fmt.Sprintf("%d child office(s)", u.ChildOffices))
	}
	return parts
}

// IndicatorUsage counts the records that reference an indicator.
type IndicatorUsage struct {
	Plans      int
	Reports    int
	DataPoints int
}

func (u IndicatorUsage) Blocked() bool {
	return u.Plans > 0 || u.Reports > 0 || u.DataPoints > 0
}

func (u IndicatorUsage) Describe() []string {
	var parts []string
	if u.Plans > 0 {
		parts = append(parts, fmt.Sprintf("%d plan target(s)", u.Plans))
	}
	if u.Reports > 0 {
		parts = append(parts, fmt.Sprintf("%d report entry(ies)", u.Reports))
	}
	if u.DataPoints > 0 {
		parts = append(parts, fmt.Sprintf("%d performance data point(s)", u.DataPoints))
	}
	return parts
}

type unitUsagePayload struct {
	HasUsers        int `json:"has_users"`
	HasPlans        int `json:"has_plans"`
	HasReports      int `json:"has_reports"`
	HasChildOffices int `json:"has_child_offices"`
}

type indicatorUsagePayload struct {
	HasPlans      int `json:"has_plans"`
	HasReports    int `json:"has_reports"`
	HasDataPoints int `json:"has_data_points"`
}

// ProbeUnitUsage returns dependent counts for a unit. It prefers the
// dedicated usage endpoint; when the server does not expose it, counts
// are derived by cross-querying the dependent collections, which is
// slower and explicitly reported as a degraded probe. Permission
// failures are surfaced, never papered over with guessed counts.
func (g *Gateway) ProbeUnitUsage(ctx context.Context, unitID int64) (*UnitUsage, error) {
	var payload unitUsagePayload
	err := g.client.Get(ctx, fmt.Sprintf("/units/%d/usage/", unitID), nil, &payload)
	if err == nil {
		return &UnitUsage{
			Users:        payload.HasUsers,
			Plans:        payload.HasPlans,
			Reports:      payload.HasReports,
			ChildOffices: payload.HasChildOffices,
		}, nil
	}
	if api.IsAuthFailure(err) {
		return nil, err
	}
	if !isNotFound(err) {
		return nil, err
	}

	g.observer.OnGatewayEvent(Event{
		Type:      EventDegradedProbe,
		Operation: fmt.Sprintf("unit %d usage", unitID),
		Detail:    "dedicated usage endpoint absent, cross-querying collections",
	})
	return g.crossQueryUnitUsage(ctx, unitID)
}

// crossQueryUnitUsage derives dependent counts from the list endpoints.
// Individual collection failures degrade to a conservative guess rather
// than failing the whole probe: reporting "in use" for a unit that is
// free only costs the operator a force-delete prompt, while the reverse
// would let a blocked delete crash the server.
func (g *Gateway) crossQueryUnitUsage(ctx context.Context, unitID int64) (*UnitUsage, error) {
	usage := &UnitUsage{}

	children, err := g.countChildUnits(ctx, unitID)
	if err != nil {
		if api.IsAuthFailure(err) {
			return nil, err
		}
		return &UnitUsage{Users: 1, Plans: 1, Reports: 1}, nil
	}
	usage.ChildOffices = children

	query := url.Values{"unit": {strconv.FormatInt(unitID, 10)}}

	if n, err := g.countCollection(ctx, "/users/", query); err == nil {
		usage.Users = n
	} else if api.IsAuthFailure(err) {
		return nil, err
	} else {
		usage.Users = 1
	}

	if n, err := g.countCollection(ctx, "/annual-plans/", query); err == nil {
		usage.Plans = n
	} else if api.IsAuthFailure(err) {
		return nil, err
	}

	if n, err := g.countCollection(ctx, "/quarterly-reports/", query); err == nil {
		usage.Reports = n
	} else if api.IsAuthFailure(err) {
		return nil, err
	}

	return usage, nil
}

// ProbeIndicatorUsage returns dependent counts for an indicator, with
// the same dedicated-endpoint-then-cross-query degradation as units.
// Plan targets and report entries are not filterable by indicator on
// the list endpoints, so the degraded probe can only count performance
// data points; the cascade path handles the rest server-side.
func (g *Gateway) ProbeIndicatorUsage(ctx context.Context, indicatorID int64) (*IndicatorUsage, error) {
	var payload indicatorUsagePayload
	err := g.client.Get(ctx, fmt.Sprintf("/indicators/%d/usage/", indicatorID), nil, &payload)
	if err == nil {
		return &IndicatorUsage{
			Plans:      payload.HasPlans,
			Reports:    payload.HasReports,
			DataPoints: payload.HasDataPoints,
		}, nil
	}
	if api.IsAuthFailure(err) {
		return nil, err
	}
	if !isNotFound(err) {
		return nil, err
	}

	g.observer.OnGatewayEvent(Event{
		Type:      EventDegradedProbe,
		Operation: fmt.Sprintf("indicator %d usage", indicatorID),
		Detail:    "dedicated usage endpoint absent, cross-querying performance data",
	})

	usage := &IndicatorUsage{}
	query := url.Values{"indicator_id": {strconv.FormatInt(indicatorID, 10)}}
	if n, err := g.countCollection(ctx, "/performance-data/", query); err == nil {
		usage.DataPoints = n
	} else if api.IsAuthFailure(err) {
		return nil, err
	}
	return usage, nil
}

// countChildUnits counts units whose parent is unitID. The units list
// endpoint has no parent filter, so the whole collection is scanned.
func (g *Gateway) countChildUnits(ctx context.Context, unitID int64) (int, error) {
	var units []struct {
		Parent *int64 `json:"parent"`
	}
	if err := g.client.Get(ctx, "/units/", nil, &units); err != nil {
		return 0, err
	}
	count := 0
	for _, u := range units {
		if u.Parent != nil && *u.Parent == unitID {
			count++
		}
	}
	return count, nil
}

// countCollection returns the number of records a filtered list query
// yields. Only the length matters, so rows decode into empty structs.
func (g *Gateway) countCollection(ctx context.Context, path string, query url.Values) (int, error) {
	var rows []struct{}
	if err := g.client.Get(ctx, path, query, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func isNotFound(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.Kind == api.KindNotFound
}
