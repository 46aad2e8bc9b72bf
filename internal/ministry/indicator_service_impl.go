package ministry

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/gateway"
)

type indicatorService struct {
	client *api.Client
	gw     *gateway.Gateway
}

func NewIndicatorService(client *api.Client, gw *gateway.Gateway) IndicatorService {
	return &indicatorService{client: client, gw: gw}
}

func (s *indicatorService) List(ctx context.Context, filter IndicatorFilter) ([]domain.Indicator, error) {
	query := url.Values{}
	if filter.UnitID != 0 {
		query.Set("unit", strconv.FormatInt(filter.UnitID, 10))
	}
	if filter.ActiveOnly {
		query.Set("active", "true")
	}
	var payload []indicatorPayload
	if err := s.client.Get(ctx, "/indicators/", query, &payload); err != nil {
		return nil, err
	}
	indicators := make([]domain.Indicator, 0, len(payload))
	for _, p := range payload {
		indicators = append(indicators, p.toDomain())
	}
	return indicators, nil
}

func (s *indicatorService) Get(ctx context.Context, id int64) (*domain.Indicator, error) {
	var payload indicatorPayload
	if err := s.client.Get(ctx, fmt.Sprintf("/indicators/%d/", id), nil, &payload); err != nil {
		return nil, err
	}
	ind := payload.toDomain()
	return &ind, nil
}

func (s *indicatorService) Create(ctx context.Context, in IndicatorInput) (*domain.Indicator, error) {
	var payload indicatorPayload
	if err := s.client.Post(ctx, "/indicators/", indicatorBody(in), &payload); err != nil {
		return nil, err
	}
	ind := payload.toDomain()
	return &ind, nil
}

func (s *indicatorService) Update(ctx context.Context, id int64, in IndicatorInput) (*domain.Indicator, error) {
	var payload indicatorPayload
	if err := s.client.Put(ctx, fmt.Sprintf("/indicators/%d/", id), indicatorBody(in), &payload); err != nil {
		return nil, err
	}
	ind := payload.toDomain()
	return &ind, nil
}

func (s *indicatorService) Usage(ctx context.Context, id int64) (*gateway.IndicatorUsage, error) {
	return s.gw.ProbeIndicatorUsage(ctx, id)
}

func (s *indicatorService) Delete(ctx context.Context, id int64) error {
	return s.gw.DeleteIndicator(ctx, id)
}

func (s *indicatorService) ForceDelete(ctx context.Context, id int64) error {
	return s.gw.ForceDeleteIndicator(ctx, id)
}

func indicatorBody(in IndicatorInput) map[string]any {
	return map[string]any{
		"code":            in.Code,
		"name":            in.Name,
		"description":     in.Description,
		"owner_unit_id":   in.OwnerUnitID,
		"unit_of_measure": in.UnitOfMeasure,
		"active":          in.Active,
	}
}
