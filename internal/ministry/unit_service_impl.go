package ministry

import (
	"context"
	"fmt"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/gateway"
)

type unitService struct {
	client *api.Client
	gw     *gateway.Gateway
}

func NewUnitService(client *api.Client, gw *gateway.Gateway) UnitService {
	return &unitService{client: client, gw: gw}
}

func (s *unitService) List(ctx context.Context) ([]domain.Unit, error) {
	var payload []unitPayload
	if err := s.client.Get(ctx, "/units/", nil, &payload); err != nil {
		return nil, err
	}
	units := make([]domain.Unit, 0, len(payload))
	for _, p := range payload {
		units = append(units, p.toDomain())
	}
	return units, nil
}

func (s *unitService) Get(ctx context.Context, id int64) (*domain.Unit, error) {
	var payload unitPayload
	if err := s.client.Get(ctx, fmt.Sprintf("/units/%d/", id), nil, &payload); err != nil {
		return nil, err
	}
	unit := payload.toDomain()
	return &unit, nil
}

func (s *unitService) Create(ctx context.Context, in UnitInput) (*domain.Unit, error) {
	body := map[string]any{
		"name":   in.Name,
		"type":   in.Type,
		"parent": in.ParentID,
	}
	var payload unitPayload
	if err := s.client.Post(ctx, "/units/", body, &payload); err != nil {
		return nil, err
	}
	unit := payload.toDomain()
	return &unit, nil
}

func (s *unitService) Update(ctx context.Context, id int64, in UnitInput) (*domain.Unit, error) {
	body := map[string]any{
		"name":   in.Name,
		"type":   in.Type,
		"parent": in.ParentID,
	}
	var payload unitPayload
	if err := s.client.Put(ctx, fmt.Sprintf("/units/%d/", id), body, &payload); err != nil {
		return nil, err
	}
	unit := payload.toDomain()
	return &unit, nil
}

func (s *unitService) Statistics(ctx context.Context, id int64) (*domain.UnitStatistics, error) {
	var payload statisticsPayload
	if err := s.client.Get(ctx, fmt.Sprintf("/units/%d/statistics/", id), nil, &payload); err != nil {
		return nil, err
	}
	stats := payload.toDomain()
	return &stats, nil
}

func (s *unitService) Usage(ctx context.Context, id int64) (*gateway.UnitUsage, error) {
	return s.gw.ProbeUnitUsage(ctx, id)
}

func (s *unitService) Delete(ctx context.Context, id int64) error {
	return s.gw.DeleteUnit(ctx, id)
}

func (s *unitService) ForceDelete(ctx context.Context, id int64) error {
	return s.gw.ForceDeleteUnit(ctx, id)
}
