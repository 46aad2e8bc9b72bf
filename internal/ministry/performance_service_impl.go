package ministry

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
)

type performanceService struct {
	client *api.Client
	saver  *ExportSaver
}

func NewPerformanceService(client *api.Client, saver *ExportSaver) PerformanceService {
	return &performanceService{client: client, saver: saver}
}

func (f PerformanceFilter) query() url.Values {
	query := url.Values{}
	if f.Year != 0 {
		query.Set("year", strconv.Itoa(f.Year))
	}
	if f.Quarter != 0 {
		query.Set("quarter", strconv.Itoa(f.Quarter))
	}
	if f.IndicatorID != 0 {
		query.Set("indicator_id", strconv.FormatInt(f.IndicatorID, 10))
	}
	return query
}

func (s *performanceService) List(ctx context.Context, filter PerformanceFilter) ([]domain.PerformanceData, error) {
	var payload []performancePayload
	if err := s.client.Get(ctx, "/performance-data/", filter.query(), &payload); err != nil {
		return nil, err
	}
	points := make([]domain.PerformanceData, 0, len(payload))
	for _, p := range payload {
		points = append(points, p.toDomain())
	}
	return points, nil
}

func (s *performanceService) Get(ctx context.Context, id int64) (*domain.PerformanceData, error) {
	var payload performancePayload
	if err := s.client.Get(ctx, fmt.Sprintf("/performance-data/%d/", id), nil, &payload); err != nil {
		return nil, err
	}
	point := payload.toDomain()
	return &point, nil
}

func (s *performanceService) Create(ctx context.Context, in PerformanceInput) (*domain.PerformanceData, error) {
	var payload performancePayload
	if err := s.client.Post(ctx, "/performance-data/", performanceBody(in), &payload); err != nil {
		return nil, err
	}
	point := payload.toDomain()
	return &point, nil
}

func (s *performanceService) Update(ctx context.Context, id int64, in PerformanceInput) (*domain.PerformanceData, error) {
	var payload performancePayload
	if err := s.client.Put(ctx, fmt.Sprintf("/performance-data/%d/", id), performanceBody(in), &payload); err != nil {
		return nil, err
	}
	point := payload.toDomain()
	return &point, nil
}

func (s *performanceService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/performance-data/%d/", id), nil)
}

// BulkUpdate sends all updates in one request and returns the number of
// records the server reports as updated.
func (s *performanceService) BulkUpdate(ctx context.Context, updates []PerformanceUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	body := map[string]any{"updates": updates}
	var payload struct {
		UpdatedCount int `json:"updated_count"`
	}
	if err := s.client.Post(ctx, "/performance-data/bulk-update/", body, &payload); err != nil {
		return 0, err
	}
	return payload.UpdatedCount, nil
}

func (s *performanceService) Export(ctx context.Context, filter PerformanceFilter) (*ExportedFile, error) {
	return s.saver.download(ctx, "/performance-data/export/", filter.query(), "performance_data.csv")
}

func performanceBody(in PerformanceInput) map[string]any {
	return map[string]any{
		"indicator_id":      in.IndicatorID,
		"year":              in.Year,
		"quarter":           in.Quarter,
		"plan_value":        in.PlanValue,
		"performance_value": in.PerformanceValue,
	}
}
