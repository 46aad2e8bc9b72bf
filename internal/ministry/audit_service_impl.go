package ministry

import (
	"context"
	"net/url"
	"strconv"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
)

type auditService struct {
	client *api.Client
}

func NewAuditService(client *api.Client) AuditService {
	return &auditService{client: client}
}

func (s *auditService) List(ctx context.Context, filter AuditFilter) ([]domain.WorkflowAuditEntry, error) {
	query := url.Values{}
	if filter.UnitID != 0 {
		query.Set("unit", strconv.FormatInt(filter.UnitID, 10))
	}
	if filter.Action != "" {
		query.Set("action", string(filter.Action))
	}
	if filter.Limit != 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	var payload []auditPayload
	if err := s.client.Get(ctx, "/audit/", query, &payload); err != nil {
		return nil, err
	}
	entries := make([]domain.WorkflowAuditEntry, 0, len(payload))
	for _, p := range payload {
		entries = append(entries, p.toDomain())
	}
	return entries, nil
}
