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

type reportService struct {
	client *api.Client
	gw     *gateway.Gateway
}

func NewReportService(client *api.Client, gw *gateway.Gateway) ReportService {
	return &reportService{client: client, gw: gw}
}

func (s *reportService) List(ctx context.Context, filter ReportFilter) ([]domain.QuarterlyReport, error) {
	query := url.Values{}
	if filter.Year != 0 {
		query.Set("year", strconv.Itoa(filter.Year))
	}
	if filter.Quarter != 0 {
		query.Set("quarter", strconv.Itoa(filter.Quarter))
	}
	if filter.UnitID != 0 {
		query.Set("unit", strconv.FormatInt(filter.UnitID, 10))
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	var payload []reportPayload
	if err := s.client.Get(ctx, "/quarterly-reports/", query, &payload); err != nil {
		return nil, err
	}
	reports := make([]domain.QuarterlyReport, 0, len(payload))
	for _, p := range payload {
		reports = append(reports, p.toDomain())
	}
	return reports, nil
}

func (s *reportService) Get(ctx context.Context, id int64) (*domain.QuarterlyReport, error) {
	var payload reportPayload
	if err := s.client.Get(ctx, fmt.Sprintf("/quarterly-reports/%d/", id), nil, &payload); err != nil {
		return nil, err
	}
	report := payload.toDomain()
	return &report, nil
}

func (s *reportService) Create(ctx context.Context, in ReportInput) (*domain.QuarterlyReport, error) {
	if !domain.ValidQuarters[in.Quarter] {
		return nil, &api.Error{
			Kind:    api.KindValidation,
			Message: fmt.Sprintf("quarter must be 1-4, got %d", in.Quarter),
			Fields:  map[string][]string{"quarter": {"Quarter must be between 1 and 4."}},
		}
	}
	body := map[string]any{
		"year":    in.Year,
		"quarter": in.Quarter,
		"unit_id": in.UnitID,
	}
	var payload reportPayload
	if err := s.client.Post(ctx, "/quarterly-reports/", body, &payload); err != nil {
		return nil, err
	}
	report := payload.toDomain()
	return &report, nil
}

func (s *reportService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/quarterly-reports/%d/", id), nil)
}

func (s *reportService) Entries(ctx context.Context, reportID int64) ([]domain.ReportEntry, error) {
	var payload []entryPayload
	if err := s.client.Get(ctx, fmt.Sprintf("/quarterly-reports/%d/entries/", reportID), nil, &payload); err != nil {
		return nil, err
	}
	entries := make([]domain.ReportEntry, 0, len(payload))
	for _, p := range payload {
		entries = append(entries, p.toDomain())
	}
	return entries, nil
}

// AddEntry records one achieved value on a draft report. With an
// evidence attachment the entry goes up as multipart form data; without
// one it is plain JSON through the same fallback list as other
// uncertain write routes.
func (s *reportService) AddEntry(ctx context.Context, reportID int64, in EntryInput) (*domain.ReportEntry, error) {
	if in.Evidence != nil {
		return s.addEntryWithEvidence(ctx, reportID, in)
	}

	body := map[string]any{
		"report":         reportID,
		"indicator_id":   in.IndicatorID,
		"achieved_value": in.AchievedValue,
		"remarks":        in.Remarks,
	}
	candidates := []gateway.Candidate{
		{Method: http.MethodPost, Path: fmt.Sprintf("/quarterly-reports/%d/add_entry/", reportID)},
		{Method: http.MethodPost, Path: fmt.Sprintf("/quarterly-reports/%d/entries/", reportID)},
		{Method: http.MethodPost, Path: "/quarterly-entries/"},
	}

	var payload entryPayload
	op := fmt.Sprintf("add entry to report %d", reportID)
	if err := s.gw.Execute(ctx, op, candidates, body, &payload); err != nil {
		return nil, err
	}
	entry := payload.toDomain()
	if entry.ReportID == 0 {
		entry.ReportID = reportID
	}
	return &entry, nil
}

func (s *reportService) addEntryWithEvidence(ctx context.Context, reportID int64, in EntryInput) (*domain.ReportEntry, error) {
	fields := map[string]string{
		"report":         strconv.FormatInt(reportID, 10),
		"indicator_id":   strconv.FormatInt(in.IndicatorID, 10),
		"achieved_value": strconv.FormatFloat(in.AchievedValue, 'f', -1, 64),
		"remarks":        in.Remarks,
	}
	name := in.EvidenceName
	if name == "" {
		name = "evidence"
	}
	var payload entryPayload
	err := s.client.Upload(ctx, "/quarterly-entries/", fields, "evidence", name, in.Evidence, &payload)
	if err != nil {
		return nil, err
	}
	entry := payload.toDomain()
	if entry.ReportID == 0 {
		entry.ReportID = reportID
	}
	return &entry, nil
}

func (s *reportService) Submit(ctx context.Context, id int64) (*domain.QuarterlyReport, error) {
	return s.transition(ctx, id, "submit", "")
}

func (s *reportService) Approve(ctx context.Context, id int64, message string) (*domain.QuarterlyReport, error) {
	return s.transition(ctx, id, "approve", message)
}

func (s *reportService) Reject(ctx context.Context, id int64, reason string) (*domain.QuarterlyReport, error) {
	if reason == "" {
		return nil, &api.Error{
			Kind:    api.KindValidation,
			Message: "a rejection reason is required",
			Fields:  map[string][]string{"message": {"This field is required."}},
		}
	}
	return s.transition(ctx, id, "reject", reason)
}

func (s *reportService) transition(ctx context.Context, id int64, action, message string) (*domain.QuarterlyReport, error) {
	var body map[string]any
	if message != "" {
		body = map[string]any{"message": message}
	}
	var payload reportPayload
	path := fmt.Sprintf("/quarterly-reports/%d/%s/", id, action)
	if err := s.client.Post(ctx, path, body, &payload); err != nil {
		return nil, err
	}
	report := payload.toDomain()
	return &report, nil
}
