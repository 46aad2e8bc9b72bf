package ministry

import (
	"time"

	"github.com/moa-plans/agriplan/internal/domain"
)

// Wire payloads mirror the backend's snake_case JSON. They exist only to
// decode responses; everything leaves this package as domain structs.

type unitPayload struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Type          domain.UnitType `json:"type"`
	Parent        *int64          `json:"parent"`
	ParentName    string          `json:"parent_name"`
	ChildrenCount int             `json:"children_count"`
	UsersCount    int             `json:"users_count"`
}

func (p unitPayload) toDomain() domain.Unit {
	return domain.Unit{
		ID:            p.ID,
		Name:          p.Name,
		Type:          p.Type,
		ParentID:      p.Parent,
		ParentName:    p.ParentName,
		ChildrenCount: p.ChildrenCount,
		UsersCount:    p.UsersCount,
	}
}

type userPayload struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

func (p userPayload) toDomain() domain.User {
	return domain.User{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		IsActive:  p.IsActive,
	}
}

type profilePayload struct {
	ID   int64           `json:"id"`
	Role domain.UserRole `json:"role"`
	Unit *unitPayload    `json:"unit"`
}

type indicatorPayload struct {
	ID            int64       `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	OwnerUnit     unitPayload `json:"owner_unit"`
	UnitOfMeasure string      `json:"unit_of_measure"`
	Active        bool        `json:"active"`
}

func (p indicatorPayload) toDomain() domain.Indicator {
	return domain.Indicator{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		OwnerUnit:     p.OwnerUnit.toDomain(),
		UnitOfMeasure: p.UnitOfMeasure,
		Active:        p.Active,
	}
}

type planPayload struct {
	ID           int64                 `json:"id"`
	Year         int                   `json:"year"`
	Unit         unitPayload           `json:"unit"`
	Status       domain.WorkflowStatus `json:"status"`
	CreatedBy    userPayload           `json:"created_by"`
	SubmittedAt  *time.Time            `json:"submitted_at"`
	ApprovedAt   *time.Time            `json:"approved_at"`
	TargetsCount int                   `json:"targets_count"`
}

func (p planPayload) toDomain() domain.AnnualPlan {
	return domain.AnnualPlan{
		ID:           p.ID,
		Year:         p.Year,
		Unit:         p.Unit.toDomain(),
		Status:       p.Status,
		CreatedBy:    p.CreatedBy.toDomain(),
		SubmittedAt:  p.SubmittedAt,
		ApprovedAt:   p.ApprovedAt,
		TargetsCount: p.TargetsCount,
	}
}

type targetPayload struct {
	ID          int64            `json:"id"`
	Plan        int64            `json:"plan"`
	Indicator   indicatorPayload `json:"indicator"`
	TargetValue float64          `json:"target_value"`
	Baseline    float64          `json:"baseline"`
	Remarks     string           `json:"remarks"`
}

func (p targetPayload) toDomain() domain.PlanTarget {
	return domain.PlanTarget{
		ID:          p.ID,
		PlanID:      p.Plan,
		Indicator:   p.Indicator.toDomain(),
		TargetValue: p.TargetValue,
		Baseline:    p.Baseline,
		Remarks:     p.Remarks,
	}
}

type reportPayload struct {
	ID           int64                 `json:"id"`
	Year         int                   `json:"year"`
	Quarter      int                   `json:"quarter"`
	QuarterLabel string                `json:"quarter_display"`
	Unit         unitPayload           `json:"unit"`
	Status       domain.WorkflowStatus `json:"status"`
	CreatedBy    userPayload           `json:"created_by"`
	SubmittedAt  *time.Time            `json:"submitted_at"`
	ApprovedAt   *time.Time            `json:"approved_at"`
	EntriesCount int                   `json:"entries_count"`
}

func (p reportPayload) toDomain() domain.QuarterlyReport {
	return domain.QuarterlyReport{
		ID:           p.ID,
		Year:         p.Year,
		Quarter:      p.Quarter,
		QuarterLabel: p.QuarterLabel,
		Unit:         p.Unit.toDomain(),
		Status:       p.Status,
		CreatedBy:    p.CreatedBy.toDomain(),
		SubmittedAt:  p.SubmittedAt,
		ApprovedAt:   p.ApprovedAt,
		EntriesCount: p.EntriesCount,
	}
}

type entryPayload struct {
	ID            int64            `json:"id"`
	Report        int64            `json:"report"`
	Indicator     indicatorPayload `json:"indicator"`
	AchievedValue float64          `json:"achieved_value"`
	Remarks       string           `json:"remarks"`
	Evidence      string           `json:"evidence"`
}

func (p entryPayload) toDomain() domain.ReportEntry {
	return domain.ReportEntry{
		ID:            p.ID,
		ReportID:      p.Report,
		Indicator:     p.Indicator.toDomain(),
		AchievedValue: p.AchievedValue,
		Remarks:       p.Remarks,
		Evidence:      p.Evidence,
	}
}

type auditPayload struct {
	ID            int64              `json:"id"`
	Action        domain.AuditAction `json:"action"`
	ActionDisplay string             `json:"action_display"`
	Message       string             `json:"message"`
	CreatedAt     time.Time          `json:"created_at"`
	Actor         userPayload        `json:"actor"`
	Unit          unitPayload        `json:"unit"`
}

func (p auditPayload) toDomain() domain.WorkflowAuditEntry {
	entry := domain.WorkflowAuditEntry{
		ID:            p.ID,
		Action:        p.Action,
		ActionDisplay: p.ActionDisplay,
		Message:       p.Message,
		CreatedAt:     p.CreatedAt,
		Actor:         p.Actor.toDomain(),
		Unit:          p.Unit.toDomain(),
	}
	if entry.ActionDisplay == "" {
		entry.ActionDisplay = string(p.Action)
	}
	return entry
}

type statsPayload struct {
	TotalUnits         int `json:"total_units"`
	TotalIndicators    int `json:"total_indicators"`
	SubmittedPlans     int `json:"submitted_plans"`
	ApprovedPlans      int `json:"approved_plans"`
	PendingApprovals   int `json:"pending_approvals"`
	PerformanceReports int `json:"performance_reports"`
}

func (p statsPayload) toDomain() domain.DashboardStats {
	return domain.DashboardStats{
		TotalUnits:         p.TotalUnits,
		TotalIndicators:    p.TotalIndicators,
		SubmittedPlans:     p.SubmittedPlans,
		ApprovedPlans:      p.ApprovedPlans,
		PendingApprovals:   p.PendingApprovals,
		PerformanceReports: p.PerformanceReports,
	}
}

type summaryPayload struct {
	Year               int     `json:"year"`
	TotalPlans         int     `json:"total_plans"`
	ApprovedPlans      int     `json:"approved_plans"`
	TotalReports       int     `json:"total_reports"`
	ApprovedReports    int     `json:"approved_reports"`
	PlanApprovalRate   float64 `json:"plan_approval_rate"`
	ReportApprovalRate float64 `json:"report_approval_rate"`
}

func (p summaryPayload) toDomain() domain.PerformanceSummary {
	return domain.PerformanceSummary{
		Year:               p.Year,
		TotalPlans:         p.TotalPlans,
		ApprovedPlans:      p.ApprovedPlans,
		TotalReports:       p.TotalReports,
		ApprovedReports:    p.ApprovedReports,
		PlanApprovalRate:   p.PlanApprovalRate,
		ReportApprovalRate: p.ReportApprovalRate,
	}
}

type performancePayload struct {
	ID               int64      `json:"id"`
	IndicatorID      int64      `json:"indicator_id"`
	Year             int        `json:"year"`
	Quarter          int        `json:"quarter"`
	PlanValue        *float64   `json:"plan_value"`
	PerformanceValue *float64   `json:"performance_value"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

func (p performancePayload) toDomain() domain.PerformanceData {
	return domain.PerformanceData{
		ID:               p.ID,
		IndicatorID:      p.IndicatorID,
		Year:             p.Year,
		Quarter:          p.Quarter,
		PlanValue:        p.PlanValue,
		PerformanceValue: p.PerformanceValue,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type statisticsPayload struct {
	IndicatorsCount       int `json:"indicators_count"`
	AnnualPlansCount      int `json:"annual_plans_count"`
	QuarterlyReportsCount int `json:"quarterly_reports_count"`
	PendingApprovals      int `json:"pending_approvals"`
}

func (p statisticsPayload) toDomain() domain.UnitStatistics {
	return domain.UnitStatistics{
		IndicatorsCount:       p.IndicatorsCount,
		AnnualPlansCount:      p.AnnualPlansCount,
		QuarterlyReportsCount: p.QuarterlyReportsCount,
		PendingApprovals:      p.PendingApprovals,
	}
}
