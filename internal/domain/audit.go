package domain

import "time"

// WorkflowAuditEntry is one immutable record from the backend's append-only
// workflow log. The client never writes these; they arrive fully formed.
type WorkflowAuditEntry struct {
	ID            int64
	Action        AuditAction
	ActionDisplay string
	Message       string
	CreatedAt     time.Time
	Actor         User
	Unit          Unit
}

// DashboardStats is the aggregate snapshot rendered on the dashboard.
type DashboardStats struct {
	TotalUnits         int
	TotalIndicators    int
	SubmittedPlans     int
	ApprovedPlans      int
	PendingApprovals   int
	PerformanceReports int
}

// PerformanceSummary aggregates plan and report approval rates for a year.
type PerformanceSummary struct {
	Year               int
	TotalPlans         int
	ApprovedPlans      int
	TotalReports       int
	ApprovedReports    int
	PlanApprovalRate   float64
	ReportApprovalRate float64
}

// PerformanceData is a raw data point: planned versus achieved value for
// one indicator in one quarter.
type PerformanceData struct {
	ID               int64
	IndicatorID      int64
	Year             int
	Quarter          int
	PlanValue        *float64
	PerformanceValue *float64
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}
