package ministry

import (
	"context"
	"io"

	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/gateway"
)

type UnitService interface {
	List(ctx context.Context) ([]domain.Unit, error)
	Get(ctx context.Context, id int64) (*domain.Unit, error)
	Create(ctx context.Context, in UnitInput) (*domain.Unit, error)
	Update(ctx context.Context, id int64, in UnitInput) (*domain.Unit, error)
	Statistics(ctx context.Context, id int64) (*domain.UnitStatistics, error)
	Usage(ctx context.Context, id int64) (*gateway.UnitUsage, error)
	Delete(ctx context.Context, id int64) error
	ForceDelete(ctx context.Context, id int64) error
}

type IndicatorService interface {
	List(ctx context.Context, filter IndicatorFilter) ([]domain.Indicator, error)
	Get(ctx context.Context, id int64) (*domain.Indicator, error)
	Create(ctx context.Context, in IndicatorInput) (*domain.Indicator, error)
	Update(ctx context.Context, id int64, in IndicatorInput) (*domain.Indicator, error)
	Usage(ctx context.Context, id int64) (*gateway.IndicatorUsage, error)
	Delete(ctx context.Context, id int64) error
	ForceDelete(ctx context.Context, id int64) error
}

type PlanService interface {
	List(ctx context.Context, filter PlanFilter) ([]domain.AnnualPlan, error)
	Get(ctx context.Context, id int64) (*domain.AnnualPlan, error)
	Create(ctx context.Context, in PlanInput) (*domain.AnnualPlan, error)
	Delete(ctx context.Context, id int64) error
	Targets(ctx context.Context, planID int64) ([]domain.PlanTarget, error)
	AddTarget(ctx context.Context, planID int64, in TargetInput) (*domain.PlanTarget, error)
	Submit(ctx context.Context, id int64) (*domain.AnnualPlan, error)
	Approve(ctx context.Context, id int64, message string) (*domain.AnnualPlan, error)
	Reject(ctx context.Context, id int64, reason string) (*domain.AnnualPlan, error)
	BulkApprove(ctx context.Context, ids []int64) (*BulkResult, error)
	BulkReject(ctx context.Context, ids []int64, reason string) (*BulkResult, error)
}

type ReportService interface {
	List(ctx context.Context, filter ReportFilter) ([]domain.QuarterlyReport, error)
	Get(ctx context.Context, id int64) (*domain.QuarterlyReport, error)
	Create(ctx context.Context, in ReportInput) (*domain.QuarterlyReport, error)
	Delete(ctx context.Context, id int64) error
	Entries(ctx context.Context, reportID int64) ([]domain.ReportEntry, error)
	AddEntry(ctx context.Context, reportID int64, in EntryInput) (*domain.ReportEntry, error)
	Submit(ctx context.Context, id int64) (*domain.QuarterlyReport, error)
	Approve(ctx context.Context, id int64, message string) (*domain.QuarterlyReport, error)
	Reject(ctx context.Context, id int64, reason string) (*domain.QuarterlyReport, error)
}

type UserService interface {
	List(ctx context.Context) ([]UserWithProfile, error)
	Create(ctx context.Context, in UserInput) (*UserWithProfile, error)
	Update(ctx context.Context, id int64, in UserUpdate) (*UserWithProfile, error)
	Delete(ctx context.Context, id int64) error
}

type PerformanceService interface {
	List(ctx context.Context, filter PerformanceFilter) ([]domain.PerformanceData, error)
	Get(ctx context.Context, id int64) (*domain.PerformanceData, error)
	Create(ctx context.Context, in PerformanceInput) (*domain.PerformanceData, error)
	Update(ctx context.Context, id int64, in PerformanceInput) (*domain.PerformanceData, error)
	Delete(ctx context.Context, id int64) error
	BulkUpdate(ctx context.Context, updates []PerformanceUpdate) (int, error)
	Export(ctx context.Context, filter PerformanceFilter) (*ExportedFile, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	RecentActivities(ctx context.Context) ([]domain.WorkflowAuditEntry, error)
	PendingApprovals(ctx context.Context) ([]domain.AnnualPlan, error)
	PerformanceSummary(ctx context.Context, year int) (*domain.PerformanceSummary, error)
}

type AuditService interface {
	List(ctx context.Context, filter AuditFilter) ([]domain.WorkflowAuditEntry, error)
}

type ExchangeService interface {
	Import(ctx context.Context, in ImportInput) (*ImportResult, error)
	ExportAnnualPlans(ctx context.Context, year int) (*ExportedFile, error)
	ExportQuarterlyReports(ctx context.Context, year, quarter int) (*ExportedFile, error)
	ExportIndicators(ctx context.Context) (*ExportedFile, error)
	ExportAuditLog(ctx context.Context) (*ExportedFile, error)
}

// UnitInput carries the writable unit fields. ParentID nil means a root
// office.
type UnitInput struct {
	Name     string
	Type     domain.UnitType
	ParentID *int64
}

type IndicatorFilter struct {
	UnitID     int64
	ActiveOnly bool
}

type IndicatorInput struct {
	Code          string
	Name          string
	Description   string
	OwnerUnitID   int64
	UnitOfMeasure string
	Active        bool
}

type PlanFilter struct {
	Year   int
	UnitID int64
	Status domain.WorkflowStatus
}

type PlanInput struct {
	Year   int
	UnitID int64
}

type TargetInput struct {
	IndicatorID int64
	TargetValue float64
	Baseline    float64
	Remarks     string
}

type ReportFilter struct {
	Year    int
	Quarter int
	UnitID  int64
	Status  domain.WorkflowStatus
}

type ReportInput struct {
	Year    int
	Quarter int
	UnitID  int64
}

// EntryInput carries one achieved value. Evidence is optional; when
// EvidenceName is set the entry is created via a multipart upload.
type EntryInput struct {
	IndicatorID   int64
	AchievedValue float64
	Remarks       string
	EvidenceName  string
	Evidence      io.Reader
}

// UserWithProfile pairs an account with its planning profile, the shape
// the list-with-profiles endpoint returns.
type UserWithProfile struct {
	User domain.User
	Role domain.UserRole
	Unit *domain.Unit
}

type UserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.UserRole
	UnitID    *int64
}

// UserUpdate carries partial user changes; nil fields are left untouched.
type UserUpdate struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *domain.UserRole
	UnitID    *int64
	IsActive  *bool
}

type PerformanceFilter struct {
	Year        int
	Quarter     int
	IndicatorID int64
}

type PerformanceInput struct {
	IndicatorID      int64
	Year             int
	Quarter          int
	PlanValue        *float64
	PerformanceValue *float64
}

type PerformanceUpdate struct {
	ID               int64    `json:"id"`
	PlanValue        *float64 `json:"plan_value,omitempty"`
	PerformanceValue *float64 `json:"performance_value,omitempty"`
}

type AuditFilter struct {
	UnitID int64
	Action domain.AuditAction
	Limit  int
}

type BulkResult struct {
	Approved int
	Rejected int
	Skipped  int
}

type ImportInput struct {
	Source   ImportSource
	UnitID   int64
	Year     int
	Quarter  int
	FileName string
	File     io.Reader
}

type ImportSource string

const (
	ImportAnnual    ImportSource = "ANNUAL"
	ImportQuarterly ImportSource = "QUARTERLY"
)

type ImportResult struct {
	Message   string
	Processed int
	Failed    int
	Errors    []string
}

// ExportedFile describes a blob download written to the export
// directory and recorded in the local state store.
type ExportedFile struct {
	Path string
	Name string
	Size int64
}
