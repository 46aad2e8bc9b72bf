package domain

import "time"

// AnnualPlan is a yearly commitment of per-indicator targets for one unit.
// Uniqueness per (unit, year) is a server concern.
type AnnualPlan struct {
	ID           int64
	Year         int
	Unit         Unit
	Status       WorkflowStatus
	CreatedBy    User
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	TargetsCount int
	Targets      []PlanTarget
}

// PlanTarget is one indicator commitment inside an annual plan.
type PlanTarget struct {
	ID          int64
	PlanID      int64
	Indicator   Indicator
	TargetValue float64
	Baseline    float64
	Remarks     string
}

// QuarterlyReport is a per-quarter submission of achieved values against
// indicators for one unit.
type QuarterlyReport struct {
	ID           int64
	Year         int
	Quarter      int
	QuarterLabel string
	Unit         Unit
	Status       WorkflowStatus
	CreatedBy    User
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	EntriesCount int
	Entries      []ReportEntry
}

// ReportEntry is one achieved value inside a quarterly report. Evidence
// holds the server-side path of an uploaded attachment, if any.
type ReportEntry struct {
	ID            int64
	ReportID      int64
	Indicator     Indicator
	AchievedValue float64
	Remarks       string
	Evidence      string
}
