package domain

// UnitType identifies where an organisational unit sits in the
// ministry hierarchy.
type UnitType string

const (
	UnitStrategic     UnitType = "STRATEGIC"
	UnitStateMinister UnitType = "STATE_MINISTER"
	UnitAdvisor       UnitType = "ADVISOR"
)

// UnitTypeLabels maps unit types to their display names.
var UnitTypeLabels = map[UnitType]string{
	UnitStrategic:     "Strategic Affairs Office",
	UnitStateMinister: "State Minister Office",
	UnitAdvisor:       "State Minister Advisor Office",
}

type UserRole string

const (
	RoleSuperadmin       UserRole = "SUPERADMIN"
	RoleStrategicAffairs UserRole = "STRATEGIC_AFFAIRS"
	RoleStateMinister    UserRole = "STATE_MINISTER"
	RoleAdvisor          UserRole = "ADVISOR"
)

// WorkflowStatus is the shared status enumeration for annual plans and
// quarterly reports. Transitions are server-enforced; the client only
// issues explicit submit/approve/reject calls, never a raw status write.
type WorkflowStatus string

const (
	StatusDraft     WorkflowStatus = "DRAFT"
	StatusSubmitted WorkflowStatus = "SUBMITTED"
	StatusApproved  WorkflowStatus = "APPROVED"
	StatusRejected  WorkflowStatus = "REJECTED"
)

// Final reports whether the status is terminal for the workflow. Dependents
// in a final status are never deleted by client-side remediation, only
// detached.
func (s WorkflowStatus) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// AuditAction identifies the kind of action recorded in a workflow audit
// entry.
type AuditAction string

const (
	ActionCreate  AuditAction = "CREATE"
	ActionUpdate  AuditAction = "UPDATE"
	ActionSubmit  AuditAction = "SUBMIT"
	ActionApprove AuditAction = "APPROVE"
	ActionReject  AuditAction = "REJECT"
	ActionImport  AuditAction = "IMPORT"
	ActionDelete  AuditAction = "DELETE"
)

// ValidQuarters is the accepted set of reporting quarters.
var ValidQuarters = map[int]bool{1: true, 2: true, 3: true, 4: true}
