package domain

// Unit is an organisational office/node in the ministry hierarchy.
// ChildrenCount and UsersCount are derived server-side; the client treats
// them as read-only display values.
type Unit struct {
	ID            int64
	Name          string
	Type          UnitType
	ParentID      *int64
	ParentName    string
	ChildrenCount int
	UsersCount    int
}

// TypeLabel returns the display name for the unit's type, falling back to
// the raw value for types this client does not know.
func (u *Unit) TypeLabel() string {
	if label, ok := UnitTypeLabels[u.Type]; ok {
		return label
	}
	return string(u.Type)
}

// UnitStatistics is the per-unit activity snapshot for the current year.
type UnitStatistics struct {
	IndicatorsCount       int
	AnnualPlansCount      int
	QuarterlyReportsCount int
	PendingApprovals      int
}

// Indicator is a named, coded metric owned by exactly one unit. It is
// referenced by plan targets, report entries, and raw performance data.
type Indicator struct {
	ID            int64
	Code          string
	Name          string
	Description   string
	OwnerUnit     Unit
	UnitOfMeasure string
	Active        bool
}
