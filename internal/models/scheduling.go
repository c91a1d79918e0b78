package models

// ConflictType classifies a scheduling constraint violation
type ConflictType string

const (
	ConflictTimeOverlap ConflictType = "time_overlap"
	ConflictUnavailable ConflictType = "unavailable"
	ConflictMaxHours    ConflictType = "max_hours"
	ConflictNoRest      ConflictType = "no_rest_period"
)

// ConflictSeverity indicates whether a conflict blocks an assignment
type ConflictSeverity string

const (
	SeverityCritical ConflictSeverity = "critical" // blocks assignment
	SeverityWarning  ConflictSeverity = "warning"  // advisory only
	SeverityInfo     ConflictSeverity = "info"
)

// Conflict describes one violated scheduling constraint for a driver
type Conflict struct {
	Type     ConflictType     `json:"type"`
	Severity ConflictSeverity `json:"severity"`
	DriverID string           `json:"driver_id"`
	TripID   string           `json:"trip_id,omitempty"`
	Detail   string           `json:"detail"`
}

// IsCritical reports whether the conflict blocks an assignment
func (c Conflict) IsCritical() bool {
	return c.Severity == SeverityCritical
}

// Availability is the outcome of checking one driver against one time slot
type Availability struct {
	Available bool       `json:"available"`
	Conflicts []Conflict `json:"conflicts"`
}

// ShiftAssignment is a proposed (not committed) driver-to-trip pairing
type ShiftAssignment struct {
	TripID     string   `json:"trip_id"`
	DriverID   string   `json:"driver_id"`
	DriverName string   `json:"driver_name"`
	Confidence int      `json:"confidence"` // 0-100, clamped at reporting
	Reasoning  []string `json:"reasoning"`
}

// AssignmentPlan is the result of auto-assigning one day's unassigned trips.
// Nothing is written until a caller explicitly commits the proposals.
type AssignmentPlan struct {
	Date        string            `json:"date"`
	Assignments []ShiftAssignment `json:"assignments"`
	Unassigned  []string          `json:"unassigned"` // trip ids no driver fit
}

// WorkloadMetrics summarises one driver's utilization over a period
type WorkloadMetrics struct {
	DriverID        string  `json:"driver_id"`
	DriverName      string  `json:"driver_name"`
	TotalHours      float64 `json:"total_hours"`
	TotalTrips      int     `json:"total_trips"`
	TotalDistance   float64 `json:"total_distance_miles"`
	DaysWorked      int     `json:"days_worked"`
	AvgHoursPerDay  float64 `json:"avg_hours_per_day"`
	UtilizationPct  float64 `json:"utilization_pct"` // capped at 100
}

// ClampScore bounds a raw fitness score to the externally reported 0-100 range.
// Internal scoring is deliberately unclamped so relative ordering survives.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
