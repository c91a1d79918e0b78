package models

// LeaveStatus represents the approval state of a leave request
type LeaveStatus string

const (
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusPending  LeaveStatus = "pending"
)

// LeaveRequest represents a driver's absence over a date range.
// Only approved leave blocks scheduling.
type LeaveRequest struct {
	ID        string      `json:"id" db:"id"`
	CompanyID string      `json:"company_id" db:"company_id"`
	DriverID  string      `json:"driver_id" db:"driver_id"`
	StartDate string      `json:"start_date" db:"start_date"` // YYYY-MM-DD inclusive
	EndDate   string      `json:"end_date" db:"end_date"`     // YYYY-MM-DD inclusive
	Status    LeaveStatus `json:"status" db:"status"`
	LeaveType string      `json:"leave_type" db:"leave_type"` // "holiday", "sick", "other"
	CreatedAt int64       `json:"created_at" db:"created_at"`
}

// Covers reports whether the leave range includes the given date.
// Dates are ISO strings, so lexical comparison matches chronological order.
func (l *LeaveRequest) Covers(date string) bool {
	return l.StartDate <= date && date <= l.EndDate
}
