package scheduling

import (
	"fmt"
	"strconv"
	"strings"

	"fleetdesk-backend/internal/models"
)

// MaxDailyMinutes is the advisory daily driving cap (9 hours).
// Exceeding it raises a warning but never blocks an assignment.
const MaxDailyMinutes = 540

// ScheduleReader is the read contract the engine consumes from the data
// layer. Every call fetches fresh; the engine holds no state between calls.
type ScheduleReader interface {
	ListActiveDrivers(companyID string) ([]models.Driver, error)
	ListTripsForDriverDate(companyID, driverID, date string) ([]models.Trip, error)
	ListTripsInRange(companyID, startDate, endDate string) ([]models.Trip, error)
	ListApprovedLeave(companyID, driverID, date string) ([]models.LeaveRequest, error)
}

// Checker decides whether one driver can take one trip at one time
type Checker struct {
	store ScheduleReader
}

func NewChecker(store ScheduleReader) *Checker {
	return &Checker{store: store}
}

// Check runs the availability checks for a candidate slot:
// approved leave, same-day trip overlap, then the daily-hour cap.
// Available means no critical conflict; warnings never block.
func (c *Checker) Check(companyID, driverID, date, startTime string, durationMinutes int) (*models.Availability, error) {
	return c.CheckExcluding(companyID, driverID, date, startTime, durationMinutes, "")
}

// CheckExcluding is Check with one trip left out of the overlap and
// daily-cap scans. Used when re-validating a trip that is itself already
// persisted, which would otherwise always conflict with its own record.
func (c *Checker) CheckExcluding(companyID, driverID, date, startTime string, durationMinutes int, excludeTripID string) (*models.Availability, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		durationMinutes = models.DefaultTripDurationMinutes
	}
	end := start + durationMinutes

	conflicts := []models.Conflict{}

	// 1. Approved leave covering the date
	leave, err := c.store.ListApprovedLeave(companyID, driverID, date)
	if err != nil {
		return nil, err
	}
	for _, l := range leave {
		conflicts = append(conflicts, models.Conflict{
			Type:     models.ConflictUnavailable,
			Severity: models.SeverityCritical,
			DriverID: driverID,
			Detail:   fmt.Sprintf("Driver on approved %s leave %s to %s", l.LeaveType, l.StartDate, l.EndDate),
		})
	}

	// 2. Overlap with existing non-cancelled trips on the same day
	trips, err := c.store.ListTripsForDriverDate(companyID, driverID, date)
	if err != nil {
		return nil, err
	}
	dayMinutes := 0
	for _, trip := range trips {
		if trip.IsCancelled() || trip.ID == excludeTripID {
			continue
		}
		tripStart, err := ParseClock(trip.PickupTime)
		if err != nil {
			// A trip with an unparseable pickup time still occupies the day's cap
			dayMinutes += trip.Duration()
			continue
		}
		tripEnd := tripStart + trip.Duration()
		dayMinutes += trip.Duration()

		if start < tripEnd && tripStart < end {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictTimeOverlap,
				Severity: models.SeverityCritical,
				DriverID: driverID,
				TripID:   trip.ID,
				Detail:   fmt.Sprintf("Overlaps existing trip at %s (%d min)", trip.PickupTime, trip.Duration()),
			})
		}
	}

	// 3. Daily-hour cap, advisory only
	if total := dayMinutes + durationMinutes; total > MaxDailyMinutes {
		conflicts = append(conflicts, models.Conflict{
			Type:     models.ConflictMaxHours,
			Severity: models.SeverityWarning,
			DriverID: driverID,
			Detail:   fmt.Sprintf("Day would total %d minutes, over the %d minute cap", total, MaxDailyMinutes),
		})
	}

	available := true
	for _, conflict := range conflicts {
		if conflict.IsCritical() {
			available = false
			break
		}
	}

	return &models.Availability{Available: available, Conflicts: conflicts}, nil
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
// All interval math is same-calendar-day; there is no midnight wraparound.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, NewValidationError("invalid time %q, expected HH:MM", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, NewValidationError("invalid time %q, expected HH:MM", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, NewValidationError("invalid time %q, expected HH:MM", clock)
	}
	return hours*60 + minutes, nil
}
