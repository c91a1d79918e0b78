package scheduling

import "fleetdesk-backend/internal/models"

// Detector re-validates already-assigned trips over a date range as if
// each were being assigned fresh.
type Detector struct {
	checker *Checker
	store   ScheduleReader
}

func NewDetector(store ScheduleReader) *Detector {
	return &Detector{checker: NewChecker(store), store: store}
}

// Detect scans every non-cancelled, driver-assigned trip in the range and
// reports the conflicts an assignment made today would raise.
//
// Each trip is excluded from its own overlap scan: the trip is already
// persisted, so a literal re-check would report every trip as overlapping
// itself.
func (d *Detector) Detect(companyID, startDate, endDate string) ([]models.Conflict, error) {
	trips, err := d.store.ListTripsInRange(companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	conflicts := []models.Conflict{}
	for _, trip := range trips {
		if trip.DriverID == nil || trip.IsCancelled() {
			continue
		}

		availability, err := d.checker.CheckExcluding(
			companyID, *trip.DriverID, trip.Date, trip.PickupTime, trip.Duration(), trip.ID)
		if err != nil {
			if _, ok := err.(*ValidationError); ok {
				// Unparseable pickup time on a stored trip; nothing to re-check
				continue
			}
			return nil, err
		}

		for _, conflict := range availability.Conflicts {
			if conflict.TripID == "" {
				conflict.TripID = trip.ID
			}
			conflicts = append(conflicts, conflict)
		}
	}

	return conflicts, nil
}
