package scheduling

import (
	"time"

	"fleetdesk-backend/internal/models"
)

// Aggregator computes per-driver utilization over a period
type Aggregator struct {
	store ScheduleReader
}

func NewAggregator(store ScheduleReader) *Aggregator {
	return &Aggregator{store: store}
}

// Metrics returns workload figures for every active driver, including
// drivers with no trips in the period.
func (a *Aggregator) Metrics(companyID, startDate, endDate string) ([]models.WorkloadMetrics, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, NewValidationError("invalid start date %q", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, NewValidationError("invalid end date %q", endDate)
	}
	if end.Before(start) {
		return nil, NewValidationError("end date %s before start date %s", endDate, startDate)
	}

	drivers, err := a.store.ListActiveDrivers(companyID)
	if err != nil {
		return nil, err
	}
	trips, err := a.store.ListTripsInRange(companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	byDriver := map[string][]models.Trip{}
	for _, trip := range trips {
		if trip.DriverID == nil || trip.IsCancelled() {
			continue
		}
		byDriver[*trip.DriverID] = append(byDriver[*trip.DriverID], trip)
	}

	weeks := end.Sub(start).Hours() / (24 * 7)
	if weeks < 1 {
		weeks = 1
	}

	metrics := make([]models.WorkloadMetrics, 0, len(drivers))
	for _, driver := range drivers {
		m := models.WorkloadMetrics{DriverID: driver.ID, DriverName: driver.Name}

		dates := map[string]bool{}
		for _, trip := range byDriver[driver.ID] {
			m.TotalHours += float64(trip.Duration()) / 60
			m.TotalTrips++
			if trip.DistanceMiles != nil {
				m.TotalDistance += *trip.DistanceMiles
			}
			dates[trip.Date] = true
		}
		m.DaysWorked = len(dates)
		if m.DaysWorked > 0 {
			m.AvgHoursPerDay = m.TotalHours / float64(m.DaysWorked)
		}

		if driver.MaxHoursPerWeek > 0 {
			utilization := m.TotalHours / (float64(driver.MaxHoursPerWeek) * weeks) * 100
			if utilization > 100 {
				utilization = 100
			}
			m.UtilizationPct = utilization
		}

		metrics = append(metrics, m)
	}

	return metrics, nil
}
