package scheduling

import (
	"testing"

	"fleetdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_InvalidDates(t *testing.T) {
	aggregator := NewAggregator(newFakeStore())

	_, err := aggregator.Metrics("co", "not-a-date", "2026-03-07")
	assert.IsType(t, &ValidationError{}, err)

	_, err = aggregator.Metrics("co", "2026-03-01", "03/07/2026")
	assert.IsType(t, &ValidationError{}, err)

	_, err = aggregator.Metrics("co", "2026-03-07", "2026-03-01")
	assert.IsType(t, &ValidationError{}, err)
}

func TestMetrics_DriverWithNoTrips(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", "")}
	aggregator := NewAggregator(store)

	metrics, err := aggregator.Metrics("co", "2026-03-01", "2026-03-07")
	assert.NoError(t, err)
	assert.Len(t, metrics, 1)
	assert.Equal(t, "d1", metrics[0].DriverID)
	assert.Zero(t, metrics[0].TotalTrips)
	assert.Zero(t, metrics[0].TotalHours)
	assert.Zero(t, metrics[0].UtilizationPct)
}

func TestMetrics_Totals(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", "")}
	d1 := "d1"
	store.rangeTrips = []models.Trip{
		{ID: "t1", Date: "2026-03-02", PickupTime: "08:00", DurationMinutes: intPtr(120),
			DriverID: &d1, DistanceMiles: floatPtr(10), Status: models.TripStatusScheduled},
		{ID: "t2", Date: "2026-03-02", PickupTime: "11:00", DurationMinutes: intPtr(60),
			DriverID: &d1, DistanceMiles: floatPtr(4.5), Status: models.TripStatusScheduled},
		{ID: "t3", Date: "2026-03-04", PickupTime: "09:00", DurationMinutes: intPtr(90),
			DriverID: &d1, Status: models.TripStatusCompleted},
	}
	aggregator := NewAggregator(store)

	metrics, err := aggregator.Metrics("co", "2026-03-01", "2026-03-07")
	assert.NoError(t, err)
	assert.Len(t, metrics, 1)

	m := metrics[0]
	assert.Equal(t, 3, m.TotalTrips)
	assert.InDelta(t, 4.5, m.TotalHours, 1e-9) // 120+60+90 minutes
	assert.InDelta(t, 14.5, m.TotalDistance, 1e-9)
	assert.Equal(t, 2, m.DaysWorked)
	assert.InDelta(t, 2.25, m.AvgHoursPerDay, 1e-9)
	// 4.5 hours over one week against a 40-hour cap
	assert.InDelta(t, 11.25, m.UtilizationPct, 1e-9)
}

func TestMetrics_CancelledAndUnassignedExcluded(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", "")}
	d1 := "d1"
	store.rangeTrips = []models.Trip{
		{ID: "t1", Date: "2026-03-02", PickupTime: "08:00", DurationMinutes: intPtr(60),
			DriverID: &d1, Status: models.TripStatusCancelled},
		{ID: "t2", Date: "2026-03-02", PickupTime: "10:00", DurationMinutes: intPtr(60),
			Status: models.TripStatusScheduled},
	}
	aggregator := NewAggregator(store)

	metrics, err := aggregator.Metrics("co", "2026-03-01", "2026-03-07")
	assert.NoError(t, err)
	assert.Zero(t, metrics[0].TotalTrips)
}

func TestMetrics_UtilizationCappedAt100(t *testing.T) {
	store := newFakeStore()
	driver := testDriver("d1", "Amara", "")
	driver.MaxHoursPerWeek = 1
	store.drivers = []models.Driver{driver}
	d1 := "d1"
	store.rangeTrips = []models.Trip{
		{ID: "t1", Date: "2026-03-02", PickupTime: "08:00", DurationMinutes: intPtr(600),
			DriverID: &d1, Status: models.TripStatusScheduled},
	}
	aggregator := NewAggregator(store)

	metrics, err := aggregator.Metrics("co", "2026-03-01", "2026-03-07")
	assert.NoError(t, err)
	assert.Equal(t, 100.0, metrics[0].UtilizationPct)
}

func TestMetrics_MultiWeekPeriodScalesCapacity(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", "")}
	d1 := "d1"
	store.rangeTrips = []models.Trip{
		{ID: "t1", Date: "2026-03-02", PickupTime: "08:00", DurationMinutes: intPtr(480),
			DriverID: &d1, Status: models.TripStatusScheduled},
	}
	aggregator := NewAggregator(store)

	// 14 days = 2 weeks of 40-hour capacity; 8 hours worked = 10%
	metrics, err := aggregator.Metrics("co", "2026-03-01", "2026-03-15")
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, metrics[0].UtilizationPct, 1e-9)
}

func floatPtr(f float64) *float64 { return &f }
