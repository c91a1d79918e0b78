package scheduling

import (
	"testing"

	"fleetdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func unassignedTrip(id, pickupTime string) models.Trip {
	return models.Trip{
		ID: id, CompanyID: "co", Date: "2026-03-02", PickupTime: pickupTime,
		DurationMinutes: intPtr(60), Status: models.TripStatusScheduled,
	}
}

func TestPlan_EveryTripAccountedFor(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", ""), testDriver("d2", "Bogdan", "")}
	store.unassigned = []models.Trip{
		unassignedTrip("t1", "08:00"),
		unassignedTrip("t2", "09:00"),
		unassignedTrip("t3", "10:00"),
	}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 3, len(plan.Assignments)+len(plan.Unassigned))
	assert.Len(t, plan.Assignments, 3)
}

func TestPlan_TieGoesToLowestDriverID(t *testing.T) {
	store := newFakeStore()
	// Identical drivers, identical (zero) workloads: every score ties
	store.drivers = []models.Driver{testDriver("d1", "Amara", ""), testDriver("d2", "Bogdan", "")}
	store.unassigned = []models.Trip{unassignedTrip("t1", "08:00")}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{})
	assert.NoError(t, err)
	assert.Len(t, plan.Assignments, 1)
	assert.Equal(t, "d1", plan.Assignments[0].DriverID)
}

func TestPlan_NoDoubleBookingWithinPlan(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", ""), testDriver("d2", "Bogdan", "")}
	// Two trips at the same time: one driver cannot take both
	store.unassigned = []models.Trip{unassignedTrip("t1", "08:00"), unassignedTrip("t2", "08:00")}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{})
	assert.NoError(t, err)
	assert.Len(t, plan.Assignments, 2)
	assert.NotEqual(t, plan.Assignments[0].DriverID, plan.Assignments[1].DriverID)
}

func TestPlan_OverflowTripLeftUnassigned(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", "")}
	store.unassigned = []models.Trip{unassignedTrip("t1", "08:00"), unassignedTrip("t2", "08:30")}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{})
	assert.NoError(t, err)
	assert.Len(t, plan.Assignments, 1)
	assert.Equal(t, []string{"t2"}, plan.Unassigned)
}

func TestPlan_MaxAssignmentsCap(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", ""), testDriver("d2", "Bogdan", "")}
	store.unassigned = []models.Trip{
		unassignedTrip("t1", "08:00"),
		unassignedTrip("t2", "10:00"),
		unassignedTrip("t3", "12:00"),
	}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{MaxAssignments: 2})
	assert.NoError(t, err)
	assert.Len(t, plan.Assignments, 2)
	assert.Equal(t, []string{"t3"}, plan.Unassigned)
}

func TestPlan_DriverOnLeaveSkipped(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", ""), testDriver("d2", "Bogdan", "")}
	store.leave["d1"] = []models.LeaveRequest{{
		DriverID: "d1", StartDate: "2026-03-02", EndDate: "2026-03-02",
		Status: models.LeaveStatusApproved, LeaveType: "holiday",
	}}
	store.unassigned = []models.Trip{unassignedTrip("t1", "08:00")}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{})
	assert.NoError(t, err)
	assert.Len(t, plan.Assignments, 1)
	assert.Equal(t, "d2", plan.Assignments[0].DriverID)
}

func TestPlan_NoEligibleDriver(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", "")}
	store.leave["d1"] = []models.LeaveRequest{{
		DriverID: "d1", StartDate: "2026-03-02", EndDate: "2026-03-02",
		Status: models.LeaveStatusApproved, LeaveType: "holiday",
	}}
	store.unassigned = []models.Trip{unassignedTrip("t1", "08:00")}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{})
	assert.NoError(t, err)
	assert.Empty(t, plan.Assignments)
	assert.Equal(t, []string{"t1"}, plan.Unassigned)
}

func TestPlan_WorkloadBalanceSpreadsTrips(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", ""), testDriver("d2", "Bogdan", "")}
	store.recent = map[string]int{"d1": 900, "d2": 100}
	store.unassigned = []models.Trip{unassignedTrip("t1", "08:00")}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{BalanceWorkload: true})
	assert.NoError(t, err)
	assert.Len(t, plan.Assignments, 1)
	assert.Equal(t, "d2", plan.Assignments[0].DriverID)
}

func TestPlan_ConfidenceClampedTo100(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{
		testDriver("d1", "Amara", "LS1 4DT"),
		testDriver("d2", "Bogdan", ""),
	}
	store.recent = map[string]int{"d1": 0, "d2": 800}
	trip := unassignedTrip("t1", "08:00")
	trip.PickupPostcode = strPtr("LS1 2AB")
	store.unassigned = []models.Trip{trip}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{BalanceWorkload: true, ConsiderProximity: true})
	assert.NoError(t, err)
	assert.Len(t, plan.Assignments, 1)
	assert.Equal(t, 100, plan.Assignments[0].Confidence)
}

func TestPlan_UnparseablePickupTimeUnassigned(t *testing.T) {
	store := newFakeStore()
	store.drivers = []models.Driver{testDriver("d1", "Amara", "")}
	store.unassigned = []models.Trip{{
		ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "8am",
		Status: models.TripStatusScheduled,
	}}
	assigner := NewAutoAssigner(store)

	plan, err := assigner.Plan("co", "2026-03-02", PlanOptions{})
	assert.NoError(t, err)
	assert.Empty(t, plan.Assignments)
	assert.Equal(t, []string{"t1"}, plan.Unassigned)
}
