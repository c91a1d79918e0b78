package scheduling

import (
	"testing"

	"fleetdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func testDriver(id, name, postcode string) models.Driver {
	return models.Driver{
		ID: id, CompanyID: "co", Name: name, Active: true,
		Postcode: postcode, MaxHoursPerWeek: 40,
	}
}

func TestScore_UnavailableDriverScoresZero(t *testing.T) {
	store := newFakeStore()
	store.leave["d1"] = []models.LeaveRequest{{
		DriverID: "d1", StartDate: "2026-03-02", EndDate: "2026-03-02",
		Status: models.LeaveStatusApproved, LeaveType: "sick",
	}}
	scorer := NewScorer(store)

	trip := models.Trip{ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "09:00"}
	candidate := Candidate{Driver: testDriver("d1", "Amara", "LS1 4DT")}

	result, err := scorer.Score(candidate, trip, []Candidate{candidate}, ScoreOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, []string{"Driver not available"}, result.Reasoning)
}

func TestScore_BaselineIs100(t *testing.T) {
	store := newFakeStore()
	scorer := NewScorer(store)

	trip := models.Trip{ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "09:00"}
	candidate := Candidate{Driver: testDriver("d1", "Amara", "LS1 4DT")}

	result, err := scorer.Score(candidate, trip, nil, ScoreOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Reasoning)
}

func TestScore_WorkloadBalance(t *testing.T) {
	store := newFakeStore()
	scorer := NewScorer(store)

	trip := models.Trip{ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "09:00"}

	light := Candidate{Driver: testDriver("d1", "Amara", ""), RecentMinutes: 100}
	heavy := Candidate{Driver: testDriver("d2", "Bogdan", ""), RecentMinutes: 900}
	pool := []Candidate{light, heavy} // mean 500

	opts := ScoreOptions{BalanceWorkload: true}

	result, err := scorer.Score(light, trip, pool, opts)
	assert.NoError(t, err)
	assert.Equal(t, 120, result.Score)
	assert.Contains(t, result.Reasoning, "Below average workload this week")

	// 900 > 1.5 * 500
	result, err = scorer.Score(heavy, trip, pool, opts)
	assert.NoError(t, err)
	assert.Equal(t, 80, result.Score)
	assert.Contains(t, result.Reasoning, "Well above average workload this week")
}

func TestScore_WorkloadBetweenMeanAndThreshold(t *testing.T) {
	store := newFakeStore()
	scorer := NewScorer(store)

	trip := models.Trip{ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "09:00"}

	// 600 is above the mean (500) but not above 1.5x (750): no adjustment
	mid := Candidate{Driver: testDriver("d1", "Amara", ""), RecentMinutes: 600}
	pool := []Candidate{mid, {Driver: testDriver("d2", "Bogdan", ""), RecentMinutes: 400}}

	result, err := scorer.Score(mid, trip, pool, ScoreOptions{BalanceWorkload: true})
	assert.NoError(t, err)
	assert.Equal(t, 100, result.Score)
}

func TestScore_ProximityBonus(t *testing.T) {
	store := newFakeStore()
	scorer := NewScorer(store)

	trip := models.Trip{
		ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "09:00",
		PickupPostcode: strPtr("LS1 2AB"),
	}
	near := Candidate{Driver: testDriver("d1", "Amara", "LS1 4DT")}
	far := Candidate{Driver: testDriver("d2", "Bogdan", "BD2 7QT")}

	opts := ScoreOptions{ConsiderProximity: true}

	result, err := scorer.Score(near, trip, nil, opts)
	assert.NoError(t, err)
	assert.Equal(t, 115, result.Score)
	assert.Contains(t, result.Reasoning, "Based near pickup area LS1")

	result, err = scorer.Score(far, trip, nil, opts)
	assert.NoError(t, err)
	assert.Equal(t, 100, result.Score)
}

func TestScore_WarningConflictPenalty(t *testing.T) {
	store := newFakeStore()
	// Pushes the day over the 540-minute cap: a warning, not a blocker
	store.addTrip("d1", models.Trip{
		ID: "t0", Date: "2026-03-02", PickupTime: "06:00", DurationMinutes: intPtr(520),
		Status: models.TripStatusScheduled,
	})
	scorer := NewScorer(store)

	trip := models.Trip{ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "16:00"}
	candidate := Candidate{Driver: testDriver("d1", "Amara", "")}

	result, err := scorer.Score(candidate, trip, nil, ScoreOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 95, result.Score)
	assert.Len(t, result.Reasoning, 1)
}

func TestScore_StackedBonusesExceed100BeforeClamp(t *testing.T) {
	store := newFakeStore()
	scorer := NewScorer(store)

	trip := models.Trip{
		ID: "t1", CompanyID: "co", Date: "2026-03-02", PickupTime: "09:00",
		PickupPostcode: strPtr("LS1 2AB"),
	}
	candidate := Candidate{Driver: testDriver("d1", "Amara", "LS1 4DT"), RecentMinutes: 0}
	pool := []Candidate{candidate, {Driver: testDriver("d2", "Bogdan", ""), RecentMinutes: 400}}

	result, err := scorer.Score(candidate, trip, pool, ScoreOptions{BalanceWorkload: true, ConsiderProximity: true})
	assert.NoError(t, err)
	// Raw score stays unclamped internally
	assert.Equal(t, 135, result.Score)
	assert.Equal(t, 100, models.ClampScore(result.Score))
}
