package scheduling

import (
	"log"

	"fleetdesk-backend/internal/models"
)

// PlannerStore extends the read contract with the two queries the
// auto-assigner needs beyond single-driver checks.
type PlannerStore interface {
	ScheduleReader
	UnassignedTripsForDate(companyID, date string) ([]models.Trip, error)
	TrailingWeekMinutes(companyID, date string) (map[string]int, error)
}

// PlanOptions controls one auto-assignment run
type PlanOptions struct {
	BalanceWorkload   bool
	ConsiderProximity bool
	MaxAssignments    int // 0 means no cap
}

// AutoAssigner greedily proposes drivers for a day's unassigned trips.
// It works through trips in pickup-time order with no backtracking, so an
// early trip can claim the best-fit driver away from a later one. That is
// a deliberate simplicity-over-optimality tradeoff; this is not a global
// matching.
type AutoAssigner struct {
	store  PlannerStore
	scorer *Scorer
}

func NewAutoAssigner(store PlannerStore) *AutoAssigner {
	return &AutoAssigner{store: store, scorer: NewScorer(store)}
}

type proposedSlot struct {
	start, end int
}

// Plan computes an assignment proposal for the date. Nothing is written;
// committing proposed pairs is a separate caller action.
func (a *AutoAssigner) Plan(companyID, date string, opts PlanOptions) (*models.AssignmentPlan, error) {
	trips, err := a.store.UnassignedTripsForDate(companyID, date)
	if err != nil {
		return nil, err
	}
	drivers, err := a.store.ListActiveDrivers(companyID)
	if err != nil {
		return nil, err
	}
	recent, err := a.store.TrailingWeekMinutes(companyID, date)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(drivers))
	for i, driver := range drivers {
		candidates[i] = Candidate{Driver: driver, RecentMinutes: recent[driver.ID]}
	}

	log.Printf("🗓️  Auto-assign %s: %d unassigned trips, %d active drivers", date, len(trips), len(drivers))

	plan := &models.AssignmentPlan{
		Date:        date,
		Assignments: []models.ShiftAssignment{},
		Unassigned:  []string{},
	}
	proposed := map[string][]proposedSlot{}

	scoreOpts := ScoreOptions{
		BalanceWorkload:   opts.BalanceWorkload,
		ConsiderProximity: opts.ConsiderProximity,
	}

	for _, trip := range trips {
		if opts.MaxAssignments > 0 && len(plan.Assignments) >= opts.MaxAssignments {
			plan.Unassigned = append(plan.Unassigned, trip.ID)
			continue
		}

		start, err := ParseClock(trip.PickupTime)
		if err != nil {
			plan.Unassigned = append(plan.Unassigned, trip.ID)
			continue
		}
		end := start + trip.Duration()

		bestScore := 0
		var best *Candidate
		var bestReasoning []string

		// Candidates iterate in driver-id order, and only a strictly
		// higher score replaces the incumbent, so ties go to the lowest id.
		for i := range candidates {
			candidate := &candidates[i]

			if overlapsProposed(proposed[candidate.Driver.ID], start, end) {
				continue
			}

			result, err := a.scorer.Score(*candidate, trip, candidates, scoreOpts)
			if err != nil {
				return nil, err
			}
			if result.Score > bestScore {
				bestScore = result.Score
				best = candidate
				bestReasoning = result.Reasoning
			}
		}

		if best == nil {
			plan.Unassigned = append(plan.Unassigned, trip.ID)
			continue
		}

		plan.Assignments = append(plan.Assignments, models.ShiftAssignment{
			TripID:     trip.ID,
			DriverID:   best.Driver.ID,
			DriverName: best.Driver.Name,
			Confidence: models.ClampScore(bestScore),
			Reasoning:  bestReasoning,
		})
		proposed[best.Driver.ID] = append(proposed[best.Driver.ID], proposedSlot{start: start, end: end})
		best.RecentMinutes += trip.Duration()
	}

	log.Printf("✅ Auto-assign %s: %d proposed, %d unassigned", date, len(plan.Assignments), len(plan.Unassigned))
	return plan, nil
}

func overlapsProposed(slots []proposedSlot, start, end int) bool {
	for _, slot := range slots {
		if start < slot.end && slot.start < end {
			return true
		}
	}
	return false
}
