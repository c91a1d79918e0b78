package scheduling

import (
	"fmt"

	"fleetdesk-backend/internal/models"
)

// Candidate pairs a driver with their trailing-7-day assigned minutes
type Candidate struct {
	Driver        models.Driver
	RecentMinutes int
}

// ScoreOptions toggles the workload-balance and proximity heuristics
type ScoreOptions struct {
	BalanceWorkload   bool
	ConsiderProximity bool
}

// ScoreResult is a fitness score with the reasoning behind it.
// The score is deliberately unclamped; callers clamp with
// models.ClampScore only when reporting externally.
type ScoreResult struct {
	Score     int
	Reasoning []string
}

// Scorer produces a fitness score for a (driver, trip) pair
type Scorer struct {
	checker *Checker
}

func NewScorer(store ScheduleReader) *Scorer {
	return &Scorer{checker: NewChecker(store)}
}

// Score rates how well a driver fits a trip relative to a candidate pool.
// An unavailable driver short-circuits to zero. Otherwise the score starts
// at 100 and moves with workload balance (+20 below the pool mean, -20
// above 1.5x the mean), postcode proximity (+15), and -5 per non-critical
// conflict.
func (s *Scorer) Score(candidate Candidate, trip models.Trip, pool []Candidate, opts ScoreOptions) (ScoreResult, error) {
	availability, err := s.checker.Check(
		trip.CompanyID, candidate.Driver.ID, trip.Date, trip.PickupTime, trip.Duration())
	if err != nil {
		return ScoreResult{}, err
	}

	if !availability.Available {
		return ScoreResult{Score: 0, Reasoning: []string{"Driver not available"}}, nil
	}

	score := 100
	reasoning := []string{}

	if opts.BalanceWorkload && len(pool) > 0 {
		total := 0
		for _, c := range pool {
			total += c.RecentMinutes
		}
		mean := float64(total) / float64(len(pool))

		recent := float64(candidate.RecentMinutes)
		if recent < mean {
			score += 20
			reasoning = append(reasoning, "Below average workload this week")
		} else if recent > mean*1.5 {
			score -= 20
			reasoning = append(reasoning, "Well above average workload this week")
		}
	}

	if opts.ConsiderProximity && trip.PickupPostcode != nil {
		driverArea := candidate.Driver.OutwardCode()
		pickupArea := models.OutwardCode(*trip.PickupPostcode)
		if driverArea != "" && driverArea == pickupArea {
			score += 15
			reasoning = append(reasoning, fmt.Sprintf("Based near pickup area %s", pickupArea))
		}
	}

	for _, conflict := range availability.Conflicts {
		if conflict.IsCritical() {
			continue
		}
		score -= 5
		reasoning = append(reasoning, conflict.Detail)
	}

	return ScoreResult{Score: score, Reasoning: reasoning}, nil
}
