package routing

import (
	"math"

	"fleetdesk-backend/internal/models"
)

// minutesPerMile is the fixed heuristic used to express distance savings
// as driving time.
const minutesPerMile = 2.0

// SequenceResult holds a reordered day of trips with distance bookkeeping.
// Distances are sums of consecutive matrix cells: destination of one trip
// to pickup of the next.
type SequenceResult struct {
	Trips            []models.Trip `json:"trips"`
	DistanceBefore   float64       `json:"distance_before_miles"`
	DistanceAfter    float64       `json:"distance_after_miles"`
	TimeSavedMinutes int           `json:"time_saved_minutes"`
}

// OrderTrips computes a travel-efficient visiting order via the
// nearest-neighbor heuristic. The walk starts at input index 0, so the
// caller must pre-sort trips by pickup time. Ties break to the lowest
// original index. If the greedy order comes out longer than the original
// one the original order is kept, so reordering never worsens a route.
func OrderTrips(trips []models.Trip, matrix *models.DistanceMatrix) SequenceResult {
	if len(trips) <= 1 {
		return SequenceResult{Trips: trips}
	}

	n := len(trips)
	before := 0.0
	for i := 0; i < n-1; i++ {
		before += matrix.Cells[i][i+1]
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)
	current := 0
	visited[0] = true
	order = append(order, 0)

	for len(order) < n {
		best := -1
		bestDistance := math.MaxFloat64
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			// Strict less-than keeps the lowest index on ties
			if d := matrix.Cells[current][candidate]; d < bestDistance {
				bestDistance = d
				best = candidate
			}
		}
		visited[best] = true
		order = append(order, best)
		current = best
	}

	after := 0.0
	for i := 0; i < n-1; i++ {
		after += matrix.Cells[order[i]][order[i+1]]
	}

	if after > before {
		order = order[:0]
		for i := 0; i < n; i++ {
			order = append(order, i)
		}
		after = before
	}

	ordered := make([]models.Trip, n)
	for i, idx := range order {
		ordered[i] = trips[idx]
	}

	return SequenceResult{
		Trips:            ordered,
		DistanceBefore:   before,
		DistanceAfter:    after,
		TimeSavedMinutes: int(math.Round((before - after) * minutesPerMile)),
	}
}
