package routing

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sort"
	"sync"

	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/internal/scheduling"
)

// defaultWorkers bounds concurrent distance/geocoding requests; wall-clock
// time scales with distinct driver-day groups, not total trip count.
const defaultWorkers = 4

// TripReader is the read contract the optimizer consumes
type TripReader interface {
	GetDriver(companyID, driverID string) (*models.Driver, error)
	ListActiveDrivers(companyID string) ([]models.Driver, error)
	ListTripsForDriverDate(companyID, driverID, date string) ([]models.Trip, error)
	ListTripsInRange(companyID, startDate, endDate string) ([]models.Trip, error)
}

// OptimizeResult is the outcome of reordering one driver's day
type OptimizeResult struct {
	Method           string                `json:"method"`
	Provider         models.MatrixProvider `json:"provider"`
	OriginalOrder    []models.Trip         `json:"original_order"`
	OptimizedOrder   []models.Trip         `json:"optimized_order"`
	DistanceBefore   float64               `json:"distance_before_miles"`
	DistanceAfter    float64               `json:"distance_after_miles"`
	TimeSavedMinutes int                   `json:"time_saved_minutes"`
	Reliable         bool                  `json:"reliable"`
	Warning          string                `json:"warning,omitempty"`
}

// DayScore rates how close a driver's scheduled order is to the optimal
// one for a single day. 100 means nothing to gain.
type DayScore struct {
	DriverID         string  `json:"driver_id"`
	DriverName       string  `json:"driver_name"`
	Date             string  `json:"date"`
	TripCount        int     `json:"trip_count"`
	Score            int     `json:"score"`
	Status           string  `json:"status"`
	CurrentDistance  float64 `json:"current_distance_miles"`
	OptimalDistance  float64 `json:"optimal_distance_miles"`
	SavingsPotential float64 `json:"savings_potential_miles"`
	Reliable         bool    `json:"reliable"`
	Warning          string  `json:"warning,omitempty"`
}

// Optimizer sequences driver days and scores scheduling efficiency
type Optimizer struct {
	store    TripReader
	provider MatrixSource
	workers  int
}

func NewOptimizer(store TripReader, provider MatrixSource) *Optimizer {
	return &Optimizer{store: store, provider: provider, workers: defaultWorkers}
}

// OptimizeDay reorders one driver's trips for a date via nearest-neighbor
func (o *Optimizer) OptimizeDay(ctx context.Context, companyID, driverID, date string) (*OptimizeResult, error) {
	if _, err := o.store.GetDriver(companyID, driverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &scheduling.NotFoundError{Resource: "driver", ID: driverID}
		}
		return nil, err
	}

	trips, err := o.store.ListTripsForDriverDate(companyID, driverID, date)
	if err != nil {
		return nil, err
	}
	trips = schedulable(trips)

	if len(trips) < 2 {
		return nil, scheduling.NewValidationError("need at least 2 trips to optimize, driver has %d on %s", len(trips), date)
	}

	matrix := o.matrixFor(ctx, trips)
	seq := OrderTrips(trips, matrix)

	log.Printf("🧭 Optimized %d trips for driver %s on %s: %.1f → %.1f miles",
		len(trips), driverID, date, seq.DistanceBefore, seq.DistanceAfter)

	return &OptimizeResult{
		Method:           "nearest_neighbor",
		Provider:         matrix.Provider,
		OriginalOrder:    trips,
		OptimizedOrder:   seq.Trips,
		DistanceBefore:   seq.DistanceBefore,
		DistanceAfter:    seq.DistanceAfter,
		TimeSavedMinutes: seq.TimeSavedMinutes,
		Reliable:         matrix.Reliable,
		Warning:          matrix.Warning,
	}, nil
}

type driverDay struct {
	driverID string
	date     string
	trips    []models.Trip
}

// Scores computes an efficiency score per driver-day over a date range.
// Groups are independent and processed by a fixed-size worker pool; one
// distance request is issued per group.
func (o *Optimizer) Scores(ctx context.Context, companyID, startDate, endDate string) ([]DayScore, error) {
	trips, err := o.store.ListTripsInRange(companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	if drivers, err := o.store.ListActiveDrivers(companyID); err == nil {
		for _, driver := range drivers {
			names[driver.ID] = driver.Name
		}
	}

	groups := map[string]*driverDay{}
	var order []string
	for _, trip := range trips {
		if trip.DriverID == nil || trip.IsCancelled() {
			continue
		}
		key := *trip.DriverID + "|" + trip.Date
		group, ok := groups[key]
		if !ok {
			group = &driverDay{driverID: *trip.DriverID, date: trip.Date}
			groups[key] = group
			order = append(order, key)
		}
		// Store order is date then pickup_time, so groups stay chronological
		group.trips = append(group.trips, trip)
	}

	jobs := make(chan *driverDay)
	results := make([]DayScore, 0, len(groups))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range jobs {
				score := o.scoreDay(ctx, group, names[group.driverID])
				mu.Lock()
				results = append(results, score)
				mu.Unlock()
			}
		}()
	}

	for _, key := range order {
		jobs <- groups[key]
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		return results[i].DriverID < results[j].DriverID
	})
	return results, nil
}

func (o *Optimizer) scoreDay(ctx context.Context, group *driverDay, driverName string) DayScore {
	if driverName == "" {
		driverName = group.driverID
	}
	score := DayScore{
		DriverID:   group.driverID,
		DriverName: driverName,
		Date:       group.date,
		TripCount:  len(group.trips),
	}

	if len(group.trips) < 2 {
		score.Score = 100
		score.Status = statusForScore(100)
		score.Reliable = true
		return score
	}

	matrix := o.matrixFor(ctx, group.trips)
	seq := OrderTrips(group.trips, matrix)

	// Current distance follows the trips as actually scheduled, never reordered
	score.CurrentDistance = seq.DistanceBefore
	score.OptimalDistance = seq.DistanceAfter
	score.Reliable = matrix.Reliable
	score.Warning = matrix.Warning

	if score.CurrentDistance > 0 {
		score.Score = int(roundRatio(score.OptimalDistance, score.CurrentDistance))
	} else {
		score.Score = 100
	}
	score.Status = statusForScore(score.Score)

	if savings := score.CurrentDistance - score.OptimalDistance; savings > 0 {
		score.SavingsPotential = savings
	}
	return score
}

// matrixFor requests the directed matrix for a day of trips: each trip's
// destination against each trip's pickup.
func (o *Optimizer) matrixFor(ctx context.Context, trips []models.Trip) *models.DistanceMatrix {
	origins := make([]string, len(trips))
	destinations := make([]string, len(trips))
	for i, trip := range trips {
		origins[i] = trip.DestinationAddress
		destinations[i] = trip.PickupAddress
	}
	return o.provider.Matrix(ctx, origins, destinations)
}

func schedulable(trips []models.Trip) []models.Trip {
	kept := trips[:0]
	for _, trip := range trips {
		if !trip.IsCancelled() {
			kept = append(kept, trip)
		}
	}
	return kept
}

func statusForScore(score int) string {
	switch {
	case score < 70:
		return "needs_optimization"
	case score < 90:
		return "good"
	default:
		return "optimal"
	}
}

func roundRatio(numerator, denominator float64) float64 {
	ratio := numerator / denominator * 100
	if ratio < 0 {
		return 0
	}
	return float64(int(ratio + 0.5))
}
