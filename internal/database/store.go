package database

import (
	"fmt"
	"time"

	"fleetdesk-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// Store wraps the database with the narrow read/write contracts the
// scheduling engine consumes. The engine never issues SQL itself.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListActiveDrivers returns all active drivers for a company, ordered by id
// so greedy tie-breaks are deterministic.
func (s *Store) ListActiveDrivers(companyID string) ([]models.Driver, error) {
	drivers := []models.Driver{}
	query := `SELECT * FROM drivers WHERE company_id = $1 AND active = TRUE ORDER BY id`
	if err := s.db.Select(&drivers, query, companyID); err != nil {
		return nil, fmt.Errorf("list active drivers: %w", err)
	}
	return drivers, nil
}

func (s *Store) GetDriver(companyID, driverID string) (*models.Driver, error) {
	var driver models.Driver
	query := `SELECT * FROM drivers WHERE company_id = $1 AND id = $2`
	if err := s.db.Get(&driver, query, companyID, driverID); err != nil {
		return nil, err
	}
	return &driver, nil
}

func (s *Store) CreateDriver(d *models.Driver) error {
	query := `INSERT INTO drivers (id, company_id, name, email, active, home_address, postcode, max_hours_per_week, assigned_vehicle)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.Exec(query, d.ID, d.CompanyID, d.Name, d.Email, d.Active,
		d.HomeAddress, d.Postcode, d.MaxHoursPerWeek, d.AssignedVehicle)
	return err
}

// ListTripsForDriverDate returns every trip already on a driver's day,
// regardless of status; the engine filters cancelled trips itself.
func (s *Store) ListTripsForDriverDate(companyID, driverID, date string) ([]models.Trip, error) {
	trips := []models.Trip{}
	query := `SELECT * FROM trips
			  WHERE company_id = $1 AND driver_id = $2 AND date = $3
			  ORDER BY pickup_time, id`
	if err := s.db.Select(&trips, query, companyID, driverID, date); err != nil {
		return nil, fmt.Errorf("list trips for driver/date: %w", err)
	}
	return trips, nil
}

func (s *Store) ListTripsInRange(companyID, startDate, endDate string) ([]models.Trip, error) {
	trips := []models.Trip{}
	query := `SELECT * FROM trips
			  WHERE company_id = $1 AND date >= $2 AND date <= $3
			  ORDER BY date, pickup_time, id`
	if err := s.db.Select(&trips, query, companyID, startDate, endDate); err != nil {
		return nil, fmt.Errorf("list trips in range: %w", err)
	}
	return trips, nil
}

func (s *Store) ListApprovedLeave(companyID, driverID, date string) ([]models.LeaveRequest, error) {
	leave := []models.LeaveRequest{}
	query := `SELECT * FROM leave_requests
			  WHERE company_id = $1 AND driver_id = $2
			  AND status = 'approved'
			  AND start_date <= $3 AND end_date >= $3`
	if err := s.db.Select(&leave, query, companyID, driverID, date); err != nil {
		return nil, fmt.Errorf("list approved leave: %w", err)
	}
	return leave, nil
}

// UnassignedTripsForDate returns the day's driverless, non-cancelled trips
// in pickup-time order, which is the order the auto-assigner works through.
func (s *Store) UnassignedTripsForDate(companyID, date string) ([]models.Trip, error) {
	trips := []models.Trip{}
	query := `SELECT * FROM trips
			  WHERE company_id = $1 AND date = $2
			  AND driver_id IS NULL AND status != 'cancelled'
			  ORDER BY pickup_time, id`
	if err := s.db.Select(&trips, query, companyID, date); err != nil {
		return nil, fmt.Errorf("list unassigned trips: %w", err)
	}
	return trips, nil
}

// TrailingWeekMinutes sums assigned trip minutes per driver over the seven
// days up to and including the given date. Missing durations count as 60.
func (s *Store) TrailingWeekMinutes(companyID, date string) (map[string]int, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("trailing week minutes: bad date %q: %w", date, err)
	}
	start := day.AddDate(0, 0, -7).Format("2006-01-02")

	rows := []struct {
		DriverID string `db:"driver_id"`
		Minutes  int    `db:"minutes"`
	}{}
	query := `SELECT driver_id, SUM(COALESCE(duration_minutes, 60))::INT AS minutes
			  FROM trips
			  WHERE company_id = $1 AND driver_id IS NOT NULL
			  AND status != 'cancelled'
			  AND date >= $2 AND date <= $3
			  GROUP BY driver_id`
	if err := s.db.Select(&rows, query, companyID, start, date); err != nil {
		return nil, fmt.Errorf("trailing week minutes: %w", err)
	}

	minutes := make(map[string]int, len(rows))
	for _, row := range rows {
		minutes[row.DriverID] = row.Minutes
	}
	return minutes, nil
}

func (s *Store) GetTrip(companyID, tripID string) (*models.Trip, error) {
	var trip models.Trip
	query := `SELECT * FROM trips WHERE company_id = $1 AND id = $2`
	if err := s.db.Get(&trip, query, companyID, tripID); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *Store) CreateTrip(t *models.Trip) error {
	query := `INSERT INTO trips (id, company_id, date, pickup_time, duration_minutes, pickup_address,
			  pickup_postcode, destination_address, status, driver_id, distance_miles, customer_name)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := s.db.Exec(query, t.ID, t.CompanyID, t.Date, t.PickupTime, t.DurationMinutes,
		t.PickupAddress, t.PickupPostcode, t.DestinationAddress, t.Status, t.DriverID,
		t.DistanceMiles, t.CustomerName)
	return err
}

// CommitDriverAssignment writes a driver onto a trip. This is the only
// write the scheduling engine's callers perform; plans themselves never
// touch trip records.
func (s *Store) CommitDriverAssignment(tripID, driverID string) error {
	query := `UPDATE trips
			  SET driver_id = $1, updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
			  WHERE id = $2`
	result, err := s.db.Exec(query, driverID, tripID)
	if err != nil {
		return fmt.Errorf("commit driver assignment: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("commit driver assignment: trip %s not found", tripID)
	}
	return nil
}

func (s *Store) CreateLeaveRequest(l *models.LeaveRequest) error {
	query := `INSERT INTO leave_requests (id, company_id, driver_id, start_date, end_date, status, leave_type)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(query, l.ID, l.CompanyID, l.DriverID, l.StartDate, l.EndDate, l.Status, l.LeaveType)
	return err
}

// DriverTokens returns the FCM device tokens registered for a driver
func (s *Store) DriverTokens(driverID string) ([]string, error) {
	tokens := []string{}
	query := `SELECT token FROM fcm_tokens WHERE driver_id = $1`
	if err := s.db.Select(&tokens, query, driverID); err != nil {
		return nil, fmt.Errorf("driver tokens: %w", err)
	}
	return tokens, nil
}

// UpsertDriverToken registers or refreshes an FCM device token
func (s *Store) UpsertDriverToken(driverID, token, deviceType string) error {
	query := `INSERT INTO fcm_tokens (driver_id, token, device_type)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (token)
			  DO UPDATE SET driver_id = EXCLUDED.driver_id,
			                device_type = EXCLUDED.device_type,
			                updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT`
	_, err := s.db.Exec(query, driverID, token, deviceType)
	return err
}
