package models

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	TripStatusScheduled  TripStatus = "scheduled"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
	TripStatusNoShow     TripStatus = "no_show"
)

// DefaultTripDurationMinutes is assumed whenever a trip has no recorded duration
const DefaultTripDurationMinutes = 60

// Trip represents a single booked journey on a given day.
// Trips are created by booking flows with no driver; assignment happens
// later through the scheduling engine or an explicit dispatcher action.
type Trip struct {
	ID                 string     `json:"id" db:"id"`
	CompanyID          string     `json:"company_id" db:"company_id"`
	Date               string     `json:"date" db:"date"`               // YYYY-MM-DD
	PickupTime         string     `json:"pickup_time" db:"pickup_time"` // HH:MM (24h)
	DurationMinutes    *int       `json:"duration_minutes" db:"duration_minutes"`
	PickupAddress      string     `json:"pickup_address" db:"pickup_address"`
	PickupPostcode     *string    `json:"pickup_postcode" db:"pickup_postcode"`
	DestinationAddress string     `json:"destination_address" db:"destination_address"`
	Status             TripStatus `json:"status" db:"status"`
	DriverID           *string    `json:"driver_id" db:"driver_id"`
	DistanceMiles      *float64   `json:"distance_miles" db:"distance_miles"`
	CustomerName       *string    `json:"customer_name" db:"customer_name"`
	CreatedAt          int64      `json:"created_at" db:"created_at"`
	UpdatedAt          int64      `json:"updated_at" db:"updated_at"`
}

// Duration returns the trip duration in minutes, defaulting when unset
func (t *Trip) Duration() int {
	if t.DurationMinutes == nil || *t.DurationMinutes <= 0 {
		return DefaultTripDurationMinutes
	}
	return *t.DurationMinutes
}

// IsCancelled reports whether the trip no longer occupies driver time
func (t *Trip) IsCancelled() bool {
	return t.Status == TripStatusCancelled
}
