package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/internal/scheduling"
	"fleetdesk-backend/internal/services"
	"fleetdesk-backend/internal/websocket"
	"fleetdesk-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetTrips lists trips in a date range (defaults to ?date when given)
func GetTrips(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		startDate := r.URL.Query().Get("start_date")
		endDate := r.URL.Query().Get("end_date")
		if date := r.URL.Query().Get("date"); date != "" {
			startDate, endDate = date, date
		}
		if startDate == "" || endDate == "" {
			utils.RespondError(w, http.StatusBadRequest, "start_date and end_date (or date) are required")
			return
		}

		store := database.NewStore(db)
		trips, err := store.ListTripsInRange(claims.CompanyID, startDate, endDate)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, trips)
	}
}

func GetTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		store := database.NewStore(db)
		trip, err := store.GetTrip(claims.CompanyID, chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.RespondError(w, http.StatusNotFound, "Trip not found")
				return
			}
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, trip)
	}
}

type CreateTripRequest struct {
	Date               string   `json:"date"`
	PickupTime         string   `json:"pickup_time"`
	DurationMinutes    *int     `json:"duration_minutes"`
	PickupAddress      string   `json:"pickup_address"`
	PickupPostcode     *string  `json:"pickup_postcode"`
	DestinationAddress string   `json:"destination_address"`
	DistanceMiles      *float64 `json:"distance_miles"`
	CustomerName       *string  `json:"customer_name"`
}

// CreateTrip books a trip with no driver; assignment is a separate action
func CreateTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateTripRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Date == "" || req.PickupTime == "" || req.PickupAddress == "" || req.DestinationAddress == "" {
			utils.RespondError(w, http.StatusBadRequest, "date, pickup_time, pickup_address and destination_address are required")
			return
		}
		if _, err := scheduling.ParseClock(req.PickupTime); err != nil {
			respondEngineError(w, err)
			return
		}

		trip := &models.Trip{
			ID:                 uuid.New().String(),
			CompanyID:          claims.CompanyID,
			Date:               req.Date,
			PickupTime:         req.PickupTime,
			DurationMinutes:    req.DurationMinutes,
			PickupAddress:      req.PickupAddress,
			PickupPostcode:     req.PickupPostcode,
			DestinationAddress: req.DestinationAddress,
			Status:             models.TripStatusScheduled,
			DistanceMiles:      req.DistanceMiles,
			CustomerName:       req.CustomerName,
		}

		store := database.NewStore(db)
		if err := store.CreateTrip(trip); err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusCreated, trip)
	}
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
	Force    bool   `json:"force"`
}

// AssignDriver commits a driver onto a trip. Critical conflicts block the
// assignment with a 409 unless force is set; warnings never block.
func AssignDriver(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req AssignDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DriverID == "" {
			utils.RespondError(w, http.StatusBadRequest, "driver_id is required")
			return
		}

		store := database.NewStore(db)
		trip, err := store.GetTrip(claims.CompanyID, chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.RespondError(w, http.StatusNotFound, "Trip not found")
				return
			}
			respondEngineError(w, err)
			return
		}
		if _, err := store.GetDriver(claims.CompanyID, req.DriverID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.RespondError(w, http.StatusNotFound, "Driver not found")
				return
			}
			respondEngineError(w, err)
			return
		}

		checker := scheduling.NewChecker(store)
		availability, err := checker.CheckExcluding(
			claims.CompanyID, req.DriverID, trip.Date, trip.PickupTime, trip.Duration(), trip.ID)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		if !availability.Available && !req.Force {
			respondEngineError(w, &scheduling.ConflictError{
				Message:   "Driver has critical scheduling conflicts",
				Conflicts: availability.Conflicts,
			})
			return
		}

		if err := store.CommitDriverAssignment(trip.ID, req.DriverID); err != nil {
			respondEngineError(w, err)
			return
		}

		notifyAssignment(store, hub, fcm, trip, req.DriverID)

		trip.DriverID = &req.DriverID
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"trip":      trip,
			"conflicts": availability.Conflicts,
			"forced":    !availability.Available,
		})
	}
}

// notifyAssignment broadcasts a schedule event and pushes to the driver's
// devices. Both are best-effort; the commit has already succeeded.
func notifyAssignment(store *database.Store, hub *websocket.Hub, fcm *services.FCMService, trip *models.Trip, driverID string) {
	event := map[string]interface{}{
		"type": "assignment_committed",
		"data": map[string]interface{}{
			"trip_id":     trip.ID,
			"driver_id":   driverID,
			"date":        trip.Date,
			"pickup_time": trip.PickupTime,
		},
	}

	if hub != nil {
		hub.BroadcastToRole("admin", event)
		hub.BroadcastToRole("dispatcher", event)
		hub.SendToUser(driverID, event)
	}

	if fcm == nil {
		return
	}
	tokens, err := store.DriverTokens(driverID)
	if err != nil {
		log.Printf("⚠️  Could not load FCM tokens for driver %s: %v", driverID, err)
		return
	}
	for _, token := range tokens {
		if err := fcm.SendTripAssignedNotification(token, trip.ID, trip.Date, trip.PickupTime); err != nil {
			log.Printf("⚠️  FCM push failed for driver %s: %v", driverID, err)
		}
	}
}
