package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/internal/scheduling"
	"fleetdesk-backend/internal/services"
	"fleetdesk-backend/internal/websocket"
	"fleetdesk-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// DriverAvailability pairs a driver with the outcome of a slot check
type DriverAvailability struct {
	Driver    models.Driver     `json:"driver"`
	Available bool              `json:"available"`
	Conflicts []models.Conflict `json:"conflicts"`
}

// AvailableDrivers checks every active driver against a candidate slot
func AvailableDrivers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		date := r.URL.Query().Get("date")
		startTime := r.URL.Query().Get("time")
		if date == "" || startTime == "" {
			utils.RespondError(w, http.StatusBadRequest, "date and time are required")
			return
		}
		duration := models.DefaultTripDurationMinutes
		if raw := r.URL.Query().Get("duration"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				utils.RespondError(w, http.StatusBadRequest, "duration must be a positive number of minutes")
				return
			}
			duration = parsed
		}

		store := database.NewStore(db)
		checker := scheduling.NewChecker(store)

		drivers, err := store.ListActiveDrivers(claims.CompanyID)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		results := make([]DriverAvailability, 0, len(drivers))
		for _, driver := range drivers {
			availability, err := checker.Check(claims.CompanyID, driver.ID, date, startTime, duration)
			if err != nil {
				respondEngineError(w, err)
				return
			}
			results = append(results, DriverAvailability{
				Driver:    driver,
				Available: availability.Available,
				Conflicts: availability.Conflicts,
			})
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"date":     date,
			"time":     startTime,
			"duration": duration,
			"drivers":  results,
		})
	}
}

// DetectConflicts re-validates all assigned trips over a date range
func DetectConflicts(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		startDate := r.URL.Query().Get("start_date")
		endDate := r.URL.Query().Get("end_date")
		if startDate == "" || endDate == "" {
			utils.RespondError(w, http.StatusBadRequest, "start_date and end_date are required")
			return
		}

		detector := scheduling.NewDetector(database.NewStore(db))
		conflicts, err := detector.Detect(claims.CompanyID, startDate, endDate)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"start_date": startDate,
			"end_date":   endDate,
			"conflicts":  conflicts,
		})
	}
}

type AutoAssignRequest struct {
	Date              string `json:"date"`
	BalanceWorkload   *bool  `json:"balance_workload"`
	ConsiderProximity *bool  `json:"consider_proximity"`
	MaxAssignments    int    `json:"max_assignments"`
}

// AutoAssign computes an assignment plan for a day. The plan is returned
// to the caller and nothing is written; committing is a separate action.
func AutoAssign(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req AutoAssignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Date == "" {
			utils.RespondError(w, http.StatusBadRequest, "date is required")
			return
		}

		opts := scheduling.PlanOptions{
			BalanceWorkload:   req.BalanceWorkload == nil || *req.BalanceWorkload,
			ConsiderProximity: req.ConsiderProximity == nil || *req.ConsiderProximity,
			MaxAssignments:    req.MaxAssignments,
		}

		assigner := scheduling.NewAutoAssigner(database.NewStore(db))
		plan, err := assigner.Plan(claims.CompanyID, req.Date, opts)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, plan)
	}
}

type CommitAssignmentsRequest struct {
	Assignments []struct {
		TripID   string `json:"trip_id"`
		DriverID string `json:"driver_id"`
	} `json:"assignments"`
}

// SkippedAssignment reports a proposed pair that turned critical between
// plan and commit and was therefore not written.
type SkippedAssignment struct {
	TripID    string            `json:"trip_id"`
	DriverID  string            `json:"driver_id"`
	Conflicts []models.Conflict `json:"conflicts"`
}

// CommitAssignments applies accepted auto-assign proposals. Each pair is
// re-validated just before the write; pairs that picked up a critical
// conflict since planning are skipped and reported back.
func CommitAssignments(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CommitAssignmentsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.Assignments) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "assignments is required")
			return
		}

		store := database.NewStore(db)
		checker := scheduling.NewChecker(store)

		committed := []string{}
		skipped := []SkippedAssignment{}

		for _, pair := range req.Assignments {
			trip, err := store.GetTrip(claims.CompanyID, pair.TripID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					skipped = append(skipped, SkippedAssignment{TripID: pair.TripID, DriverID: pair.DriverID})
					continue
				}
				respondEngineError(w, err)
				return
			}

			availability, err := checker.CheckExcluding(
				claims.CompanyID, pair.DriverID, trip.Date, trip.PickupTime, trip.Duration(), trip.ID)
			if err != nil {
				respondEngineError(w, err)
				return
			}
			if !availability.Available {
				skipped = append(skipped, SkippedAssignment{
					TripID:    pair.TripID,
					DriverID:  pair.DriverID,
					Conflicts: availability.Conflicts,
				})
				continue
			}

			if err := store.CommitDriverAssignment(pair.TripID, pair.DriverID); err != nil {
				respondEngineError(w, err)
				return
			}
			committed = append(committed, pair.TripID)
			notifyAssignment(store, hub, fcm, trip, pair.DriverID)
		}

		log.Printf("✅ Committed %d assignments, skipped %d", len(committed), len(skipped))
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"committed": committed,
			"skipped":   skipped,
		})
	}
}
