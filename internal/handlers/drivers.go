package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func GetDrivers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		store := database.NewStore(db)
		drivers, err := store.ListActiveDrivers(claims.CompanyID)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, drivers)
	}
}

func GetDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		store := database.NewStore(db)
		driver, err := store.GetDriver(claims.CompanyID, chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.RespondError(w, http.StatusNotFound, "Driver not found")
				return
			}
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, driver)
	}
}

type CreateDriverRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	HomeAddress     string  `json:"home_address"`
	Postcode        string  `json:"postcode"`
	MaxHoursPerWeek int     `json:"max_hours_per_week"`
	AssignedVehicle *string `json:"assigned_vehicle"`
}

func CreateDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Email == "" {
			utils.RespondError(w, http.StatusBadRequest, "name and email are required")
			return
		}
		if req.MaxHoursPerWeek <= 0 {
			req.MaxHoursPerWeek = 40
		}

		driver := &models.Driver{
			ID:              uuid.New().String(),
			CompanyID:       claims.CompanyID,
			Name:            req.Name,
			Email:           req.Email,
			Active:          true,
			HomeAddress:     req.HomeAddress,
			Postcode:        req.Postcode,
			MaxHoursPerWeek: req.MaxHoursPerWeek,
			AssignedVehicle: req.AssignedVehicle,
		}

		store := database.NewStore(db)
		if err := store.CreateDriver(driver); err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusCreated, driver)
	}
}

type RegisterTokenRequest struct {
	DriverID   string `json:"driver_id"`
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

// RegisterFCMToken stores a driver device token for assignment pushes
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DriverID == "" || req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "driver_id and token are required")
			return
		}
		if req.DeviceType == "" {
			req.DeviceType = "android"
		}

		store := database.NewStore(db)
		if err := store.UpsertDriverToken(req.DriverID, req.Token, req.DeviceType); err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
