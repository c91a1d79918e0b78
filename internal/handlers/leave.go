package handlers

import (
	"encoding/json"
	"net/http"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateLeaveRequest struct {
	DriverID  string `json:"driver_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	LeaveType string `json:"leave_type"`
}

func CreateLeave(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateLeaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DriverID == "" || req.StartDate == "" || req.EndDate == "" {
			utils.RespondError(w, http.StatusBadRequest, "driver_id, start_date and end_date are required")
			return
		}
		if req.EndDate < req.StartDate {
			utils.RespondError(w, http.StatusBadRequest, "end_date before start_date")
			return
		}

		status := models.LeaveStatus(req.Status)
		if status != models.LeaveStatusApproved && status != models.LeaveStatusPending {
			status = models.LeaveStatusPending
		}
		if req.LeaveType == "" {
			req.LeaveType = "holiday"
		}

		leave := &models.LeaveRequest{
			ID:        uuid.New().String(),
			CompanyID: claims.CompanyID,
			DriverID:  req.DriverID,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Status:    status,
			LeaveType: req.LeaveType,
		}

		store := database.NewStore(db)
		if err := store.CreateLeaveRequest(leave); err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusCreated, leave)
	}
}
