package handlers

import (
	"encoding/json"
	"net/http"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/routing"
	"fleetdesk-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type OptimizeRouteRequest struct {
	DriverID string `json:"driver_id"`
	Date     string `json:"date"`
}

// OptimizeRoute computes a travel-efficient visiting order for one
// driver's day. Degraded (geometric) distance data is a success outcome,
// reported via reliable=false and a warning.
func OptimizeRoute(db *sqlx.DB, provider routing.MatrixSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req OptimizeRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DriverID == "" || req.Date == "" {
			utils.RespondError(w, http.StatusBadRequest, "driver_id and date are required")
			return
		}

		optimizer := routing.NewOptimizer(database.NewStore(db), provider)
		result, err := optimizer.OptimizeDay(r.Context(), claims.CompanyID, req.DriverID, req.Date)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"method":          result.Method,
			"provider":        result.Provider,
			"original_order":  result.OriginalOrder,
			"optimized_order": result.OptimizedOrder,
			"savings": map[string]interface{}{
				"distance_miles": result.DistanceBefore - result.DistanceAfter,
				"time_minutes":   result.TimeSavedMinutes,
			},
			"reliable": result.Reliable,
			"warning":  result.Warning,
		})
	}
}

// OptimizationScores rates every driver-day in a range
func OptimizationScores(db *sqlx.DB, provider routing.MatrixSource) http.HandlerFunc {
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

		optimizer := routing.NewOptimizer(database.NewStore(db), provider)
		scores, err := optimizer.Scores(r.Context(), claims.CompanyID, startDate, endDate)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"start_date": startDate,
			"end_date":   endDate,
			"scores":     scores,
		})
	}
}
