package handlers

import (
	"net/http"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/scheduling"
	"fleetdesk-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// GetWorkload returns utilization metrics per active driver over a period
func GetWorkload(db *sqlx.DB) http.HandlerFunc {
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

		aggregator := scheduling.NewAggregator(database.NewStore(db))
		metrics, err := aggregator.Metrics(claims.CompanyID, startDate, endDate)
		if err != nil {
			respondEngineError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"start_date": startDate,
			"end_date":   endDate,
			"drivers":    metrics,
		})
	}
}
