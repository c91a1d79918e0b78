package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"fleetdesk-backend/internal/scheduling"
	"fleetdesk-backend/pkg/utils"
)

// respondEngineError maps the scheduling error taxonomy onto HTTP statuses.
// Unexpected errors become a generic 500; internal detail never leaks.
func respondEngineError(w http.ResponseWriter, err error) {
	var validation *scheduling.ValidationError
	if errors.As(err, &validation) {
		utils.RespondError(w, http.StatusBadRequest, validation.Message)
		return
	}

	var notFound *scheduling.NotFoundError
	if errors.As(err, &notFound) {
		utils.RespondError(w, http.StatusNotFound, notFound.Error())
		return
	}

	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		utils.RespondJSON(w, http.StatusConflict, map[string]interface{}{
			"success":   false,
			"error":     conflict.Message,
			"conflicts": conflict.Conflicts,
		})
		return
	}

	if errors.Is(err, sql.ErrNoRows) {
		utils.RespondError(w, http.StatusNotFound, "Not found")
		return
	}

	log.Printf("❌ Internal error: %v", err)
	utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
}
