package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError maps service-layer failures onto the API envelope.
// Validation errors carry their per-field map for inline display.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(verr.Fields))
	case errors.Is(err, services.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Menu item not found"))
	case errors.Is(err, services.ErrCategoryNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Category not found"))
	case errors.Is(err, services.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Store unavailable: configuration required"))
	default:
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(fallback))
	}
}
