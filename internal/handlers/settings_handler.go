package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(settings))
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	settings, err := h.settingsService.Update(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(settings))
}
