package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lebenbrewing/backend/internal/middleware"
	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/services"
)

// MenuHandler exposes the admin mutation surface: item CRUD, visibility
// toggling and bulk reorder. All routes behind it require a session.
type MenuHandler struct {
	menuService *services.MenuService
	aggregator  *services.Aggregator
}

func NewMenuHandler(menuService *services.MenuService, aggregator *services.Aggregator) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		aggregator:  aggregator,
	}
}

// ListItems returns every record across all buckets, tagged with its
// bucket key, for the admin table.
func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.aggregator.AdminFlatList()))
}

// GetGrouping returns the admin view of the grouping, hidden items
// included.
func (h *MenuHandler) GetGrouping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.aggregator.AdminGrouping()))
}

func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	id, err := h.menuService.AddItem(r.Context(), &req)
	if err != nil {
		log.Printf("[CreateItem] user=%s error: %v", userID, err)
		writeServiceError(w, err, "Failed to create menu item")
		return
	}

	log.Printf("[CreateItem] user=%s created %s (%s)", userID, id, req.Name)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]string{"id": id}))
}

func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if err := h.menuService.UpdateItem(r.Context(), itemID, &patch); err != nil {
		writeServiceError(w, err, "Failed to update menu item")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"id": itemID}))
}

func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	if err := h.menuService.DeleteItem(r.Context(), itemID); err != nil {
		writeServiceError(w, err, "Failed to delete menu item")
		return
	}

	log.Printf("[DeleteItem] user=%s deleted %s", middleware.GetUserID(r.Context()), itemID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Menu item deleted"}))
}

type setVisibilityRequest struct {
	Hidden bool `json:"hidden"`
}

// SetVisibility flips only the hidden flag; the single most used control
// on the dashboard gets its own route.
func (h *MenuHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var req setVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if err := h.menuService.SetVisibility(r.Context(), itemID, req.Hidden); err != nil {
		writeServiceError(w, err, "Failed to update visibility")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{"id": itemID, "hidden": req.Hidden}))
}

type bulkReorderRequest struct {
	Updates []models.OrderUpdate `json:"updates"`
}

func (h *MenuHandler) BulkReorder(w http.ResponseWriter, r *http.Request) {
	var req bulkReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	result, err := h.menuService.BulkReorder(r.Context(), req.Updates)
	if err != nil {
		log.Printf("[BulkReorder] error: %v", err)
		writeServiceError(w, err, "Failed to reorder menu items")
		return
	}

	log.Printf("[BulkReorder] user=%s updated=%d skipped=%d", middleware.GetUserID(r.Context()), result.Updated, result.Skipped)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}
