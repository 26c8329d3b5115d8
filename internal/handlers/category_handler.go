package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(categories))
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	id, err := h.categoryService.Add(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create category")
		return
	}

	log.Printf("[CreateCategory] created %s (%s)", id, req.Name)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]string{"id": id}))
}

func (h *CategoryHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req bulkReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	result, err := h.categoryService.BulkReorder(r.Context(), req.Updates)
	if err != nil {
		writeServiceError(w, err, "Failed to reorder categories")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}
