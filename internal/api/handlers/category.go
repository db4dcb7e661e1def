package handlers

import (
	"context"
	"net/http"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/utils"
)

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, id int, category *models.Category) (*models.Category, error)
	Get(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context, parentID *int, offset, limit int) ([]*models.Category, int, error)
	Delete(ctx context.Context, id int) error
	Batch(ctx context.Context, categories []*models.Category) []services.BatchResult
}

type CategoryHandler struct {
	categories CategoryService
	logger     interfaces.LoggerPort
}

func NewCategoryHandler(categories CategoryService, logger interfaces.LoggerPort) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// List godoc
// @Summary  List categories, optionally below a parent
// @Tags     admin
// @Param    parentId query int false "parent category"
// @Success  200 {object} response
// @Router   /api/v1/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var parentID *int
	if parent := queryInt(r, "parentId", -1); parent >= 0 {
		parentID = &parent
	}

	page := utils.NewPagination(1, queryInt(r, "limit", 25))
	offset := queryInt(r, "start", 0)
	if offset < 0 {
		offset = 0
	}

	categories, total, err := h.categories.List(r.Context(), parentID, offset, page.GetLimit())
	if err != nil {
		writeError(w, r, h.logger, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	writeList(w, r, categories, total)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to get category")
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to get category")
		return
	}
	writeData(w, r, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, r, h.logger, err, "failed to create category")
		return
	}

	created, err := h.categories.Create(r.Context(), &category)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to create category")
		return
	}

	location := resourceLocation(r, created.ID)
	w.Header().Set("Location", location)
	writeData(w, r, http.StatusCreated, map[string]interface{}{"id": created.ID, "location": location})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to update category")
		return
	}

	var category models.Category
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, r, h.logger, err, "failed to update category")
		return
	}

	updated, err := h.categories.Update(r.Context(), id, &category)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to update category")
		return
	}
	writeData(w, r, http.StatusOK, map[string]interface{}{"id": updated.ID})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to delete category")
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err, "failed to delete category")
		return
	}
	writeData(w, r, http.StatusOK, nil)
}

func (h *CategoryHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var categories []*models.Category
	if err := decodeJSON(r, &categories); err != nil {
		writeError(w, r, h.logger, err, "failed to process batch")
		return
	}
	writeData(w, r, http.StatusOK, h.categories.Batch(r.Context(), categories))
}
