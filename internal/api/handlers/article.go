package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/utils"
)

// ArticleService is the admin article use case.
type ArticleService interface {
	Create(ctx context.Context, article *models.Article, userID string) (*models.Article, error)
	Update(ctx context.Context, id int, article *models.Article, userID string) (*models.Article, error)
	Get(ctx context.Context, id int) (*models.Article, error)
	List(ctx context.Context, filter *models.ArticleFilter, offset, limit int) ([]*models.Article, int, error)
	Delete(ctx context.Context, id int, userID string) error
	Batch(ctx context.Context, articles []*models.Article, userID string) []services.BatchResult
	History(ctx context.Context, id, limit, offset int) ([]*models.ArticleHistoryRecord, error)
}

type ArticleHandler struct {
	articles ArticleService
	logger   interfaces.LoggerPort
}

func NewArticleHandler(articles ArticleService, logger interfaces.LoggerPort) *ArticleHandler {
	return &ArticleHandler{articles: articles, logger: logger}
}

func articleFilter(r *http.Request) *models.ArticleFilter {
	q := r.URL.Query()
	filter := &models.ArticleFilter{
		Name:        q.Get("name"),
		Number:      q.Get("number"),
		SupplierID:  queryInt(r, "supplierId", 0),
		CategoryID:  queryInt(r, "categoryId", 0),
		SearchQuery: q.Get("q"),
	}
	if raw := q.Get("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	return filter
}

// List godoc
// @Summary  List articles
// @Tags     admin
// @Param    start query int false "offset"
// @Param    limit query int false "page size"
// @Success  200 {object} response
// @Router   /api/v1/articles [get]
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	page := utils.NewPagination(1, queryInt(r, "limit", 25))
	offset := queryInt(r, "start", 0)
	if offset < 0 {
		offset = 0
	}

	articles, total, err := h.articles.List(r.Context(), articleFilter(r), offset, page.GetLimit())
	if err != nil {
		writeError(w, r, h.logger, err, "failed to list articles")
		return
	}
	if articles == nil {
		articles = []*models.Article{}
	}
	writeList(w, r, articles, total)
}

// Get godoc
// @Summary  Get an article
// @Tags     admin
// @Param    id path int true "article id"
// @Success  200 {object} response
// @Failure  404 {object} errorResponse
// @Router   /api/v1/articles/{id} [get]
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to get article")
		return
	}

	article, err := h.articles.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to get article")
		return
	}
	writeData(w, r, http.StatusOK, article)
}

// Create godoc
// @Summary  Create an article
// @Tags     admin
// @Success  201 {object} response
// @Failure  400 {object} errorResponse
// @Router   /api/v1/articles [post]
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var article models.Article
	if err := decodeJSON(r, &article); err != nil {
		writeError(w, r, h.logger, err, "failed to create article")
		return
	}

	created, err := h.articles.Create(r.Context(), &article, userID(r))
	if err != nil {
		writeError(w, r, h.logger, err, "failed to create article")
		return
	}

	location := resourceLocation(r, created.ID)
	w.Header().Set("Location", location)
	writeData(w, r, http.StatusCreated, map[string]interface{}{"id": created.ID, "location": location})
}

// Update godoc
// @Summary  Replace an article
// @Tags     admin
// @Param    id path int true "article id"
// @Success  200 {object} response
// @Router   /api/v1/articles/{id} [put]
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to update article")
		return
	}

	var article models.Article
	if err := decodeJSON(r, &article); err != nil {
		writeError(w, r, h.logger, err, "failed to update article")
		return
	}

	updated, err := h.articles.Update(r.Context(), id, &article, userID(r))
	if err != nil {
		writeError(w, r, h.logger, err, "failed to update article")
		return
	}
	writeData(w, r, http.StatusOK, map[string]interface{}{"id": updated.ID})
}

// Delete godoc
// @Summary  Delete an article with all variants
// @Tags     admin
// @Param    id path int true "article id"
// @Success  200 {object} response
// @Router   /api/v1/articles/{id} [delete]
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to delete article")
		return
	}

	if err := h.articles.Delete(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, h.logger, err, "failed to delete article")
		return
	}
	writeData(w, r, http.StatusOK, nil)
}

// Batch godoc
// @Summary  Create or update many articles
// @Tags     admin
// @Success  200 {object} response
// @Router   /api/v1/articles [put]
func (h *ArticleHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var articles []*models.Article
	if err := decodeJSON(r, &articles); err != nil {
		writeError(w, r, h.logger, err, "failed to process batch")
		return
	}

	results := h.articles.Batch(r.Context(), articles, userID(r))
	writeData(w, r, http.StatusOK, results)
}

// History godoc
// @Summary  Audit trail of an article
// @Tags     admin
// @Param    id path int true "article id"
// @Success  200 {object} response
// @Router   /api/v1/articles/{id}/history [get]
func (h *ArticleHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to get article history")
		return
	}

	page := utils.NewPagination(queryInt(r, "page", 1), queryInt(r, "limit", 20))
	records, err := h.articles.History(r.Context(), id, page.GetLimit(), page.GetOffset())
	if err != nil {
		writeError(w, r, h.logger, err, "failed to get article history")
		return
	}
	if records == nil {
		records = []*models.ArticleHistoryRecord{}
	}
	writeData(w, r, http.StatusOK, records)
}
