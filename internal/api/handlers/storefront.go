package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/legacy"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/go-chi/chi/v5"
)

type ContextProvider interface {
	Get(ctx context.Context, shopID int, currencyISO, groupKey string) (*models.ShopContext, error)
}

type ProductSearcher interface {
	Search(ctx context.Context, criteria *search.Criteria, shopCtx *models.ShopContext) (*search.ProductSearchResult, error)
}

type ProductLoader interface {
	Get(ctx context.Context, number string, shopCtx *models.ShopContext) (*models.ListProduct, error)
	GetProduct(ctx context.Context, number string, shopCtx *models.ShopContext) (*models.Product, error)
}

type CategoryReader interface {
	Get(ctx context.Context, id int) (*models.Category, error)
}

type RiskChecker interface {
	IsRisky(ctx context.Context, paymentID int, in *risk.Input) (bool, error)
}

// StorefrontHandler serves the public read side of the shop.
type StorefrontHandler struct {
	contexts   ContextProvider
	searcher   ProductSearcher
	products   ProductLoader
	categories CategoryReader
	risk       RiskChecker
	converter  *legacy.Converter
	logger     interfaces.LoggerPort
}

func NewStorefrontHandler(
	contexts ContextProvider,
	searcher ProductSearcher,
	products ProductLoader,
	categories CategoryReader,
	riskChecker RiskChecker,
	converter *legacy.Converter,
	logger interfaces.LoggerPort,
) *StorefrontHandler {
	return &StorefrontHandler{
		contexts:   contexts,
		searcher:   searcher,
		products:   products,
		categories: categories,
		risk:       riskChecker,
		converter:  converter,
		logger:     logger,
	}
}

// shopContext resolves the context of the request. Shop and currency come from
// the query; the customer group is set by the session layer in front of us.
func (h *StorefrontHandler) shopContext(r *http.Request) (*models.ShopContext, error) {
	return h.contexts.Get(r.Context(),
		queryInt(r, "shop", 0),
		r.URL.Query().Get("currency"),
		r.Header.Get("X-Customer-Group"),
	)
}

// Listing godoc
// @Summary  Search products of a listing
// @Tags     storefront
// @Param    category     query string false "category ids separated by |"
// @Param    manufacturer query string false "manufacturer ids separated by |"
// @Param    sort         query string false "release, popularity, name, name_desc, price, price_desc"
// @Param    p            query int    false "page"
// @Param    n            query int    false "page size"
// @Success  200 {object} response
// @Router   /api/v1/storefront/listing [get]
func (h *StorefrontHandler) Listing(w http.ResponseWriter, r *http.Request) {
	result, _, ok := h.search(w, r)
	if !ok {
		return
	}
	writeData(w, r, http.StatusOK, result)
}

// LegacyListing godoc
// @Summary  Listing page in the legacy array format
// @Tags     storefront
// @Param    category     query string false "category ids separated by |"
// @Param    manufacturer query string false "manufacturer ids separated by |"
// @Param    sort         query string false "release, popularity, name, name_desc, price, price_desc"
// @Param    p            query int    false "page"
// @Param    n            query int    false "page size"
// @Success  200 {object} response
// @Router   /api/v1/storefront/listing/legacy [get]
func (h *StorefrontHandler) LegacyListing(w http.ResponseWriter, r *http.Request) {
	result, criteria, ok := h.search(w, r)
	if !ok {
		return
	}

	perPage := criteria.GetLimit()
	page, pages := 1, 1
	if perPage > 0 {
		page = criteria.GetOffset()/perPage + 1
		pages = (result.TotalCount + perPage - 1) / perPage
	}
	if pages < 1 {
		pages = 1
	}

	writeData(w, r, http.StatusOK, map[string]interface{}{
		"sArticles":       h.converter.ConvertListProductStructList(result.Products),
		"sNumberArticles": result.TotalCount,
		"sPage":           page,
		"sPerPage":        perPage,
		"sNumberPages":    pages,
		"facets":          result.Facets,
	})
}

// search runs the listing criteria of the request. It writes the error
// response itself and reports false in that case.
func (h *StorefrontHandler) search(w http.ResponseWriter, r *http.Request) (*search.ProductSearchResult, *search.Criteria, bool) {
	shopCtx, err := h.shopContext(r)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to resolve shop context")
		return nil, nil, false
	}

	criteria, err := listingCriteria(r, shopCtx)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to search products")
		return nil, nil, false
	}

	result, err := h.searcher.Search(r.Context(), criteria, shopCtx)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to search products")
		return nil, nil, false
	}
	if result.Products == nil {
		result.Products = []*models.ListProduct{}
	}
	if result.Facets == nil {
		result.Facets = []search.FacetResult{}
	}
	return result, criteria, true
}

// Product godoc
// @Summary  Priced list product of a variant
// @Tags     storefront
// @Param    number path string true "order number"
// @Success  200 {object} response
// @Failure  404 {object} errorResponse
// @Router   /api/v1/storefront/products/{number} [get]
func (h *StorefrontHandler) Product(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	shopCtx, err := h.shopContext(r)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to resolve shop context")
		return
	}

	product, err := h.products.Get(r.Context(), number, shopCtx)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load product")
		return
	}
	writeData(w, r, http.StatusOK, product)
}

// LegacyProduct godoc
// @Summary  Detail page product in the legacy array format
// @Tags     storefront
// @Param    number path string true "order number"
// @Success  200 {object} response
// @Router   /api/v1/storefront/products/{number}/legacy [get]
func (h *StorefrontHandler) LegacyProduct(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	shopCtx, err := h.shopContext(r)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to resolve shop context")
		return
	}

	product, err := h.products.GetProduct(r.Context(), number, shopCtx)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load product")
		return
	}
	writeData(w, r, http.StatusOK, h.converter.ConvertProductStruct(product))
}

func (h *StorefrontHandler) LegacyCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load category")
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load category")
		return
	}
	writeData(w, r, http.StatusOK, h.converter.ConvertCategoryStruct(category))
}

// Risk godoc
// @Summary  Decide whether a payment method is blocked for a checkout
// @Tags     storefront
// @Param    paymentID path int true "payment method id"
// @Success  200 {object} response
// @Router   /api/v1/storefront/payments/{paymentID}/risk [post]
func (h *StorefrontHandler) Risk(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentID")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to check payment risk")
		return
	}

	var in risk.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err, "failed to check payment risk")
		return
	}

	risky, err := h.risk.IsRisky(r.Context(), paymentID, &in)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to check payment risk")
		return
	}
	writeData(w, r, http.StatusOK, map[string]bool{"risky": risky})
}

// MediaHandler resolves media paths to public URLs.
type MediaHandler struct {
	media  interfaces.MediaPort
	logger interfaces.LoggerPort
}

func NewMediaHandler(media interfaces.MediaPort, logger interfaces.LoggerPort) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

// Resolve godoc
// @Summary  Public URL of a media file
// @Tags     storefront
// @Success  200 {object} response
// @Failure  404 {object} errorResponse
// @Router   /api/v1/storefront/media/{path} [get]
func (h *MediaHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(chi.URLParam(r, "*"))
	if path == "" {
		writeError(w, r, h.logger, fmt.Errorf("media path: %w", utils.ErrParameterMissing), "failed to resolve media")
		return
	}

	normalized := h.media.Normalize(path)
	if !h.media.Has(r.Context(), normalized) {
		writeError(w, r, h.logger, fmt.Errorf("media %s: %w", normalized, utils.ErrNotFound), "failed to resolve media")
		return
	}

	url, _ := h.media.GetURL(normalized)
	size, err := h.media.GetSize(r.Context(), normalized)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to resolve media")
		return
	}
	writeData(w, r, http.StatusOK, map[string]interface{}{
		"path": normalized,
		"url":  url,
		"size": size,
	})
}
