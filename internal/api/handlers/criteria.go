package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	pkgutils "github.com/athebyme/gomarket-platform/storefront-service/pkg/utils"
)

const maxListingPageSize = 100

func queryIDs(r *http.Request, name string) ([]int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, "|") {
		for _, p := range strings.Split(part, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			id, err := strconv.Atoi(p)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("%s contains invalid id %q: %w", name, p, utils.ErrValidation)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s is not a valid amount: %w", name, utils.ErrValidation)
	}
	return v, nil
}

func queryFlag(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// listingCriteria translates the listing query string. The category defaults
// to the shop root; p is 1-based.
func listingCriteria(r *http.Request, shopCtx *models.ShopContext) (*search.Criteria, error) {
	page := pkgutils.NewPagination(queryInt(r, "p", 1), queryInt(r, "n", pkgutils.DefaultPageSize))
	if page.PageSize > maxListingPageSize {
		page.PageSize = maxListingPageSize
	}

	criteria := search.NewCriteria().
		Offset(page.GetOffset()).
		Limit(page.GetLimit()).
		SetFetchCount(true)

	categoryIDs, err := queryIDs(r, "category")
	if err != nil {
		return nil, err
	}
	if len(categoryIDs) == 0 && shopCtx.Shop != nil && shopCtx.Shop.CategoryID > 0 {
		categoryIDs = []int{shopCtx.Shop.CategoryID}
	}
	if len(categoryIDs) > 0 {
		criteria.AddBaseCondition(search.CategoryCondition{CategoryIDs: categoryIDs})
	}
	if shopCtx.CurrentCustomerGroup != nil {
		criteria.AddBaseCondition(search.CustomerGroupCondition{CustomerGroupIDs: []int{shopCtx.CurrentCustomerGroup.ID}})
	}

	manufacturerIDs, err := queryIDs(r, "manufacturer")
	if err != nil {
		return nil, err
	}
	if len(manufacturerIDs) > 0 {
		criteria.AddCondition(search.ManufacturerCondition{ManufacturerIDs: manufacturerIDs})
	}

	minPrice, err := queryFloat(r, "min")
	if err != nil {
		return nil, err
	}
	maxPrice, err := queryFloat(r, "max")
	if err != nil {
		return nil, err
	}
	if minPrice > 0 || maxPrice > 0 {
		criteria.AddCondition(search.PriceCondition{Min: minPrice, Max: maxPrice})
	}

	if term := strings.TrimSpace(r.URL.Query().Get("q")); term != "" {
		criteria.AddCondition(search.SearchTermCondition{Term: term})
	}
	if queryFlag(r, "shippingFree") {
		criteria.AddCondition(search.ShippingFreeCondition{})
	}
	if queryFlag(r, "immediateDelivery") {
		criteria.AddCondition(search.ImmediateDeliveryCondition{})
	}
	if queryFlag(r, "available") {
		criteria.AddCondition(search.IsAvailableCondition{})
	}

	sorting, ok := search.SortingByKey(r.URL.Query().Get("sort"))
	if !ok {
		return nil, fmt.Errorf("unknown sorting %q: %w", r.URL.Query().Get("sort"), utils.ErrValidation)
	}
	criteria.AddSorting(sorting)

	if r.URL.Query().Get("facets") != "0" {
		criteria.AddFacet(search.CategoryFacet{}).
			AddFacet(search.ManufacturerFacet{}).
			AddFacet(search.PriceFacet{}).
			AddFacet(search.ImmediateDeliveryFacet{}).
			AddFacet(search.ShippingFreeFacet{})
	}

	return criteria, nil
}
