package dbal

import (
	"context"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"golang.org/x/sync/errgroup"
)

// ProductNumberSearch resolves a criteria to ordered product numbers, the total
// count and facet results.
type ProductNumberSearch struct {
	db         Querier
	conditions []ConditionHandler
	sortings   []SortingHandler
	facets     []FacetHandler
}

func NewProductNumberSearch(db Querier, rootCategoryID int) *ProductNumberSearch {
	return &ProductNumberSearch{
		db:         db,
		conditions: DefaultConditionHandlers(),
		sortings:   DefaultSortingHandlers(),
		facets:     DefaultFacetHandlers(rootCategoryID),
	}
}

// AddConditionHandler registers an extra handler. Handlers added later win.
func (g *ProductNumberSearch) AddConditionHandler(h ConditionHandler) {
	g.conditions = append([]ConditionHandler{h}, g.conditions...)
}

func (g *ProductNumberSearch) AddSortingHandler(h SortingHandler) {
	g.sortings = append([]SortingHandler{h}, g.sortings...)
}

func (g *ProductNumberSearch) AddFacetHandler(h FacetHandler) {
	g.facets = append([]FacetHandler{h}, g.facets...)
}

// BuildQuery applies all conditions of criteria to the listing base query.
func (g *ProductNumberSearch) BuildQuery(criteria *search.Criteria, ctx *models.ShopContext) (*QueryBuilder, error) {
	qb := NewQueryBuilder("articles a")
	qb.Join("detail", "JOIN article_details d ON d.id = a.main_detail_id")
	qb.Where("a.active = TRUE").Where("d.active = TRUE")

	for _, condition := range criteria.Conditions() {
		handler := g.conditionHandler(condition)
		if handler == nil {
			return nil, fmt.Errorf("condition %s: %w", condition.Name(), utils.ErrUnsupportedCriteriaPart)
		}
		if err := handler.Generate(condition, qb, ctx); err != nil {
			return nil, fmt.Errorf("condition %s: %w", condition.Name(), err)
		}
	}

	return qb, nil
}

// BuildListingQuery is BuildQuery plus sortings and paging.
func (g *ProductNumberSearch) BuildListingQuery(criteria *search.Criteria, ctx *models.ShopContext) (*QueryBuilder, error) {
	qb, err := g.BuildQuery(criteria, ctx)
	if err != nil {
		return nil, err
	}

	for _, sorting := range criteria.Sortings() {
		handler := g.sortingHandler(sorting)
		if handler == nil {
			return nil, fmt.Errorf("sorting %s: %w", sorting.Name(), utils.ErrUnsupportedCriteriaPart)
		}
		if err := handler.Generate(sorting, qb, ctx); err != nil {
			return nil, fmt.Errorf("sorting %s: %w", sorting.Name(), err)
		}
	}
	if len(criteria.Sortings()) == 0 {
		qb.AddOrderBy("a.id", search.SortAsc)
	}

	qb.Select("a.id", "d.id", "d.number").
		SetOffset(criteria.GetOffset()).
		SetLimit(criteria.GetLimit())

	return qb, nil
}

// CountQuery renders the total count of criteria. Sortings are not applied,
// their arguments are only referenced by ORDER BY.
func (g *ProductNumberSearch) CountQuery(criteria *search.Criteria, ctx *models.ShopContext) (string, []interface{}, error) {
	qb, err := g.BuildQuery(criteria, ctx)
	if err != nil {
		return "", nil, err
	}
	query, args := qb.CountSQL("a.id")
	return query, args, nil
}

func (g *ProductNumberSearch) Search(ctx context.Context, criteria *search.Criteria, shopCtx *models.ShopContext) (*search.ProductNumberSearchResult, error) {
	for _, facet := range criteria.Facets() {
		if g.facetHandler(facet) == nil {
			return nil, fmt.Errorf("facet %s: %w", facet.Name(), utils.ErrUnsupportedCriteriaPart)
		}
	}

	qb, err := g.BuildListingQuery(criteria, shopCtx)
	if err != nil {
		return nil, err
	}

	query, args := qb.SQL()
	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	result := &search.ProductNumberSearchResult{}
	for rows.Next() {
		var product models.BaseProduct
		if err := rows.Scan(&product.ID, &product.VariantID, &product.Number); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		result.Products = append(result.Products, &product)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating product rows: %w", rows.Err())
	}

	result.TotalCount = len(result.Products)
	if criteria.FetchCount() {
		countQuery, countArgs, err := g.CountQuery(criteria, shopCtx)
		if err != nil {
			return nil, err
		}
		if err := g.db.QueryRow(ctx, countQuery, countArgs...).Scan(&result.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
	}

	facets, err := g.facetResults(ctx, criteria, shopCtx)
	if err != nil {
		return nil, err
	}
	result.Facets = facets

	return result, nil
}

// facetResults runs the facet queries concurrently and keeps the facet order of criteria.
func (g *ProductNumberSearch) facetResults(ctx context.Context, criteria *search.Criteria, shopCtx *models.ShopContext) ([]search.FacetResult, error) {
	facets := criteria.Facets()
	results := make([]search.FacetResult, len(facets))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, facet := range facets {
		i, facet := i, facet
		handler := g.facetHandler(facet)
		eg.Go(func() error {
			res, err := handler.Generate(egCtx, g.db, g, facet, criteria, shopCtx)
			if err != nil {
				return fmt.Errorf("facet %s: %w", facet.Name(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]search.FacetResult, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out, nil
}

func (g *ProductNumberSearch) conditionHandler(c search.Condition) ConditionHandler {
	for _, h := range g.conditions {
		if h.Supports(c) {
			return h
		}
	}
	return nil
}

func (g *ProductNumberSearch) sortingHandler(s search.Sorting) SortingHandler {
	for _, h := range g.sortings {
		if h.Supports(s) {
			return h
		}
	}
	return nil
}

func (g *ProductNumberSearch) facetHandler(f search.Facet) FacetHandler {
	for _, h := range g.facets {
		if h.Supports(f) {
			return h
		}
	}
	return nil
}
