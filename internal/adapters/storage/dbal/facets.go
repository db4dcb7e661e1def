package dbal

import (
	"context"
	"errors"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/jackc/pgx/v5"
)

// QueryFactory builds the filtered product query of a criteria.
type QueryFactory interface {
	BuildQuery(criteria *search.Criteria, ctx *models.ShopContext) (*QueryBuilder, error)
}

// FacetHandler runs the aggregation of a facet. It returns nil when the facet
// has nothing to show.
type FacetHandler interface {
	Supports(facet search.Facet) bool
	Generate(ctx context.Context, db Querier, factory QueryFactory, facet search.Facet, criteria *search.Criteria, shopCtx *models.ShopContext) (search.FacetResult, error)
}

type categoryFacetHandler struct {
	rootID int
}

func (h categoryFacetHandler) Supports(f search.Facet) bool {
	_, ok := f.(search.CategoryFacet)
	return ok
}

// Generate loads the categories of all matching products together with their
// ancestors and nests them below the system root.
func (h categoryFacetHandler) Generate(ctx context.Context, db Querier, factory QueryFactory, _ search.Facet, criteria *search.Criteria, shopCtx *models.ShopContext) (search.FacetResult, error) {
	qb, err := factory.BuildQuery(criteria.Clone(), shopCtx)
	if err != nil {
		return nil, err
	}

	qb.Join("facet_categories", "JOIN article_categories fc ON fc.article_id = a.id")
	qb.Select("DISTINCT fc.category_id")
	sub, args := qb.SQL()

	query := fmt.Sprintf(`
		SELECT c.id, COALESCE(c.parent_id, 0), c.name, c.position, COALESCE(c.path, '{}')
		FROM categories c
		WHERE c.active = TRUE
		  AND (c.id IN (%s) OR c.id IN (SELECT unnest(c2.path) FROM categories c2 WHERE c2.id IN (%s)))
	`, sub, sub)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query facet categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Position, &c.Path); err != nil {
			return nil, fmt.Errorf("failed to scan facet category: %w", err)
		}
		categories = append(categories, &c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating facet categories: %w", rows.Err())
	}

	var active []int
	if condition, ok := criteria.GetCondition(search.ConditionCategory); ok {
		active = condition.(search.CategoryCondition).CategoryIDs
	}

	tree := search.BuildCategoryTree(categories, h.rootID, active)
	if len(tree) == 0 {
		return nil, nil
	}

	return search.NewTreeFacetResult(search.FacetCategory, "sCategory", "Categories", len(active) > 0, tree), nil
}

type manufacturerFacetHandler struct{}

func (manufacturerFacetHandler) Supports(f search.Facet) bool {
	_, ok := f.(search.ManufacturerFacet)
	return ok
}

func (manufacturerFacetHandler) Generate(ctx context.Context, db Querier, factory QueryFactory, _ search.Facet, criteria *search.Criteria, shopCtx *models.ShopContext) (search.FacetResult, error) {
	qb, err := factory.BuildQuery(criteria.Clone().RemoveUserCondition(search.ConditionManufacturer), shopCtx)
	if err != nil {
		return nil, err
	}

	qb.Join("facet_manufacturer", "JOIN manufacturers m ON m.id = a.supplier_id")
	qb.Select("DISTINCT m.id", "m.name").AddOrderBy("m.name", search.SortAsc)
	query, args := qb.SQL()

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query facet manufacturers: %w", err)
	}
	defer rows.Close()

	active := map[int]bool{}
	if condition, ok := criteria.GetCondition(search.ConditionManufacturer); ok {
		for _, id := range condition.(search.ManufacturerCondition).ManufacturerIDs {
			active[id] = true
		}
	}

	var values []search.ValueListItem
	for rows.Next() {
		var item search.ValueListItem
		if err := rows.Scan(&item.ID, &item.Label); err != nil {
			return nil, fmt.Errorf("failed to scan facet manufacturer: %w", err)
		}
		item.Active = active[item.ID]
		values = append(values, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating facet manufacturers: %w", rows.Err())
	}

	if len(values) == 0 {
		return nil, nil
	}

	return search.NewValueListFacetResult(search.FacetManufacturer, "sSupplier", "Manufacturer", len(active) > 0, values), nil
}

type priceFacetHandler struct{}

func (priceFacetHandler) Supports(f search.Facet) bool {
	_, ok := f.(search.PriceFacet)
	return ok
}

func (priceFacetHandler) Generate(ctx context.Context, db Querier, factory QueryFactory, _ search.Facet, criteria *search.Criteria, shopCtx *models.ShopContext) (search.FacetResult, error) {
	qb, err := factory.BuildQuery(criteria.Clone().RemoveUserCondition(search.ConditionPrice), shopCtx)
	if err != nil {
		return nil, err
	}

	expr := PriceExpression(qb, shopCtx)
	qb.Select(fmt.Sprintf("COALESCE(MIN(%s), 0)::float8", expr), fmt.Sprintf("COALESCE(MAX(%s), 0)::float8", expr))
	query, args := qb.SQL()

	var min, max float64
	if err := db.QueryRow(ctx, query, args...).Scan(&min, &max); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query price range: %w", err)
	}

	if max == 0 {
		return nil, nil
	}

	activeMin, activeMax := min, max
	condition, active := criteria.GetCondition(search.ConditionPrice)
	if active {
		pc := condition.(search.PriceCondition)
		if pc.Min > 0 {
			activeMin = pc.Min
		}
		if pc.Max > 0 {
			activeMax = pc.Max
		}
	}

	return search.NewRangeFacetResult(search.FacetPrice, "Price", active, min, max, activeMin, activeMax, "priceMin", "priceMax"), nil
}

// booleanFacetHandler shows a toggle when at least one product would remain
// after applying the condition.
type booleanFacetHandler struct {
	facetName string
	condition search.Condition
	fieldName string
	label     string
	where     string
}

func (h booleanFacetHandler) Supports(f search.Facet) bool {
	return f.Name() == h.facetName
}

func (h booleanFacetHandler) Generate(ctx context.Context, db Querier, factory QueryFactory, _ search.Facet, criteria *search.Criteria, shopCtx *models.ShopContext) (search.FacetResult, error) {
	qb, err := factory.BuildQuery(criteria.Clone().RemoveUserCondition(h.condition.Name()), shopCtx)
	if err != nil {
		return nil, err
	}

	qb.Where(h.where).Select("1").SetLimit(1)
	sub, args := qb.SQL()

	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to query %s facet: %w", h.facetName, err)
	}
	if !exists {
		return nil, nil
	}

	return search.NewBooleanFacetResult(h.facetName, h.fieldName, h.label, criteria.HasCondition(h.condition.Name())), nil
}

// DefaultFacetHandlers returns a handler for every facet of the search package.
func DefaultFacetHandlers(rootCategoryID int) []FacetHandler {
	return []FacetHandler{
		categoryFacetHandler{rootID: rootCategoryID},
		manufacturerFacetHandler{},
		priceFacetHandler{},
		booleanFacetHandler{
			facetName: search.FacetImmediateDelivery,
			condition: search.ImmediateDeliveryCondition{},
			fieldName: "delivery",
			label:     "Immediate delivery",
			where:     immediateDeliverySQL,
		},
		booleanFacetHandler{
			facetName: search.FacetShippingFree,
			condition: search.ShippingFreeCondition{},
			fieldName: "shippingFree",
			label:     "Shipping free",
			where:     shippingFreeSQL,
		},
	}
}
