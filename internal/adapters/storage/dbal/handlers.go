package dbal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ConditionHandler translates one kind of condition into SQL.
type ConditionHandler interface {
	Supports(condition search.Condition) bool
	Generate(condition search.Condition, qb *QueryBuilder, ctx *models.ShopContext) error
}

type SortingHandler interface {
	Supports(sorting search.Sorting) bool
	Generate(sorting search.Sorting, qb *QueryBuilder, ctx *models.ShopContext) error
}

type categoryConditionHandler struct{}

func (categoryConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.CategoryCondition)
	return ok
}

func (categoryConditionHandler) Generate(c search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	condition := c.(search.CategoryCondition)
	ids := qb.AddArg(condition.CategoryIDs)
	qb.Where(fmt.Sprintf(`EXISTS (
		SELECT 1 FROM article_categories ac
		JOIN categories c ON c.id = ac.category_id
		WHERE ac.article_id = a.id AND (ac.category_id = ANY(%s) OR c.path && %s::int[])
	)`, ids, ids))
	return nil
}

type manufacturerConditionHandler struct{}

func (manufacturerConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.ManufacturerCondition)
	return ok
}

func (manufacturerConditionHandler) Generate(c search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	condition := c.(search.ManufacturerCondition)
	qb.Where(fmt.Sprintf("a.supplier_id = ANY(%s)", qb.AddArg(condition.ManufacturerIDs)))
	return nil
}

type priceConditionHandler struct{}

func (priceConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.PriceCondition)
	return ok
}

func (priceConditionHandler) Generate(c search.Condition, qb *QueryBuilder, ctx *models.ShopContext) error {
	condition := c.(search.PriceCondition)
	expr := PriceExpression(qb, ctx)

	if condition.Min > 0 {
		qb.Where(fmt.Sprintf("%s >= %s", expr, qb.AddArg(condition.Min)))
	}
	if condition.Max > 0 {
		qb.Where(fmt.Sprintf("%s <= %s", expr, qb.AddArg(condition.Max)))
	}
	return nil
}

const immediateDeliverySQL = "d.instock >= GREATEST(d.min_purchase, 1)"

type immediateDeliveryConditionHandler struct{}

func (immediateDeliveryConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.ImmediateDeliveryCondition)
	return ok
}

func (immediateDeliveryConditionHandler) Generate(_ search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	qb.Where(immediateDeliverySQL)
	return nil
}

const shippingFreeSQL = "d.shipping_free = TRUE"

type shippingFreeConditionHandler struct{}

func (shippingFreeConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.ShippingFreeCondition)
	return ok
}

func (shippingFreeConditionHandler) Generate(_ search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	qb.Where(shippingFreeSQL)
	return nil
}

type customerGroupConditionHandler struct{}

func (customerGroupConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.CustomerGroupCondition)
	return ok
}

func (customerGroupConditionHandler) Generate(c search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	condition := c.(search.CustomerGroupCondition)
	qb.Where(fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM customer_group_blocks b WHERE b.article_id = a.id AND b.customer_group_id = ANY(%s))",
		qb.AddArg(condition.CustomerGroupIDs),
	))
	return nil
}

type hasPseudoPriceConditionHandler struct{}

func (hasPseudoPriceConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.HasPseudoPriceCondition)
	return ok
}

func (hasPseudoPriceConditionHandler) Generate(_ search.Condition, qb *QueryBuilder, ctx *models.ShopContext) error {
	current := qb.AddArg(groupKey(ctx.CurrentCustomerGroup))
	fallback := qb.AddArg(groupKey(ctx.FallbackCustomerGroup))
	qb.Where(fmt.Sprintf(
		"EXISTS (SELECT 1 FROM prices pp WHERE pp.article_id = a.id AND pp.pseudo_price > pp.price AND pp.customer_group_key IN (%s, %s))",
		current, fallback,
	))
	return nil
}

type searchTermConditionHandler struct{}

func (searchTermConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.SearchTermCondition)
	return ok
}

func (searchTermConditionHandler) Generate(c search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	condition := c.(search.SearchTermCondition)
	term := strings.TrimSpace(condition.Term)
	if term == "" {
		return fmt.Errorf("empty search term: %w", utils.ErrParameterMissing)
	}

	like := qb.AddArg("%" + escapeLike(term) + "%")
	qb.Where(fmt.Sprintf("(a.name ILIKE %s OR d.number ILIKE %s OR a.keywords ILIKE %s)", like, like, like))
	return nil
}

type isAvailableConditionHandler struct{}

func (isAvailableConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.IsAvailableCondition)
	return ok
}

func (isAvailableConditionHandler) Generate(_ search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	qb.Where("(a.last_stock = FALSE OR d.instock >= GREATEST(d.min_purchase, 1))")
	return nil
}

var attributeField = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type productAttributeConditionHandler struct{}

func (productAttributeConditionHandler) Supports(c search.Condition) bool {
	_, ok := c.(search.ProductAttributeCondition)
	return ok
}

func (productAttributeConditionHandler) Generate(c search.Condition, qb *QueryBuilder, _ *models.ShopContext) error {
	condition := c.(search.ProductAttributeCondition)
	if !attributeField.MatchString(condition.Field) {
		return fmt.Errorf("invalid attribute field %q: %w", condition.Field, utils.ErrValidation)
	}

	column := fmt.Sprintf("(d.attributes->>'%s')", condition.Field)

	switch condition.Operator {
	case search.OperatorEq, search.OperatorNeq, search.OperatorLt, search.OperatorLte, search.OperatorGt, search.OperatorGte:
		if condition.Value == nil {
			if condition.Operator == search.OperatorEq {
				qb.Where(column + " IS NULL")
				return nil
			}
			if condition.Operator == search.OperatorNeq {
				qb.Where(column + " IS NOT NULL")
				return nil
			}
		}
		qb.Where(fmt.Sprintf("%s %s %s", column, condition.Operator, qb.AddArg(fmt.Sprint(condition.Value))))
	case search.OperatorIn:
		values, ok := condition.Value.([]string)
		if !ok {
			return fmt.Errorf("operator IN needs a list of strings: %w", utils.ErrValidation)
		}
		qb.Where(fmt.Sprintf("%s = ANY(%s)", column, qb.AddArg(values)))
	case search.OperatorContains:
		qb.Where(fmt.Sprintf("%s ILIKE %s", column, qb.AddArg("%"+escapeLike(fmt.Sprint(condition.Value))+"%")))
	case search.OperatorStartsWith:
		qb.Where(fmt.Sprintf("%s ILIKE %s", column, qb.AddArg(escapeLike(fmt.Sprint(condition.Value))+"%")))
	case search.OperatorEndsWith:
		qb.Where(fmt.Sprintf("%s ILIKE %s", column, qb.AddArg("%"+escapeLike(fmt.Sprint(condition.Value)))))
	default:
		return fmt.Errorf("unknown operator %q: %w", condition.Operator, utils.ErrValidation)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type popularitySortingHandler struct{}

func (popularitySortingHandler) Supports(s search.Sorting) bool {
	_, ok := s.(search.PopularitySorting)
	return ok
}

func (popularitySortingHandler) Generate(s search.Sorting, qb *QueryBuilder, _ *models.ShopContext) error {
	direction := search.NormalizeDirection(s.(search.PopularitySorting).Direction)
	qb.AddOrderBy("d.sales", direction)
	qb.AddOrderBy("a.id", direction)
	return nil
}

type productNameSortingHandler struct{}

func (productNameSortingHandler) Supports(s search.Sorting) bool {
	_, ok := s.(search.ProductNameSorting)
	return ok
}

func (productNameSortingHandler) Generate(s search.Sorting, qb *QueryBuilder, _ *models.ShopContext) error {
	qb.AddOrderBy("a.name", search.NormalizeDirection(s.(search.ProductNameSorting).Direction))
	return nil
}

type priceSortingHandler struct{}

func (priceSortingHandler) Supports(s search.Sorting) bool {
	_, ok := s.(search.PriceSorting)
	return ok
}

func (priceSortingHandler) Generate(s search.Sorting, qb *QueryBuilder, ctx *models.ShopContext) error {
	qb.AddOrderBy(PriceExpression(qb, ctx), search.NormalizeDirection(s.(search.PriceSorting).Direction))
	return nil
}

type releaseDateSortingHandler struct{}

func (releaseDateSortingHandler) Supports(s search.Sorting) bool {
	_, ok := s.(search.ReleaseDateSorting)
	return ok
}

func (releaseDateSortingHandler) Generate(s search.Sorting, qb *QueryBuilder, _ *models.ShopContext) error {
	direction := search.NormalizeDirection(s.(search.ReleaseDateSorting).Direction)
	qb.AddOrderBy("a.created_at", direction)
	qb.AddOrderBy("a.id", direction)
	return nil
}

// DefaultConditionHandlers returns a handler for every condition of the search package.
func DefaultConditionHandlers() []ConditionHandler {
	return []ConditionHandler{
		categoryConditionHandler{},
		manufacturerConditionHandler{},
		priceConditionHandler{},
		immediateDeliveryConditionHandler{},
		shippingFreeConditionHandler{},
		customerGroupConditionHandler{},
		hasPseudoPriceConditionHandler{},
		searchTermConditionHandler{},
		isAvailableConditionHandler{},
		productAttributeConditionHandler{},
	}
}

func DefaultSortingHandlers() []SortingHandler {
	return []SortingHandler{
		popularitySortingHandler{},
		productNameSortingHandler{},
		priceSortingHandler{},
		releaseDateSortingHandler{},
	}
}
