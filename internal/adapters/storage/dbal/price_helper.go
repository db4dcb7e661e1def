package dbal

import (
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
)

const cheapestPriceJoin = "cheapest_price"

// JoinCheapestPrice joins the lowest stored price of each product for the
// current customer group, or the fallback group when the product has no price
// for the current one.
func JoinCheapestPrice(qb *QueryBuilder, ctx *models.ShopContext) {
	if qb.HasJoin(cheapestPriceJoin) {
		return
	}

	current := qb.AddArg(groupKey(ctx.CurrentCustomerGroup))
	fallback := qb.AddArg(groupKey(ctx.FallbackCustomerGroup))

	qb.Join(cheapestPriceJoin, fmt.Sprintf(`LEFT JOIN LATERAL (
		SELECT MIN(p.price) AS price
		FROM prices p
		JOIN article_details pd ON pd.id = p.detail_id AND pd.active
		WHERE p.article_id = a.id
		  AND p.customer_group_key = CASE
			WHEN EXISTS (SELECT 1 FROM prices cp WHERE cp.article_id = a.id AND cp.customer_group_key = %s) THEN %s
			ELSE %s
		  END
	) cheapest ON TRUE`, current, current, fallback))

	qb.Join("tax", "JOIN taxes t ON t.id = a.tax_id")
}

// PriceExpression is the SQL expression of the calculated cheapest price. It
// applies the same steps as the price calculator.
func PriceExpression(qb *QueryBuilder, ctx *models.ShopContext) string {
	JoinCheapestPrice(qb, ctx)

	expr := "COALESCE(cheapest.price, 0)"

	group := ctx.CurrentCustomerGroup
	if group != nil && group.UseDiscount && group.PercentageDiscount > 0 {
		expr = fmt.Sprintf("(%s * (100 - %s::numeric) / 100)", expr, qb.AddArg(group.PercentageDiscount))
	}

	if factor := ctx.CurrencyFactor(); factor != 1 {
		expr = fmt.Sprintf("(%s * %s::numeric)", expr, qb.AddArg(factor))
	}

	if group != nil && group.DisplayGrossPrices {
		expr = fmt.Sprintf("(%s * (100 + t.tax) / 100)", expr)
	}

	return "ROUND(" + expr + ", 2)"
}

func groupKey(group *models.CustomerGroup) string {
	if group == nil {
		return ""
	}
	return group.Key
}
