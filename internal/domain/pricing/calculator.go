package pricing

import (
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator turns stored net prices into display prices for a shop context.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculatePrice applies the customer group discount, the currency factor and,
// for gross customer groups, the tax. Results are rounded to cents.
func (c *Calculator) CalculatePrice(price float64, tax *models.Tax, ctx *models.ShopContext) float64 {
	if price == 0 {
		return 0
	}

	value := decimal.NewFromFloat(price)
	group := ctx.CurrentCustomerGroup

	if group != nil && group.UseDiscount && group.PercentageDiscount > 0 {
		discount := value.Div(hundred).Mul(decimal.NewFromFloat(group.PercentageDiscount))
		value = value.Sub(discount)
	}

	value = value.Mul(decimal.NewFromFloat(ctx.CurrencyFactor()))

	if group != nil && group.DisplayGrossPrices && tax != nil {
		value = value.Mul(hundred.Add(decimal.NewFromFloat(tax.Tax))).Div(hundred)
	}

	return value.Round(2).InexactFloat64()
}

// CalculateReferencePrice is the price per reference unit, 0 when the unit
// does not define one.
func (c *Calculator) CalculateReferencePrice(calculated float64, unit *models.Unit) float64 {
	if unit == nil || unit.PurchaseUnit <= 0 || unit.ReferenceUnit <= 0 {
		return 0
	}

	value := decimal.NewFromFloat(calculated).
		Div(decimal.NewFromFloat(unit.PurchaseUnit)).
		Mul(decimal.NewFromFloat(unit.ReferenceUnit))

	return value.Round(2).InexactFloat64()
}

// CalculatePriceStruct calculates a full band from its rule.
func (c *Calculator) CalculatePriceStruct(rule *models.PriceRule, tax *models.Tax, ctx *models.ShopContext) *models.Price {
	calculated := c.CalculatePrice(rule.Price, tax, ctx)

	return &models.Price{
		From:                     rule.From,
		To:                       rule.To,
		CalculatedPrice:          calculated,
		CalculatedPseudoPrice:    c.CalculatePrice(rule.PseudoPrice, tax, ctx),
		CalculatedReferencePrice: c.CalculateReferencePrice(calculated, rule.Unit),
		CustomerGroup:            rule.CustomerGroup,
		Unit:                     rule.Unit,
		Rule:                     rule,
		Attributes:               rule.Attributes,
	}
}

// ScalePrice multiplies every calculated amount of price by quantity.
func ScalePrice(price *models.Price, quantity int) *models.Price {
	scaled := *price
	if quantity <= 1 {
		return &scaled
	}

	q := decimal.NewFromInt(int64(quantity))
	scaled.CalculatedPrice = decimal.NewFromFloat(price.CalculatedPrice).Mul(q).Round(2).InexactFloat64()
	scaled.CalculatedPseudoPrice = decimal.NewFromFloat(price.CalculatedPseudoPrice).Mul(q).Round(2).InexactFloat64()
	scaled.CalculatedReferencePrice = decimal.NewFromFloat(price.CalculatedReferencePrice).Mul(q).Round(2).InexactFloat64()
	return &scaled
}

// discountedPrice returns price reduced by percent.
func discountedPrice(price, percent float64) float64 {
	value := decimal.NewFromFloat(price)
	discount := value.Div(hundred).Mul(decimal.NewFromFloat(percent))
	return value.Sub(discount).Round(4).InexactFloat64()
}
