package pricing

import (
	"errors"
	"sort"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
)

// ErrNoPrice means neither the current nor the fallback customer group has a price.
var ErrNoPrice = errors.New("no price for customer group")

// VariantRules are the stored price rules of one variant together with its unit.
type VariantRules struct {
	VariantID int
	Number    string
	Unit      *models.Unit
	Rules     []*models.PriceRule
}

// ProductRules is a hydrated list product with the price rules of all its variants.
type ProductRules struct {
	Product  *models.ListProduct
	Variants []VariantRules
}

// Service resolves graduations and cheapest prices for list products.
type Service struct {
	calculator *Calculator
}

func NewService(calculator *Calculator) *Service {
	if calculator == nil {
		calculator = NewCalculator()
	}
	return &Service{calculator: calculator}
}

// RulesForContext returns the rules of the current customer group, or of the
// fallback group when the current group has none, ordered by From.
func RulesForContext(rules []*models.PriceRule, ctx *models.ShopContext) []*models.PriceRule {
	var selected []*models.PriceRule
	if ctx.CurrentCustomerGroup != nil {
		selected = rulesForGroup(rules, ctx.CurrentCustomerGroup.Key)
	}
	if len(selected) == 0 && ctx.FallbackCustomerGroup != nil {
		selected = rulesForGroup(rules, ctx.FallbackCustomerGroup.Key)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].From < selected[j].From
	})
	return selected
}

func rulesForGroup(rules []*models.PriceRule, key string) []*models.PriceRule {
	var out []*models.PriceRule
	for _, rule := range rules {
		if rule.CustomerGroup != nil && rule.CustomerGroup.Key == key {
			out = append(out, rule)
		}
	}
	return out
}

// activePriceGroup returns the price group of the product when it is active and
// known to the context.
func activePriceGroup(product *models.ListProduct, ctx *models.ShopContext) *models.PriceGroup {
	if product.PriceGroup == nil || !product.IsPriceGroupActive {
		return nil
	}
	if ctx.PriceGroups != nil {
		if group, ok := ctx.PriceGroups[product.PriceGroup.ID]; ok {
			return group
		}
	}
	return nil
}

// groupDiscounts returns the discounts of priceGroup for the current customer
// group ordered by quantity.
func groupDiscounts(priceGroup *models.PriceGroup, ctx *models.ShopContext) []models.PriceDiscount {
	if priceGroup == nil || ctx.CurrentCustomerGroup == nil {
		return nil
	}

	var discounts []models.PriceDiscount
	for _, d := range priceGroup.Discounts {
		if d.CustomerGroupID == ctx.CurrentCustomerGroup.ID {
			discounts = append(discounts, d)
		}
	}
	sort.SliceStable(discounts, func(i, j int) bool {
		return discounts[i].Quantity < discounts[j].Quantity
	})
	return discounts
}

// priceGroupRules rebuilds the graduation from the first band using the
// quantity discounts of a price group.
func priceGroupRules(base *models.PriceRule, discounts []models.PriceDiscount) []*models.PriceRule {
	var rules []*models.PriceRule

	if discounts[0].Quantity > 1 {
		first := *base
		first.From = 1
		first.To = models.IntPtr(discounts[0].Quantity - 1)
		rules = append(rules, &first)
	}

	for i, discount := range discounts {
		rule := *base
		rule.From = discount.Quantity
		if rule.From < 1 {
			rule.From = 1
		}
		rule.To = nil
		if i+1 < len(discounts) {
			rule.To = models.IntPtr(discounts[i+1].Quantity - 1)
		}
		rule.Price = discountedPrice(base.Price, discount.Percent)
		rules = append(rules, &rule)
	}

	return rules
}

// discountForQuantity is the highest discount reachable with quantity items.
func discountForQuantity(discounts []models.PriceDiscount, quantity int) (models.PriceDiscount, bool) {
	var (
		found bool
		best  models.PriceDiscount
	)
	for _, d := range discounts {
		if d.Quantity <= quantity {
			best = d
			found = true
		}
	}
	return best, found
}

func taxFor(product *models.ListProduct, ctx *models.ShopContext) *models.Tax {
	if product.Tax == nil {
		return nil
	}
	if rule := ctx.TaxRule(product.Tax.ID); rule != nil {
		return rule
	}
	return product.Tax
}

func withUnit(rule *models.PriceRule, unit *models.Unit) *models.PriceRule {
	if rule.Unit != nil {
		return rule
	}
	copied := *rule
	copied.Unit = unit
	return &copied
}

// Graduation calculates the price bands of the product's own variant.
func (s *Service) Graduation(product *models.ListProduct, rules []*models.PriceRule, ctx *models.ShopContext) []*models.Price {
	selected := RulesForContext(rules, ctx)
	if len(selected) == 0 {
		return nil
	}

	if discounts := groupDiscounts(activePriceGroup(product, ctx), ctx); len(discounts) > 0 {
		selected = priceGroupRules(selected[0], discounts)
	}

	tax := taxFor(product, ctx)
	prices := make([]*models.Price, 0, len(selected))
	for _, rule := range selected {
		prices = append(prices, s.calculator.CalculatePriceStruct(withUnit(rule, product.Unit), tax, ctx))
	}
	return prices
}

type candidate struct {
	rule    *models.PriceRule
	price   *models.Price
	variant int
}

// Cheapest resolves the cheapest band over all variants. The unit price is the
// band itself; the second result is the same band scaled to the variant's
// minimum purchase. The bool reports whether variants have different prices.
func (s *Service) Cheapest(product *models.ListProduct, variants []VariantRules, ctx *models.ShopContext) (*models.PriceRule, *models.Price, *models.Price, bool, error) {
	var all []*models.PriceRule
	for _, v := range variants {
		for _, rule := range v.Rules {
			all = append(all, withUnit(rule, v.Unit))
		}
	}

	// The group is chosen over all variants so that every variant is priced for
	// the same customer group.
	selected := RulesForContext(all, ctx)
	if len(selected) == 0 {
		return nil, nil, nil, false, ErrNoPrice
	}

	tax := taxFor(product, ctx)
	discounts := groupDiscounts(activePriceGroup(product, ctx), ctx)

	var (
		best          *candidate
		variantLowest = map[int]float64{}
	)
	for _, rule := range selected {
		priced := rule
		if len(discounts) > 0 {
			minPurchase := 1
			if rule.Unit != nil && rule.Unit.MinPurchase > 1 {
				minPurchase = rule.Unit.MinPurchase
			}
			if d, ok := discountForQuantity(discounts, minPurchase); ok {
				copied := *rule
				copied.Price = discountedPrice(rule.Price, d.Percent)
				priced = &copied
			}
		}

		price := s.calculator.CalculatePriceStruct(priced, tax, ctx)
		c := &candidate{rule: priced, price: price, variant: rule.VariantID}

		if low, ok := variantLowest[rule.VariantID]; !ok || price.CalculatedPrice < low {
			variantLowest[rule.VariantID] = price.CalculatedPrice
		}

		if best == nil || isCheaper(c, best) {
			best = c
		}
	}

	different := false
	first := true
	var reference float64
	for _, low := range variantLowest {
		if first {
			reference = low
			first = false
			continue
		}
		if low != reference {
			different = true
			break
		}
	}

	minPurchase := 1
	if best.rule.Unit != nil && best.rule.Unit.MinPurchase > 1 {
		minPurchase = best.rule.Unit.MinPurchase
	}

	return best.rule, ScalePrice(best.price, minPurchase), best.price, different, nil
}

func isCheaper(a, b *candidate) bool {
	if a.price.CalculatedPrice != b.price.CalculatedPrice {
		return a.price.CalculatedPrice < b.price.CalculatedPrice
	}
	if a.rule.From != b.rule.From {
		return a.rule.From < b.rule.From
	}
	return a.variant < b.variant
}

// Apply fills the price fields of product. variants must contain the product's
// own variant.
func (s *Service) Apply(product *models.ListProduct, variants []VariantRules, ctx *models.ShopContext) error {
	var own []*models.PriceRule
	for _, v := range variants {
		if v.VariantID == product.VariantID {
			own = v.Rules
			break
		}
	}

	product.PriceRules = RulesForContext(own, ctx)
	product.Prices = s.Graduation(product, own, ctx)

	rule, cheapest, unitPrice, different, err := s.Cheapest(product, variants, ctx)
	if err != nil {
		return err
	}

	product.CheapestPriceRule = rule
	product.CheapestPrice = cheapest
	product.CheapestUnitPrice = unitPrice
	product.HasDifferentPrices = different

	if len(product.Prices) == 0 {
		product.Prices = []*models.Price{unitPrice}
	}

	return nil
}
