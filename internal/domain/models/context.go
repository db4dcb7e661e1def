package models

import "strconv"

type Shop struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Host       string `json:"host"`
	Path       string `json:"path"`
	Secure     bool   `json:"secure"`
	CategoryID int    `json:"categoryId"`
}

// ShopContext is the request-scoped state prices and searches are computed for.
type ShopContext struct {
	Shop                  *Shop               `json:"shop"`
	Currency              *Currency           `json:"currency"`
	CurrentCustomerGroup  *CustomerGroup      `json:"currentCustomerGroup"`
	FallbackCustomerGroup *CustomerGroup      `json:"fallbackCustomerGroup"`
	Taxes                 map[int]*Tax        `json:"taxes"`
	PriceGroups           map[int]*PriceGroup `json:"priceGroups"`
}

// TaxRule returns the tax for id or nil.
func (c *ShopContext) TaxRule(id int) *Tax {
	if c.Taxes == nil {
		return nil
	}
	return c.Taxes[id]
}

// CurrencyFactor defaults to 1 when no currency is set.
func (c *ShopContext) CurrencyFactor() float64 {
	if c.Currency == nil || c.Currency.Factor == 0 {
		return 1
	}
	return c.Currency.Factor
}

// CacheKey identifies the price-relevant parts of the context.
func (c *ShopContext) CacheKey() string {
	key := "shop"
	if c.Shop != nil {
		key += ":" + strconv.Itoa(c.Shop.ID)
	}
	if c.CurrentCustomerGroup != nil {
		key += ":" + c.CurrentCustomerGroup.Key
	}
	if c.FallbackCustomerGroup != nil {
		key += ":" + c.FallbackCustomerGroup.Key
	}
	if c.Currency != nil {
		key += ":" + c.Currency.Currency
	}
	return key
}
