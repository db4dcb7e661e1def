package models

// CustomerGroup decides which price rules apply and how they are displayed.
type CustomerGroup struct {
	ID                  int     `json:"id"`
	Key                 string  `json:"key"`
	Name                string  `json:"name"`
	DisplayGrossPrices  bool    `json:"displayGrossPrices"`
	InsertedGrossPrices bool    `json:"insertedGrossPrices"`
	UseDiscount         bool    `json:"useDiscount"`
	PercentageDiscount  float64 `json:"percentageDiscount"`
	MinimumOrderValue   float64 `json:"minimumOrderValue"`
	SurchargeMinimum    float64 `json:"surchargeMinimumOrderValue"`
}

type Tax struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Tax  float64 `json:"tax"`
}

type Currency struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Currency string  `json:"currency"`
	Symbol   string  `json:"symbol"`
	Factor   float64 `json:"factor"`
}

// Unit carries packaging and purchase constraints of a variant.
type Unit struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Unit          string     `json:"unit"`
	PurchaseUnit  float64    `json:"purchaseUnit"`
	ReferenceUnit float64    `json:"referenceUnit"`
	PackUnit      string     `json:"packUnit"`
	MinPurchase   int        `json:"minPurchase"`
	MaxPurchase   int        `json:"maxPurchase"`
	PurchaseStep  int        `json:"purchaseStep"`
	Attributes    Attributes `json:"attributes,omitempty"`
}

// PriceRule is a stored, uncalculated price band.
// To is nil for the open-ended last band.
type PriceRule struct {
	ID            int            `json:"id"`
	VariantID     int            `json:"variantId"`
	From          int            `json:"from"`
	To            *int           `json:"to"`
	Price         float64        `json:"price"`
	PseudoPrice   float64        `json:"pseudoPrice"`
	CustomerGroup *CustomerGroup `json:"customerGroup"`
	Unit          *Unit          `json:"unit"`
	Attributes    Attributes     `json:"attributes,omitempty"`
}

// Price is a PriceRule calculated for a shop context.
type Price struct {
	From                     int            `json:"from"`
	To                       *int           `json:"to"`
	CalculatedPrice          float64        `json:"calculatedPrice"`
	CalculatedPseudoPrice    float64        `json:"calculatedPseudoPrice"`
	CalculatedReferencePrice float64        `json:"calculatedReferencePrice"`
	CustomerGroup            *CustomerGroup `json:"customerGroup"`
	Unit                     *Unit          `json:"unit"`
	Rule                     *PriceRule     `json:"rule"`
	Attributes               Attributes     `json:"attributes,omitempty"`
}

type PriceDiscount struct {
	ID              int     `json:"id"`
	CustomerGroupID int     `json:"customerGroupId"`
	Quantity        int     `json:"quantity"`
	Percent         float64 `json:"percent"`
}

// PriceGroup derives quantity bands from a base price by percentage discounts.
type PriceGroup struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Discounts []PriceDiscount `json:"discounts"`
}

// IntPtr is a helper for optional band bounds.
func IntPtr(v int) *int {
	return &v
}
