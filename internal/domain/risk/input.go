package risk

import "time"

// RuleSet is one row of risk rules of a payment method. Rule2 is optional.
type RuleSet struct {
	ID        int    `json:"id"`
	PaymentID int    `json:"paymentId"`
	Rule1     string `json:"rule1" validate:"required"`
	Value1    string `json:"value1"`
	Rule2     string `json:"rule2"`
	Value2    string `json:"value2"`
}

type Address struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Street     string `json:"street"`
	ZipCode    string `json:"zipCode"`
	City       string `json:"city"`
	CountryISO string `json:"countryIso"`
	Zone       string `json:"zone"`
}

// BasketItem is a basket position. CategoryIDs include the ancestors of the
// assigned categories.
type BasketItem struct {
	ArticleID   int                    `json:"articleId"`
	Number      string                 `json:"number"`
	Quantity    int                    `json:"quantity"`
	CategoryIDs []int                  `json:"categoryIds"`
	Attributes  map[string]interface{} `json:"attributes"`
}

// Order is a past order of the customer.
type Order struct {
	ID        int       `json:"id"`
	Status    int       `json:"status"`
	Cleared   int       `json:"cleared"`
	OrderTime time.Time `json:"orderTime"`
}

const (
	OrderStatusCancelled = -1
	OrderStatusCanceled  = 4

	ClearedDunningLevelOne   = 13
	ClearedDunningLevelTwo   = 14
	ClearedDunningLevelThree = 15
	ClearedCollection        = 16
)

// Input is everything the rules look at during checkout.
type Input struct {
	CustomerID       int          `json:"customerId"`
	CustomerNumber   string       `json:"customerNumber"`
	CustomerGroupKey string       `json:"customerGroup"`
	FirstLogin       *time.Time   `json:"firstLogin"`
	Billing          Address      `json:"billing"`
	Shipping         Address      `json:"shipping"`
	Amount           float64      `json:"amount"`
	CurrencyFactor   float64      `json:"currencyFactor"`
	CurrencyISO      string       `json:"currency"`
	ShopID           int          `json:"shopId"`
	Basket           []BasketItem `json:"basket"`
	Orders           []Order      `json:"-"`
}
