package models

import "time"

// BaseProduct identifies one variant of a product.
type BaseProduct struct {
	ID        int    `json:"id"`
	VariantID int    `json:"variantId"`
	Number    string `json:"number"`
}

// Marketing flags computed for the storefront.
type Marketing struct {
	IsNew       bool `json:"isNew"`
	ComingSoon  bool `json:"comingSoon"`
	IsTopSeller bool `json:"isTopSeller"`
}

// ListProduct is the read model shown in listings. Prices holds the graduation
// for the current (or fallback) customer group, ordered by From.
type ListProduct struct {
	BaseProduct

	Name               string     `json:"name"`
	ShortDescription   string     `json:"shortDescription"`
	LongDescription    string     `json:"longDescription"`
	AdditionalText     string     `json:"additional"`
	Keywords           string     `json:"keywords"`
	MetaTitle          string     `json:"metaTitle"`
	Template           string     `json:"template"`
	Ean                string     `json:"ean"`
	ManufacturerNumber string     `json:"manufacturerNumber"`
	ShippingTime       string     `json:"shippingTime"`
	Highlight          bool       `json:"highlight"`
	HasEsd             bool       `json:"hasEsd"`
	CloseOuts          bool       `json:"closeouts"`
	ShippingFree       bool       `json:"shippingFree"`
	AllowsNotification bool       `json:"allowsNotification"`
	HasConfigurator    bool       `json:"hasConfigurator"`
	HasProperties      bool       `json:"hasProperties"`
	IsAvailable        bool       `json:"isAvailable"`
	Stock              int        `json:"stock"`
	Sales              int        `json:"sales"`
	Weight             float64    `json:"weight"`
	Width              float64    `json:"width"`
	Height             float64    `json:"height"`
	Length             float64    `json:"length"`
	CreatedAt          *time.Time `json:"createdAt"`
	ReleaseDate        *time.Time `json:"releaseDate"`
	PropertySetID      int        `json:"propertySetId,omitempty"`

	Tax          *Tax          `json:"tax"`
	Unit         *Unit         `json:"unit"`
	Manufacturer *Manufacturer `json:"manufacturer"`
	Cover        *Media        `json:"cover"`
	VoteAverage  *VoteAverage  `json:"voteAverage"`
	Marketing    *Marketing    `json:"marketing,omitempty"`

	PriceGroup         *PriceGroup  `json:"priceGroup"`
	IsPriceGroupActive bool         `json:"isPriceGroupActive"`
	PriceRules         []*PriceRule `json:"priceRules"`
	Prices             []*Price     `json:"prices"`
	CheapestPriceRule  *PriceRule   `json:"cheapestPriceRule"`
	CheapestPrice      *Price       `json:"cheapestPrice"`
	CheapestUnitPrice  *Price       `json:"cheapestUnitPrice"`
	HasDifferentPrices bool         `json:"hasDifferentPrices"`

	CategoryIDs           []int      `json:"categoryIds,omitempty"`
	BlockedCustomerGroups []int      `json:"blockedCustomerGroups,omitempty"`
	Attributes            Attributes `json:"attributes,omitempty"`
}

// VariantPrice is the first graduation band of the variant.
func (p *ListProduct) VariantPrice() *Price {
	if len(p.Prices) > 0 {
		return p.Prices[0]
	}
	return p.CheapestUnitPrice
}

type Download struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	File        string     `json:"file"`
	Size        int64      `json:"size"`
	Attributes  Attributes `json:"attributes,omitempty"`
}

type Link struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Target      string     `json:"target"`
	Attributes  Attributes `json:"attributes,omitempty"`
}

type ProductStream struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        int    `json:"type"`
}

// Product is the detail page read model.
type Product struct {
	ListProduct

	Media                 []*Media         `json:"media"`
	Votes                 []*Vote          `json:"votes"`
	Downloads             []*Download      `json:"downloads"`
	Links                 []*Link          `json:"links"`
	RelatedProducts       []*ListProduct   `json:"relatedProducts"`
	SimilarProducts       []*ListProduct   `json:"similarProducts"`
	RelatedProductStreams []*ProductStream `json:"relatedProductStreams"`
	PropertySet           *PropertySet     `json:"propertySet"`
	ConfiguratorSet       *ConfiguratorSet `json:"configuratorSet"`
	Categories            []*Category      `json:"categories"`
}

// ProductAssociations is what a detail page loads on top of the list product.
// Related and similar products are referenced by variant number.
type ProductAssociations struct {
	Media                 []*Media
	Votes                 []*Vote
	Downloads             []*Download
	Links                 []*Link
	RelatedNumbers        []string
	SimilarNumbers        []string
	RelatedProductStreams []*ProductStream
	PropertySet           *PropertySet
	ConfiguratorSet       *ConfiguratorSet
	CategoryIDs           []int
}
