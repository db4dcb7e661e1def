package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// PriceBound is the upper quantity of a price band. It decodes from a number,
// a numeric string, null or "-"; the last two mean open-ended.
type PriceBound struct {
	Value *int
}

func (b *PriceBound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		b.Value = nil
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		b.Value = &n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("price bound must be a number, null or \"-\": %w", err)
	}
	if s == "" || s == "-" || s == "beliebig" {
		b.Value = nil
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("price bound %q is not a number", s)
	}
	b.Value = &n
	return nil
}

func (b PriceBound) MarshalJSON() ([]byte, error) {
	if b.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(*b.Value)), nil
}

type ArticlePrice struct {
	CustomerGroupKey string     `json:"customerGroupKey" validate:"required"`
	From             int        `json:"from" validate:"min=1"`
	To               PriceBound `json:"to"`
	Price            float64    `json:"price" validate:"gte=0"`
	PseudoPrice      float64    `json:"pseudoPrice" validate:"gte=0"`
	Percent          float64    `json:"percent,omitempty"`
}

const (
	DetailKindMain    = 1
	DetailKindVariant = 2
)

// ArticleDetail is one orderable variant of an article.
type ArticleDetail struct {
	ID             int                    `json:"id,omitempty"`
	Number         string                 `json:"number" validate:"required,max=40"`
	Kind           int                    `json:"kind"`
	Active         bool                   `json:"active"`
	InStock        int                    `json:"inStock"`
	UnitID         *int                   `json:"unitId,omitempty"`
	MinPurchase    int                    `json:"minPurchase" validate:"gte=0"`
	MaxPurchase    int                    `json:"maxPurchase" validate:"gte=0"`
	PurchaseSteps  int                    `json:"purchaseSteps" validate:"gte=0"`
	PurchaseUnit   float64                `json:"purchaseUnit"`
	ReferenceUnit  float64                `json:"referenceUnit"`
	PackUnit       string                 `json:"packUnit"`
	AdditionalText string                 `json:"additionalText"`
	Ean            string                 `json:"ean"`
	SupplierNumber string                 `json:"supplierNumber"`
	ShippingTime   string                 `json:"shippingTime"`
	ShippingFree   bool                   `json:"shippingFree"`
	Weight         float64                `json:"weight"`
	Width          float64                `json:"width"`
	Height         float64                `json:"height"`
	Len            float64                `json:"len"`
	ReleaseDate    *time.Time             `json:"releaseDate,omitempty"`
	Sales          int                    `json:"sales"`
	Attribute      map[string]interface{} `json:"attribute,omitempty"`
	Prices         []ArticlePrice         `json:"prices" validate:"dive"`
}

type IDRef struct {
	ID int `json:"id" validate:"required"`
}

type RelatedRef struct {
	ID    int  `json:"id" validate:"required"`
	Cross bool `json:"cross,omitempty"`
}

type ArticleLink struct {
	Name   string `json:"name" validate:"required"`
	Link   string `json:"link" validate:"required"`
	Target string `json:"target,omitempty"`
}

type PropertyValueInput struct {
	Value  string `json:"value" validate:"required"`
	Option struct {
		Name string `json:"name" validate:"required"`
	} `json:"option"`
}

type ArticleImage struct {
	MediaID  int    `json:"mediaId,omitempty"`
	Link     string `json:"link,omitempty"`
	Main     int    `json:"main,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Article is the admin write model persisted by the REST API.
type Article struct {
	ID               int                  `json:"id,omitempty"`
	Name             string               `json:"name" validate:"required,max=255"`
	Description      string               `json:"description"`
	DescriptionLong  string               `json:"descriptionLong"`
	Active           bool                 `json:"active"`
	PseudoSales      int                  `json:"pseudoSales"`
	Highlight        bool                 `json:"highlight"`
	Keywords         string               `json:"keywords"`
	MetaTitle        string               `json:"metaTitle"`
	Template         string               `json:"template"`
	Notification     bool                 `json:"notification"`
	LastStock        bool                 `json:"lastStock"`
	TaxID            int                  `json:"taxId" validate:"required"`
	SupplierID       int                  `json:"supplierId" validate:"required"`
	FilterGroupID    *int                 `json:"filterGroupId,omitempty"`
	PriceGroupID     *int                 `json:"priceGroupId,omitempty"`
	PriceGroupActive bool                 `json:"priceGroupActive"`
	MainDetail       *ArticleDetail       `json:"mainDetail" validate:"required"`
	Variants         []*ArticleDetail     `json:"variants,omitempty" validate:"dive"`
	Categories       []IDRef              `json:"categories" validate:"dive"`
	Similar          []IDRef              `json:"similar" validate:"dive"`
	Related          []RelatedRef         `json:"related" validate:"dive"`
	Links            []ArticleLink        `json:"links" validate:"dive"`
	PropertyValues   []PropertyValueInput `json:"propertyValues,omitempty" validate:"dive"`
	Images           []ArticleImage       `json:"images,omitempty"`
	CreatedAt        time.Time            `json:"added"`
	UpdatedAt        time.Time            `json:"changed"`
}

// Details returns the main detail followed by the other variants.
func (a *Article) Details() []*ArticleDetail {
	details := make([]*ArticleDetail, 0, len(a.Variants)+1)
	if a.MainDetail != nil {
		details = append(details, a.MainDetail)
	}
	for _, v := range a.Variants {
		if v != nil && (a.MainDetail == nil || v.Number != a.MainDetail.Number) {
			details = append(details, v)
		}
	}
	return details
}

const (
	ChangeTypeCreate = "create"
	ChangeTypeUpdate = "update"
	ChangeTypeDelete = "delete"
)

// ArticleHistoryRecord is one audited admin change of an article.
type ArticleHistoryRecord struct {
	ID         string    `json:"id"`
	ArticleID  int       `json:"articleId"`
	ChangeType string    `json:"changeType"`
	Before     *Article  `json:"before,omitempty"`
	After      *Article  `json:"after,omitempty"`
	ChangedBy  string    `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
}
