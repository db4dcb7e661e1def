package search

import "github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"

const (
	FacetResultTree      = "tree"
	FacetResultValueList = "value_list"
	FacetResultRange     = "range"
	FacetResultBoolean   = "boolean"
)

// FacetResult is the aggregation returned for a Facet.
type FacetResult interface {
	GetFacetName() string
	GetType() string
	IsActive() bool
}

type TreeItem struct {
	ID     int         `json:"id"`
	Label  string      `json:"label"`
	Active bool        `json:"active"`
	Values []*TreeItem `json:"values"`
}

type TreeFacetResult struct {
	Type      string      `json:"type"`
	FacetName string      `json:"facetName"`
	FieldName string      `json:"fieldName"`
	Active    bool        `json:"active"`
	Label     string      `json:"label"`
	Values    []*TreeItem `json:"values"`
}

func NewTreeFacetResult(facetName, fieldName, label string, active bool, values []*TreeItem) *TreeFacetResult {
	return &TreeFacetResult{Type: FacetResultTree, FacetName: facetName, FieldName: fieldName, Active: active, Label: label, Values: values}
}

func (r *TreeFacetResult) GetFacetName() string { return r.FacetName }
func (r *TreeFacetResult) GetType() string      { return r.Type }
func (r *TreeFacetResult) IsActive() bool       { return r.Active }

type ValueListItem struct {
	ID     int    `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type ValueListFacetResult struct {
	Type      string          `json:"type"`
	FacetName string          `json:"facetName"`
	FieldName string          `json:"fieldName"`
	Active    bool            `json:"active"`
	Label     string          `json:"label"`
	Values    []ValueListItem `json:"values"`
}

func NewValueListFacetResult(facetName, fieldName, label string, active bool, values []ValueListItem) *ValueListFacetResult {
	return &ValueListFacetResult{Type: FacetResultValueList, FacetName: facetName, FieldName: fieldName, Active: active, Label: label, Values: values}
}

func (r *ValueListFacetResult) GetFacetName() string { return r.FacetName }
func (r *ValueListFacetResult) GetType() string      { return r.Type }
func (r *ValueListFacetResult) IsActive() bool       { return r.Active }

type RangeFacetResult struct {
	Type      string  `json:"type"`
	FacetName string  `json:"facetName"`
	Active    bool    `json:"active"`
	Label     string  `json:"label"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	ActiveMin float64 `json:"activeMin"`
	ActiveMax float64 `json:"activeMax"`
	MinField  string  `json:"minFieldName"`
	MaxField  string  `json:"maxFieldName"`
}

func NewRangeFacetResult(facetName, label string, active bool, min, max, activeMin, activeMax float64, minField, maxField string) *RangeFacetResult {
	return &RangeFacetResult{
		Type:      FacetResultRange,
		FacetName: facetName,
		Active:    active,
		Label:     label,
		Min:       min,
		Max:       max,
		ActiveMin: activeMin,
		ActiveMax: activeMax,
		MinField:  minField,
		MaxField:  maxField,
	}
}

func (r *RangeFacetResult) GetFacetName() string { return r.FacetName }
func (r *RangeFacetResult) GetType() string      { return r.Type }
func (r *RangeFacetResult) IsActive() bool       { return r.Active }

type BooleanFacetResult struct {
	Type      string `json:"type"`
	FacetName string `json:"facetName"`
	FieldName string `json:"fieldName"`
	Active    bool   `json:"active"`
	Label     string `json:"label"`
}

func NewBooleanFacetResult(facetName, fieldName, label string, active bool) *BooleanFacetResult {
	return &BooleanFacetResult{Type: FacetResultBoolean, FacetName: facetName, FieldName: fieldName, Active: active, Label: label}
}

func (r *BooleanFacetResult) GetFacetName() string { return r.FacetName }
func (r *BooleanFacetResult) GetType() string      { return r.Type }
func (r *BooleanFacetResult) IsActive() bool       { return r.Active }

// ProductNumberSearchResult lists the matching variants in search order.
type ProductNumberSearchResult struct {
	Products   []*models.BaseProduct `json:"products"`
	TotalCount int                   `json:"totalCount"`
	Facets     []FacetResult         `json:"facets"`
}

// Numbers returns the order numbers of the result in order.
func (r *ProductNumberSearchResult) Numbers() []string {
	numbers := make([]string, 0, len(r.Products))
	for _, p := range r.Products {
		numbers = append(numbers, p.Number)
	}
	return numbers
}

// Get returns the product with the given order number.
func (r *ProductNumberSearchResult) Get(number string) (*models.BaseProduct, bool) {
	for _, p := range r.Products {
		if p.Number == number {
			return p, true
		}
	}
	return nil, false
}

// ProductSearchResult is a ProductNumberSearchResult with hydrated products.
type ProductSearchResult struct {
	Products   []*models.ListProduct `json:"products"`
	TotalCount int                   `json:"totalCount"`
	Facets     []FacetResult         `json:"facets"`
}

// Facet returns the result for facetName.
func (r *ProductSearchResult) Facet(facetName string) (FacetResult, bool) {
	for _, f := range r.Facets {
		if f.GetFacetName() == facetName {
			return f, true
		}
	}
	return nil, false
}
