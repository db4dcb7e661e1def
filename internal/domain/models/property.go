package models

type PropertyOption struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Media      *Media     `json:"media,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type PropertyGroup struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Filterable bool              `json:"filterable"`
	Options    []*PropertyOption `json:"options"`
	Attributes Attributes        `json:"attributes,omitempty"`
}

// PropertySet holds the filterable properties assigned to a product.
type PropertySet struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	Comparable bool             `json:"comparable"`
	SortMode   int              `json:"sortMode"`
	Groups     []*PropertyGroup `json:"groups"`
	Attributes Attributes       `json:"attributes,omitempty"`
}
