package models

const (
	ConfiguratorTypeStandard  = 0
	ConfiguratorTypeSelection = 1
	ConfiguratorTypePicture   = 2
)

type ConfiguratorOption struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Selected   bool       `json:"selected"`
	Active     bool       `json:"active"`
	Media      *Media     `json:"media,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type ConfiguratorGroup struct {
	ID          int                   `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Selected    bool                  `json:"selected"`
	Options     []*ConfiguratorOption `json:"options"`
	Attributes  Attributes            `json:"attributes,omitempty"`
}

// ConfiguratorSet is the variant selection tree of a product.
type ConfiguratorSet struct {
	ID                 int                  `json:"id"`
	Name               string               `json:"name"`
	Type               int                  `json:"type"`
	SelectionSpecified bool                 `json:"selectionSpecified"`
	Groups             []*ConfiguratorGroup `json:"groups"`
}
