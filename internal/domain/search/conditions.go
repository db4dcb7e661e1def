package search

const (
	ConditionCategory          = "category"
	ConditionManufacturer      = "manufacturer"
	ConditionPrice             = "price"
	ConditionImmediateDelivery = "immediate_delivery"
	ConditionShippingFree      = "shipping_free"
	ConditionCustomerGroup     = "customer_group"
	ConditionHasPseudoPrice    = "has_pseudo_price"
	ConditionSearchTerm        = "search"
	ConditionIsAvailable       = "is_available"
)

// CategoryCondition matches products assigned to one of the categories or to
// one of their descendants.
type CategoryCondition struct {
	CategoryIDs []int `json:"categoryIds"`
}

func (CategoryCondition) Name() string { return ConditionCategory }

// ManufacturerCondition matches products of any of the manufacturers.
type ManufacturerCondition struct {
	ManufacturerIDs []int `json:"manufacturerIds"`
}

func (ManufacturerCondition) Name() string { return ConditionManufacturer }

// PriceCondition filters on the cheapest calculated price. A zero Max means no
// upper bound.
type PriceCondition struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (PriceCondition) Name() string { return ConditionPrice }

// ImmediateDeliveryCondition matches variants with enough stock for the
// minimum purchase.
type ImmediateDeliveryCondition struct{}

func (ImmediateDeliveryCondition) Name() string { return ConditionImmediateDelivery }

type ShippingFreeCondition struct{}

func (ShippingFreeCondition) Name() string { return ConditionShippingFree }

// CustomerGroupCondition excludes products blocked for the customer groups.
type CustomerGroupCondition struct {
	CustomerGroupIDs []int `json:"customerGroupIds"`
}

func (CustomerGroupCondition) Name() string { return ConditionCustomerGroup }

type HasPseudoPriceCondition struct{}

func (HasPseudoPriceCondition) Name() string { return ConditionHasPseudoPrice }

type SearchTermCondition struct {
	Term string `json:"term"`
}

func (SearchTermCondition) Name() string { return ConditionSearchTerm }

// IsAvailableCondition hides closeout products without stock.
type IsAvailableCondition struct{}

func (IsAvailableCondition) Name() string { return ConditionIsAvailable }

const (
	OperatorEq         = "="
	OperatorNeq        = "!="
	OperatorLt         = "<"
	OperatorLte        = "<="
	OperatorGt         = ">"
	OperatorGte        = ">="
	OperatorIn         = "IN"
	OperatorContains   = "CONTAINS"
	OperatorStartsWith = "STARTS_WITH"
	OperatorEndsWith   = "ENDS_WITH"
)

// ProductAttributeCondition compares a free-form variant attribute.
type ProductAttributeCondition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

func (c ProductAttributeCondition) Name() string { return "product_attribute_" + c.Field }
