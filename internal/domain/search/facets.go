package search

const (
	FacetCategory          = "category"
	FacetManufacturer      = "manufacturer"
	FacetPrice             = "price"
	FacetImmediateDelivery = "immediate_delivery"
	FacetShippingFree      = "shipping_free"
)

type CategoryFacet struct{}

func (CategoryFacet) Name() string { return FacetCategory }

type ManufacturerFacet struct{}

func (ManufacturerFacet) Name() string { return FacetManufacturer }

type PriceFacet struct{}

func (PriceFacet) Name() string { return FacetPrice }

type ImmediateDeliveryFacet struct{}

func (ImmediateDeliveryFacet) Name() string { return FacetImmediateDelivery }

type ShippingFreeFacet struct{}

func (ShippingFreeFacet) Name() string { return FacetShippingFree }
