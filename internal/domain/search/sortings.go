package search

const (
	SortingPopularity  = "popularity"
	SortingProductName = "product_name"
	SortingPrice       = "price"
	SortingReleaseDate = "release_date"
)

// PopularitySorting orders by sales. Products with equal sales are ordered by
// id in the same direction.
type PopularitySorting struct {
	Direction string `json:"direction"`
}

func (PopularitySorting) Name() string { return SortingPopularity }

type ProductNameSorting struct {
	Direction string `json:"direction"`
}

func (ProductNameSorting) Name() string { return SortingProductName }

// PriceSorting orders by the cheapest calculated price.
type PriceSorting struct {
	Direction string `json:"direction"`
}

func (PriceSorting) Name() string { return SortingPrice }

// ReleaseDateSorting orders by the date the product was created.
type ReleaseDateSorting struct {
	Direction string `json:"direction"`
}

func (ReleaseDateSorting) Name() string { return SortingReleaseDate }

// SortingByKey maps the listing sort parameter to a sorting.
func SortingByKey(key string) (Sorting, bool) {
	switch key {
	case "", "release":
		return ReleaseDateSorting{Direction: SortDesc}, true
	case "popularity":
		return PopularitySorting{Direction: SortDesc}, true
	case "name":
		return ProductNameSorting{Direction: SortAsc}, true
	case "name_desc":
		return ProductNameSorting{Direction: SortDesc}, true
	case "price":
		return PriceSorting{Direction: SortAsc}, true
	case "price_desc":
		return PriceSorting{Direction: SortDesc}, true
	}
	return nil, false
}
