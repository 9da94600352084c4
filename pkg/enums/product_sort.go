package enums

import "fmt"

// ProductSort selects the ordering of the public product listing.
type ProductSort string

const (
	ProductSortDefault   ProductSort = "default"
	ProductSortPriceAsc  ProductSort = "price-asc"
	ProductSortPriceDesc ProductSort = "price-desc"
	ProductSortNameAsc   ProductSort = "name-asc"
	ProductSortNameDesc  ProductSort = "name-desc"
)

var validProductSorts = []ProductSort{
	ProductSortDefault,
	ProductSortPriceAsc,
	ProductSortPriceDesc,
	ProductSortNameAsc,
	ProductSortNameDesc,
}

// String implements fmt.Stringer.
func (s ProductSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSort.
func (s ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort. Empty input is the default order.
func ParseProductSort(value string) (ProductSort, error) {
	if value == "" {
		return ProductSortDefault, nil
	}
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}
