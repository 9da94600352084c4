package product

import (
	"sort"
	"strings"

	"github.com/angelmondragon/polly-storefront/pkg/enums"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "Todos"

// BrowseInput captures the public listing knobs.
type BrowseInput struct {
	Query    string
	Category string
	Sort     enums.ProductSort
}

// Browse applies search, category filter and sort to a newest-first listing.
// The input slice is left untouched.
func Browse(products []ProductDTO, in BrowseInput) []ProductDTO {
	query := strings.ToLower(strings.TrimSpace(in.Query))
	category := strings.TrimSpace(in.Category)

	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, in.Sort)
	return out
}

func matchesQuery(p ProductDTO, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), query)
}

func sortProducts(products []ProductDTO, order enums.ProductSort) {
	switch order {
	case enums.ProductSortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case enums.ProductSortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case enums.ProductSortNameAsc, enums.ProductSortNameDesc:
		col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
		desc := order == enums.ProductSortNameDesc
		sort.SliceStable(products, func(i, j int) bool {
			cmp := col.CompareString(products[i].Name, products[j].Name)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}

// Categories lists the filter options: AllCategories first, then each
// product category in first-seen order.
func Categories(products []ProductDTO) []string {
	out := []string{AllCategories}
	seen := map[string]struct{}{AllCategories: {}}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
