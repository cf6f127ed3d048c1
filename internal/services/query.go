package services

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"novastock/internal/domain"
)

// ExactMatch returns the first product, in catalog order, whose barcode equals
// barcode byte for byte. The catalog lists products oldest first, so on a
// duplicate barcode the oldest product wins.
func ExactMatch(barcode string, all []domain.Product) (domain.Product, bool) {
	for _, p := range all {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Search filters the catalog for the list view and orders the result by name.
// An empty query returns everything. Otherwise a product matches when its name
// contains the query ignoring case, or its barcode contains it literally.
// The input slice is never reordered.
func Search(query string, all []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(all))
	if query == "" {
		out = append(out, all...)
	} else {
		fold := cases.Fold()
		q := fold.String(query)
		for _, p := range all {
			if strings.Contains(fold.String(p.Name), q) || strings.Contains(p.Barcode, query) {
				out = append(out, p)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
