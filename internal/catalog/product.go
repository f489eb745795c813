// Package catalog holds the client's read-only snapshot of the remote
// product catalog. The snapshot is refreshed wholesale on every listing or
// search; the client never mutates catalog data.
package catalog

import "strings"

// Product is a single purchasable item as served by the catalog endpoint.
// Field tags follow the backend's wire format, which exposes Mongo-style
// "_id" identifiers.
type Product struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Cost     int    `json:"cost"`
	Rating   int    `json:"rating"`
	ImageURL string `json:"image"`
}

// Stars renders the rating as filled and empty stars, clamping values
// outside 0–5.
func (p Product) Stars() string {
	r := p.Rating
	if r < 0 {
		r = 0
	}
	if r > 5 {
		r = 5
	}
	return strings.Repeat("★", r) + strings.Repeat("☆", 5-r)
}

// Index builds a productID lookup over the snapshot. Useful when joining
// many cart entries against a large catalog.
func Index(products []Product) map[string]Product {
	idx := make(map[string]Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
