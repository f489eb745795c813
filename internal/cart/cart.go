// Package cart implements the cart reconciliation engine: the merge of
// server-held sparse cart entries with the local catalog snapshot, the
// derived aggregates, and the mutation protocol against the remote store.
//
// The server is the single source of truth for quantities. The client never
// renders an optimistic quantity; it renders only what the server returned
// from the round trip that produced it.
package cart

import "github.com/example/shopcart/internal/catalog"

// Entry is the server-authoritative (productId, qty) pair. A server response
// never contains a zero-or-negative quantity; absence means zero.
type Entry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// LineItem is the client-only join of an Entry with its Product, used for
// display and totals. A LineItem always has Quantity > 0 and a resolved
// Product.
type LineItem struct {
	Product  catalog.Product
	Quantity int
}

// Merge joins cart entries with the catalog snapshot into displayable line
// items, preserving entry order. Entries whose product is missing from the
// snapshot are dropped from the result and returned as stale so the caller
// can log or surface them; they are never rendered with undefined fields.
//
// Merge performs no deduplication: keeping the entry list free of duplicate
// product IDs is the mutation protocol's job upstream.
func Merge(entries []Entry, products []catalog.Product) (items []LineItem, stale []Entry) {
	if len(entries) == 0 {
		return nil, nil
	}
	idx := catalog.Index(products)
	items = make([]LineItem, 0, len(entries))
	for _, e := range entries {
		p, ok := idx[e.ProductID]
		if !ok {
			stale = append(stale, e)
			continue
		}
		items = append(items, LineItem{Product: p, Quantity: e.Quantity})
	}
	return items, stale
}

// TotalValue returns the sum of cost×quantity over the line items.
func TotalValue(items []LineItem) int {
	total := 0
	for _, it := range items {
		total += it.Product.Cost * it.Quantity
	}
	return total
}

// TotalUnits returns the sum of quantities over the line items, not the
// number of distinct lines.
func TotalUnits(items []LineItem) int {
	units := 0
	for _, it := range items {
		units += it.Quantity
	}
	return units
}

// IsPresent reports whether entries holds productID with a positive
// quantity. A nil or empty entry list is simply "not present".
func IsPresent(entries []Entry, productID string) bool {
	for _, e := range entries {
		if e.ProductID == productID && e.Quantity > 0 {
			return true
		}
	}
	return false
}
