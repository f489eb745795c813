package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/example/shopcart/internal/cart"
	"github.com/example/shopcart/internal/catalog"
)

// renderProducts formats a catalog listing as a text table.
func renderProducts(products []catalog.Product) string {
	if len(products) == 0 {
		return "No products found.\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOST\tRATING")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%d\t%s\n", p.ID, p.Name, p.Category, p.Cost, p.Stars())
	}
	_ = w.Flush()
	return b.String()
}

// renderCart formats merged line items plus the derived aggregates.
func renderCart(items []cart.LineItem) string {
	if len(items) == 0 {
		return "Cart is empty. Add more items to the cart to checkout.\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tUNIT\tLINE")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%d\t$%d\n",
			it.Product.ID, it.Product.Name, it.Quantity, it.Product.Cost, it.Product.Cost*it.Quantity)
	}
	_ = w.Flush()
	fmt.Fprintf(&b, "\nOrder total: $%d (%d items)\n", cart.TotalValue(items), cart.TotalUnits(items))
	return b.String()
}
