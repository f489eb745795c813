package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/shopcart/internal/fault"
)

func newProductsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the full product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := opts.client.ListProducts(cmd.Context())
			if err != nil {
				if fault.KindOf(err) == fault.NotFound {
					cmd.Print(renderProducts(nil))
					return nil
				}
				return userError(err)
			}
			cmd.Print(renderProducts(products))
			return nil
		},
	}
}

func newSearchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search the catalog by name or category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			products, err := opts.client.SearchProducts(cmd.Context(), text)
			if err != nil {
				// No matches is an empty state, not an error.
				if fault.KindOf(err) == fault.NotFound {
					cmd.Print(renderProducts(nil))
					return nil
				}
				return userError(err)
			}
			cmd.Print(renderProducts(products))
			return nil
		},
	}
}
