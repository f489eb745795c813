package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/shopcart/internal/cart"
	"github.com/example/shopcart/internal/catalog"
	"github.com/example/shopcart/internal/fault"
)

// userError strips an error down to its displayable message so transport
// detail never reaches the terminal.
func userError(err error) error {
	return errors.New(fault.MessageOf(fault.Ensure(err)))
}

func newCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the server-held cart",
	}
	cmd.AddCommand(newCartShowCommand(opts))
	cmd.AddCommand(newCartAddCommand(opts))
	cmd.AddCommand(newCartSetCommand(opts))
	return cmd
}

// fetchState pulls the catalog and the cart concurrently; both are needed
// before anything can be merged.
func fetchState(ctx context.Context, opts *RootOptions, token string) ([]catalog.Product, []cart.Entry, error) {
	var (
		products []catalog.Product
		entries  []cart.Entry
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = opts.client.ListProducts(ctx)
		if fault.KindOf(err) == fault.NotFound {
			products, err = nil, nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = opts.client.GetCart(ctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, entries, nil
}

func showMerged(cmd *cobra.Command, opts *RootOptions, entries []cart.Entry, products []catalog.Product) {
	items, stale := cart.Merge(entries, products)
	for _, e := range stale {
		opts.logger.Warn("cart entry without catalog product dropped from display",
			zap.String("product_id", e.ProductID),
			zap.Int("quantity", e.Quantity))
	}
	cmd.Print(renderCart(items))
}

func newCartShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display cart line items and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := opts.currentSession()
			if !s.Authenticated() {
				return errors.New("Login to view the Cart")
			}
			products, entries, err := fetchState(cmd.Context(), opts, s.Token)
			if err != nil {
				return userError(err)
			}
			showMerged(cmd, opts, entries, products)
			return nil
		},
	}
}

func newCartAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <productID>",
		Short: "Add a product to the cart (quantity 1)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setQuantity(cmd, opts, args[0], 1, cart.SetOptions{PreventDuplicate: true})
		},
	}
}

func newCartSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <productID> <quantity>",
		Short: "Set a product's quantity (0 removes the line)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil || qty < 0 {
				return errors.New("quantity must be a non-negative integer")
			}
			return setQuantity(cmd, opts, args[0], qty, cart.SetOptions{})
		},
	}
}

func setQuantity(cmd *cobra.Command, opts *RootOptions, productID string, qty int, setOpts cart.SetOptions) error {
	s := opts.currentSession()
	mutator := cart.NewMutator(opts.client, opts.logger)
	if !s.Authenticated() {
		// Let the local guard refuse; nothing touches the network.
		_, err := mutator.SetQuantity(cmd.Context(), "", nil, productID, qty, setOpts)
		return userError(err)
	}

	products, entries, err := fetchState(cmd.Context(), opts, s.Token)
	if err != nil {
		return userError(err)
	}

	updated, err := mutator.SetQuantity(cmd.Context(), s.Token, entries, productID, qty, setOpts)
	if err != nil {
		return userError(err)
	}

	// Render exactly what the server returned.
	showMerged(cmd, opts, updated, products)
	return nil
}
