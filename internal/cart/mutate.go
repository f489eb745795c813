package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/shopcart/internal/fault"
)

// Messages surfaced by the local guards, matching the storefront's wording.
const (
	msgLoginRequired = "Login to add an item to the Cart"
	msgDuplicateItem = "Item already in cart. Use the cart sidebar to update quantity or remove item."
)

// Upserter is the slice of the remote client the mutation protocol needs.
type Upserter interface {
	// UpsertCart sets the quantity for productID and returns the full
	// updated cart. Quantity zero removes the line.
	UpsertCart(ctx context.Context, token, productID string, quantity int) ([]Entry, error)
}

// SetOptions tunes a single SetQuantity call.
type SetOptions struct {
	// PreventDuplicate fails locally with a DuplicateItem fault when the
	// product already has a positive-quantity entry. Only the "add new
	// item" action sets this; the +/- controls on an existing line must
	// leave it false.
	PreventDuplicate bool
}

// Mutator drives cart quantity changes against the remote store.
//
// The wire operation is a set, not an increment: callers computing "+1"
// resolve the target quantity first, so a retried request converges to the
// same final state.
type Mutator struct {
	remote Upserter
	logger *zap.Logger
}

func NewMutator(remote Upserter, logger *zap.Logger) *Mutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mutator{remote: remote, logger: logger.Named("cart")}
}

// SetQuantity sets productID's quantity in the remote cart and returns the
// server's authoritative entry list, which replaces the caller's view
// entirely. On any failure the caller keeps its last-known-good state; the
// returned error always carries a fault classification.
//
// Local guards run before any network I/O: a missing token fails with
// Unauthenticated, and PreventDuplicate fails with DuplicateItem when the
// product is already in current.
func (m *Mutator) SetQuantity(ctx context.Context, token string, current []Entry, productID string, quantity int, opts SetOptions) ([]Entry, error) {
	if token == "" {
		return nil, fault.New(fault.Unauthenticated, msgLoginRequired)
	}
	if opts.PreventDuplicate && IsPresent(current, productID) {
		return nil, fault.New(fault.DuplicateItem, msgDuplicateItem)
	}

	entries, err := m.remote.UpsertCart(ctx, token, productID, quantity)
	if err != nil {
		err = fault.Ensure(err)
		m.logger.Warn("cart upsert failed",
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.String("kind", fault.KindOf(err).String()))
		return nil, err
	}

	m.logger.Debug("cart replaced by server response",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("entries", len(entries)))
	return entries, nil
}
