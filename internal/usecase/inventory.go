package usecase

import (
	"context"
	"fmt"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
)

// InventoryLedger owns per-product available quantity. Reservation is
// a single conditional decrement at the store, so concurrent reserves
// against one product serialize on the quantity row and cannot
// oversell.
type InventoryLedger struct {
	products ProductStore
}

func NewInventoryLedger(products ProductStore) *InventoryLedger {
	return &InventoryLedger{products: products}
}

// Reserve holds quantity units of the product for an order and returns
// the pre-reservation unit price. Fails with domain.ErrOutOfStock when
// available stock is below the request.
func (l *InventoryLedger) Reserve(ctx context.Context, productID string, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, &domain.ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}

	p, err := l.products.FindByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}

	ok, err := l.products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrOutOfStock, p.Name)
	}
	return p.Price, nil
}

// Restore puts quantity units back. It is unconditional; calling it
// twice for one cancellation is prevented by the state machine, not
// here. Restoring a deleted product is a no-op.
func (l *InventoryLedger) Restore(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	return l.products.IncrementStock(ctx, productID, quantity)
}
