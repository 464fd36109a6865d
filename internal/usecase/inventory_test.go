package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
)

func TestReserve_RejectsNonPositiveQuantity(t *testing.T) {
	products := newMemProductStore()
	products.add(domain.Product{ID: "p1", Name: "widget", Price: 5, Quantity: 10, SKU: "W-1"})
	ledger := NewInventoryLedger(products)

	for _, qty := range []int{0, -1} {
		_, err := ledger.Reserve(context.Background(), "p1", qty)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "quantity", verr.Field)
	}
}

func TestReserve_UnknownProduct(t *testing.T) {
	ledger := NewInventoryLedger(newMemProductStore())
	_, err := ledger.Reserve(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestReserve_ReturnsUnitPrice(t *testing.T) {
	products := newMemProductStore()
	products.add(domain.Product{ID: "p1", Name: "widget", Price: 12.34, Quantity: 10, SKU: "W-1"})
	ledger := NewInventoryLedger(products)

	price, err := ledger.Reserve(context.Background(), "p1", 4)
	require.NoError(t, err)
	assert.InDelta(t, 12.34, price, 1e-9)

	p, _ := products.get("p1")
	assert.Equal(t, 6, p.Quantity)
}

func TestRestore_DeletedProductIsNoOp(t *testing.T) {
	ledger := NewInventoryLedger(newMemProductStore())
	assert.NoError(t, ledger.Restore(context.Background(), "gone", 3))
}

// Property: under any interleaving of reserves and restores, stock
// never goes negative, a reserve only succeeds when stock covers it,
// and the final quantity equals initial - reserved + restored.
func TestLedger_StockNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		initial := rapid.IntRange(0, 50).Draw(rt, "initial")
		products := newMemProductStore()
		products.add(domain.Product{ID: "p1", Name: "widget", Price: 1, Quantity: initial, SKU: "W-1"})
		ledger := NewInventoryLedger(products)

		reserved, restored := 0, 0
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			qty := rapid.IntRange(1, 10).Draw(rt, "qty")
			if rapid.Bool().Draw(rt, "reserve") {
				available := initial - reserved + restored
				_, err := ledger.Reserve(context.Background(), "p1", qty)
				if qty <= available {
					if err != nil {
						rt.Fatalf("reserve %d with %d available failed: %v", qty, available, err)
					}
					reserved += qty
				} else if err == nil {
					rt.Fatalf("reserve %d succeeded with only %d available", qty, available)
				}
			} else if restored+qty <= reserved {
				if err := ledger.Restore(context.Background(), "p1", qty); err != nil {
					rt.Fatalf("restore: %v", err)
				}
				restored += qty
			}

			p, _ := products.get("p1")
			if p.Quantity < 0 {
				rt.Fatalf("stock went negative: %d", p.Quantity)
			}
		}

		p, _ := products.get("p1")
		if want := initial - reserved + restored; p.Quantity != want {
			rt.Fatalf("final stock %d, want %d", p.Quantity, want)
		}
	})
}
