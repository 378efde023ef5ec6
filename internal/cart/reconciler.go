package cart

import (
	"context"
	"errors"
	"fmt"

	"karma-light/internal/domain"
	"karma-light/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductFinder is the slice of the product repository the reconciler needs.
type ProductFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Line is a cart entry resolved against the live catalog. Subtotal is
// price × quantity at reconciliation time; lines are derived on every view
// and never persisted outside an order.
type Line struct {
	Product  *domain.Product
	Quantity int
	Subtotal decimal.Decimal
}

// Reconciler resolves carts against current product records.
type Reconciler struct {
	products ProductFinder
}

// NewReconciler creates a Reconciler over the given product source.
func NewReconciler(products ProductFinder) *Reconciler {
	return &Reconciler{products: products}
}

// Reconcile resolves each cart entry to a priced line and computes the grand
// total. Entries referencing products that no longer exist are dropped
// silently: cart entries are weak references, never authoritative. Line order
// follows cart order. Only infrastructure errors propagate.
func (r *Reconciler) Reconcile(ctx context.Context, c Cart) ([]Line, decimal.Decimal, error) {
	lines := make([]Line, 0, len(c))
	total := decimal.Zero

	for _, e := range c {
		p, err := r.products.FindByID(ctx, e.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			return nil, decimal.Zero, fmt.Errorf("failed to reconcile cart entry %d: %w", e.ProductID, err)
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
		lines = append(lines, Line{Product: p, Quantity: e.Quantity, Subtotal: subtotal})
		total = total.Add(subtotal)
	}

	return lines, total, nil
}
