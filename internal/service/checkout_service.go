package service

import (
	"context"
	"fmt"
	"time"

	"karma-light/internal/cart"
	"karma-light/internal/domain"
	"karma-light/internal/notify"
	"karma-light/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartReconciler resolves a cart against the live catalog.
type CartReconciler interface {
	Reconcile(ctx context.Context, c cart.Cart) ([]cart.Line, decimal.Decimal, error)
}

// Notifier sends the post-checkout emails. Its outcome is informational:
// a failed notification never fails a checkout.
type Notifier interface {
	Notify(ctx context.Context, order *domain.Order, lines []cart.Line, total decimal.Decimal) notify.Outcome
}

// CheckoutResult is the outcome of a checkout attempt. When Validation is
// not OK, nothing was persisted and Order is nil; the handler re-presents
// the form. When Order is set, the order is committed and the caller must
// clear the session cart.
type CheckoutResult struct {
	Order         *domain.Order
	Lines         []cart.Line
	Total         decimal.Decimal
	Validation    ValidationResult
	Notifications notify.Outcome
}

// CheckoutService defines the checkout workflow
type CheckoutService interface {
	Checkout(ctx context.Context, sessionCart cart.Cart, form CheckoutForm, loc domain.Locale) (*CheckoutResult, error)
}

type checkoutService struct {
	reconciler CartReconciler
	orders     repository.OrderRepository
	notifier   Notifier
	logger     *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	reconciler CartReconciler,
	orders repository.OrderRepository,
	notifier Notifier,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		reconciler: reconciler,
		orders:     orders,
		notifier:   notifier,
		logger:     logger,
	}
}

// Checkout runs the full workflow: reconcile the cart, validate, persist the
// order aggregate atomically, then fire best-effort notifications. An error
// return means persistence failed; validation refusals come back in the
// result with no error and no state change.
func (s *checkoutService) Checkout(ctx context.Context, sessionCart cart.Cart, form CheckoutForm, loc domain.Locale) (*CheckoutResult, error) {
	lines, total, err := s.reconciler.Reconcile(ctx, sessionCart)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile cart for checkout: %w", err)
	}

	result := &CheckoutResult{Lines: lines, Total: total}

	form = form.normalized()
	result.Validation = ValidateCheckout(form, loc, len(lines) == 0)
	if !result.Validation.OK() {
		return result, nil
	}

	order := &domain.Order{
		FullName:      form.FullName,
		Phone:         form.Phone,
		Email:         form.Email,
		City:          form.City,
		Warehouse:     form.Warehouse,
		Notes:         form.Notes,
		PaymentMethod: form.PaymentMethod,
		CreatedAt:     time.Now(),
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = "cod"
	}

	// Snapshot price and name per line; later catalog edits must never
	// change what this order records.
	items := make([]*domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID := line.Product.ID
		items = append(items, &domain.OrderItem{
			ProductID:   &productID,
			ProductName: line.Product.NameUK,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
		})
	}

	if err := s.orders.Create(ctx, order, items); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int("items", len(items)),
		zap.String("total", total.StringFixed(2)),
	)

	result.Order = order
	result.Notifications = s.notifier.Notify(ctx, order, lines, total)

	return result, nil
}
