package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root created once per successful checkout.
// It is immutable after placement.
type Order struct {
	ID            int64     `json:"id" db:"id"`
	FullName      string    `json:"full_name" db:"full_name"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email" db:"email"`
	City          string    `json:"city" db:"city"`
	Warehouse     string    `json:"warehouse" db:"warehouse"`
	Notes         string    `json:"notes" db:"notes"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// OrderItem is a line owned by an Order. Price and ProductName are captured
// at order time and never recomputed from the live product.
type OrderItem struct {
	ID          int64           `json:"id" db:"id"`
	OrderID     int64           `json:"order_id" db:"order_id"`
	ProductID   *int64          `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// Subtotal returns price × quantity for the line.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
