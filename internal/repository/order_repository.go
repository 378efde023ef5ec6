package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"karma-light/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create persists the order and all its items in a single transaction.
	// On success the order and item IDs are filled in. If any insert fails
	// the whole transaction rolls back and no partial order exists.
	Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	ItemsByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderItem, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and its items atomically
func (r *orderRepository) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (full_name, phone, email, city, warehouse, notes, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err = tx.QueryRowContext(
		ctx,
		orderQuery,
		order.FullName,
		order.Phone,
		order.Email,
		order.City,
		order.Warehouse,
		order.Notes,
		order.PaymentMethod,
		order.CreatedAt,
	).Scan(&order.ID)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for _, item := range items {
		item.OrderID = order.ID
		err = tx.QueryRowContext(
			ctx,
			itemQuery,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
		).Scan(&item.ID)

		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, full_name, phone, email, city, warehouse, notes, payment_method, created_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.FullName,
		&order.Phone,
		&order.Email,
		&order.City,
		&order.Warehouse,
		&order.Notes,
		&order.PaymentMethod,
		&order.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// ItemsByOrderID retrieves the items belonging to an order
func (r *orderRepository) ItemsByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
