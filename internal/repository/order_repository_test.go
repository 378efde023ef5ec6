package repository

import (
	"context"
	"testing"
	"time"

	"karma-light/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrderAggregate(productID int64) (*domain.Order, []*domain.OrderItem) {
	order := &domain.Order{
		FullName:      "Олена Петренко",
		Phone:         "+380501234567",
		Email:         "olena@example.com",
		City:          "Київ",
		Warehouse:     "Відділення №12",
		PaymentMethod: "cod",
		CreatedAt:     time.Now(),
	}
	items := []*domain.OrderItem{
		{
			ProductID:   &productID,
			ProductName: "Свічка соєва",
			Quantity:    2,
			Price:       decimal.RequireFromString("150.00"),
		},
	}
	return order, items
}

func TestOrderCreatePersistsAggregate(t *testing.T) {
	resetCatalog(t)
	category := mustCreateCategory(t, "Свічки")
	product := mustCreateProduct(t, category.ID, "Свічка соєва", "150.00")
	repo := NewOrderRepository(testDB)

	order, items := testOrderAggregate(product.ID)
	require.NoError(t, repo.Create(context.Background(), order, items))
	require.NotZero(t, order.ID)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Олена Петренко", found.FullName)
	assert.Equal(t, "Відділення №12", found.Warehouse)
	assert.Equal(t, "cod", found.PaymentMethod)

	foundItems, err := repo.ItemsByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, foundItems, 1)
	assert.Equal(t, "Свічка соєва", foundItems[0].ProductName)
	assert.Equal(t, 2, foundItems[0].Quantity)
	assert.True(t, foundItems[0].Price.Equal(decimal.RequireFromString("150.00")))
	require.NotNil(t, foundItems[0].ProductID)
	assert.Equal(t, product.ID, *foundItems[0].ProductID)
}

func TestOrderCreateIsAtomic(t *testing.T) {
	resetCatalog(t)
	category := mustCreateCategory(t, "Свічки")
	product := mustCreateProduct(t, category.ID, "Свічка соєва", "150.00")
	repo := NewOrderRepository(testDB)

	order, items := testOrderAggregate(product.ID)
	// The second item violates the quantity check, so the whole
	// aggregate must roll back.
	items = append(items, &domain.OrderItem{
		ProductID:   &product.ID,
		ProductName: "Свічка соєва",
		Quantity:    0,
		Price:       decimal.RequireFromString("150.00"),
	})

	err := repo.Create(context.Background(), order, items)
	require.Error(t, err)

	var orders, orderItems int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&orders))
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM order_items").Scan(&orderItems))
	assert.Zero(t, orders)
	assert.Zero(t, orderItems)
}

func TestOrderItemsSnapshotSurvivesCatalogEdits(t *testing.T) {
	resetCatalog(t)
	category := mustCreateCategory(t, "Свічки")
	product := mustCreateProduct(t, category.ID, "Свічка соєва", "150.00")
	orders := NewOrderRepository(testDB)
	products := NewProductRepository(testDB)

	order, items := testOrderAggregate(product.ID)
	require.NoError(t, orders.Create(context.Background(), order, items))

	// Reprice and rename the product after the order
	product.NameUK = "Свічка соєва нова"
	product.Price = decimal.RequireFromString("999.00")
	product.UpdatedAt = time.Now()
	require.NoError(t, products.Update(context.Background(), product))

	foundItems, err := orders.ItemsByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, foundItems, 1)
	assert.Equal(t, "Свічка соєва", foundItems[0].ProductName)
	assert.True(t, foundItems[0].Price.Equal(decimal.RequireFromString("150.00")))
}

func TestOrderItemsSurviveProductDeletion(t *testing.T) {
	resetCatalog(t)
	category := mustCreateCategory(t, "Свічки")
	product := mustCreateProduct(t, category.ID, "Свічка соєва", "150.00")
	orders := NewOrderRepository(testDB)
	products := NewProductRepository(testDB)

	order, items := testOrderAggregate(product.ID)
	require.NoError(t, orders.Create(context.Background(), order, items))

	require.NoError(t, products.Delete(context.Background(), product.ID))

	foundItems, err := orders.ItemsByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, foundItems, 1)
	// The weak reference is cleared but the snapshot remains
	assert.Nil(t, foundItems[0].ProductID)
	assert.Equal(t, "Свічка соєва", foundItems[0].ProductName)
	assert.True(t, foundItems[0].Price.Equal(decimal.RequireFromString("150.00")))
}

func TestOrderFindByIDNotFound(t *testing.T) {
	resetCatalog(t)
	repo := NewOrderRepository(testDB)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderRejectsEmptyWarehouse(t *testing.T) {
	resetCatalog(t)
	category := mustCreateCategory(t, "Свічки")
	product := mustCreateProduct(t, category.ID, "Свічка соєва", "150.00")
	repo := NewOrderRepository(testDB)

	order, items := testOrderAggregate(product.ID)
	order.Warehouse = ""

	assert.Error(t, repo.Create(context.Background(), order, items))
}
