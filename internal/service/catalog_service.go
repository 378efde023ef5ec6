package service

import (
	"context"
	"fmt"
	"time"

	"karma-light/internal/domain"
	"karma-light/internal/repository"
)

// featuredLimit is the number of homepage slots.
const featuredLimit = 6

// CatalogService defines catalog browsing and management business logic.
// Browsing is public; the mutating operations back the admin API.
type CatalogService interface {
	Products(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Featured(ctx context.Context) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]*domain.Category, error)

	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, category *domain.Category) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository) CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
	}
}

func (s *catalogService) Products(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	return s.products.List(ctx, filter)
}

func (s *catalogService) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) Featured(ctx context.Context) ([]*domain.Product, error) {
	return s.products.Featured(ctx, featuredLimit)
}

func (s *catalogService) Categories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// CreateProduct validates the category reference and inserts the product
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
		return fmt.Errorf("failed to resolve product category: %w", err)
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	return s.products.Create(ctx, product)
}

// UpdateProduct updates an existing product
func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
		return fmt.Errorf("failed to resolve product category: %w", err)
	}

	product.UpdatedAt = time.Now()

	return s.products.Update(ctx, product)
}

// DeleteProduct removes a product from the catalog. Carts referencing it
// degrade gracefully: reconciliation drops the stale entries.
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

// CreateCategory inserts a new category
func (s *catalogService) CreateCategory(ctx context.Context, category *domain.Category) error {
	category.CreatedAt = time.Now()
	return s.categories.Create(ctx, category)
}
