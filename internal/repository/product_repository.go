package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"karma-light/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductSort selects the ordering of catalog listings
type ProductSort string

const (
	SortDefault   ProductSort = ""
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortNameAsc   ProductSort = "name_asc"
	SortNameDesc  ProductSort = "name_desc"
)

// ProductFilter narrows and orders a catalog listing. Zero values mean
// "no constraint".
type ProductFilter struct {
	Query      string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       ProductSort
	Page       int
	PageSize   int
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
	Featured(ctx context.Context, limit int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name_uk, name_ru, description_uk, description_ru, price,
	category_id, image_url, is_featured, is_on_sale, discount_percent, sort_order,
	created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID,
		&p.NameUK,
		&p.NameRU,
		&p.DescriptionUK,
		&p.DescriptionRU,
		&p.Price,
		&p.CategoryID,
		&p.ImageURL,
		&p.IsFeatured,
		&p.IsOnSale,
		&p.DiscountPercent,
		&p.SortOrder,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new product and fills in its generated ID
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name_uk, name_ru, description_uk, description_ru, price,
			category_id, image_url, is_featured, is_on_sale, discount_percent, sort_order,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.NameUK,
		product.NameRU,
		product.DescriptionUK,
		product.DescriptionRU,
		product.Price,
		product.CategoryID,
		product.ImageURL,
		product.IsFeatured,
		product.IsOnSale,
		product.DiscountPercent,
		product.SortOrder,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name_uk = $2, name_ru = $3, description_uk = $4, description_ru = $5,
		    price = $6, category_id = $7, image_url = $8, is_featured = $9,
		    is_on_sale = $10, discount_percent = $11, sort_order = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.NameUK,
		product.NameRU,
		product.DescriptionUK,
		product.DescriptionRU,
		product.Price,
		product.CategoryID,
		product.ImageURL,
		product.IsFeatured,
		product.IsOnSale,
		product.DiscountPercent,
		product.SortOrder,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the catalog
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching the filter, with the total match count.
// The default ordering tiers the catalog: featured+on-sale first, on-sale
// next, featured next, everything else last, newest first within a tier.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if q := strings.TrimSpace(filter.Query); q != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name_uk ILIKE $%d OR name_ru ILIKE $%d OR description_uk ILIKE $%d OR description_ru ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+q+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Sort expressions are fixed strings selected here, never user input
	var orderBy string
	switch filter.Sort {
	case SortPriceAsc:
		orderBy = "price ASC, id DESC"
	case SortPriceDesc:
		orderBy = "price DESC, id DESC"
	case SortNameAsc:
		orderBy = "name_uk ASC"
	case SortNameDesc:
		orderBy = "name_uk DESC"
	default:
		orderBy = `CASE
			WHEN is_featured AND is_on_sale THEN 0
			WHEN is_on_sale THEN 1
			WHEN is_featured THEN 2
			ELSE 3
		END, id DESC`
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, orderBy, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// Featured returns up to limit products for the homepage: all featured ones
// first, remaining slots backfilled with the newest regular products.
func (r *productRepository) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE is_featured = TRUE
		ORDER BY sort_order ASC, id DESC
		LIMIT $1
	`, productColumns)

	products, err := r.queryProducts(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}

	if remaining := limit - len(products); remaining > 0 {
		fillQuery := fmt.Sprintf(`
			SELECT %s
			FROM products
			WHERE is_featured = FALSE
			ORDER BY sort_order ASC, id DESC
			LIMIT $1
		`, productColumns)

		fill, err := r.queryProducts(ctx, fillQuery, remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to backfill featured products: %w", err)
		}
		products = append(products, fill...)
	}

	return products, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}
