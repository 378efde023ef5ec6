package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a candle in the catalog. Name and description are
// stored in both storefront languages; Price is fixed-point currency.
type Product struct {
	ID              int64           `json:"id" db:"id"`
	NameUK          string          `json:"name_uk" db:"name_uk"`
	NameRU          string          `json:"name_ru" db:"name_ru"`
	DescriptionUK   string          `json:"description_uk" db:"description_uk"`
	DescriptionRU   string          `json:"description_ru" db:"description_ru"`
	Price           decimal.Decimal `json:"price" db:"price"`
	CategoryID      int64           `json:"category_id" db:"category_id"`
	ImageURL        string          `json:"image_url" db:"image_url"`
	IsFeatured      bool            `json:"is_featured" db:"is_featured"`
	IsOnSale        bool            `json:"is_on_sale" db:"is_on_sale"`
	DiscountPercent *int            `json:"discount_percent,omitempty" db:"discount_percent"`
	SortOrder       int             `json:"sort_order" db:"sort_order"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Name returns the product name in the given locale.
func (p *Product) Name(loc Locale) string {
	if loc == LocaleRU && p.NameRU != "" {
		return p.NameRU
	}
	return p.NameUK
}

// Description returns the product description in the given locale.
func (p *Product) Description(loc Locale) string {
	if loc == LocaleRU && p.DescriptionRU != "" {
		return p.DescriptionRU
	}
	return p.DescriptionUK
}

// Category represents a product category
type Category struct {
	ID        int64     `json:"id" db:"id"`
	NameUK    string    `json:"name_uk" db:"name_uk"`
	NameRU    string    `json:"name_ru" db:"name_ru"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Name returns the category name in the given locale.
func (c *Category) Name(loc Locale) string {
	if loc == LocaleRU && c.NameRU != "" {
		return c.NameRU
	}
	return c.NameUK
}
