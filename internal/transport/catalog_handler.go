package transport

import (
	"errors"
	"net/http"
	"strconv"

	"karma-light/internal/domain"
	"karma-light/internal/middleware"
	"karma-light/internal/repository"
	"karma-light/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductView is a product rendered for the shopper's locale. Prices are
// fixed-point strings to keep cents exact on the wire.
type ProductView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	CategoryID      int64  `json:"category_id"`
	ImageURL        string `json:"image_url,omitempty"`
	IsFeatured      bool   `json:"is_featured"`
	IsOnSale        bool   `json:"is_on_sale"`
	DiscountPercent *int   `json:"discount_percent,omitempty"`
}

// CategoryView is a category rendered for the shopper's locale
type CategoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductListResponse is a paginated catalog listing
type ProductListResponse struct {
	Products []ProductView `json:"products"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/featured", h.Featured)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/categories", h.ListCategories)
}

// ListProducts handles catalog listing with search, filters and sorting
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, total, err := h.catalogService.Products(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	loc := middleware.GetLocale(r.Context())

	resp := ProductListResponse{
		Products: make([]ProductView, 0, len(products)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for _, p := range products {
		resp.Products = append(resp.Products, productView(p, loc))
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// GetProduct handles fetching a single product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, productView(product, middleware.GetLocale(r.Context())))
}

// Featured handles the homepage product selection
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.Featured(r.Context())
	if err != nil {
		h.logger.Error("Failed to list featured products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list featured products")
		return
	}

	loc := middleware.GetLocale(r.Context())

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p, loc))
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": views})
}

// ListCategories handles listing all categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.Categories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	loc := middleware.GetLocale(r.Context())

	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, CategoryView{ID: c.ID, Name: c.Name(loc)})
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"categories": views})
}

func productView(p *domain.Product, loc domain.Locale) ProductView {
	return ProductView{
		ID:              p.ID,
		Name:            p.Name(loc),
		Description:     p.Description(loc),
		Price:           p.Price.StringFixed(2),
		CategoryID:      p.CategoryID,
		ImageURL:        p.ImageURL,
		IsFeatured:      p.IsFeatured,
		IsOnSale:        p.IsOnSale,
		DiscountPercent: p.DiscountPercent,
	}
}

func parseProductFilter(r *http.Request) (repository.ProductFilter, error) {
	q := r.URL.Query()

	filter := repository.ProductFilter{Query: q.Get("q")}

	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("invalid category ID")
		}
		filter.CategoryID = &id
	}

	if raw := q.Get("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("invalid min_price")
		}
		filter.MinPrice = &price
	}

	if raw := q.Get("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("invalid max_price")
		}
		filter.MaxPrice = &price
	}

	switch sort := repository.ProductSort(q.Get("sort")); sort {
	case repository.SortDefault, repository.SortPriceAsc, repository.SortPriceDesc,
		repository.SortNameAsc, repository.SortNameDesc:
		filter.Sort = sort
	default:
		return filter, errors.New("invalid sort")
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, errors.New("invalid page")
		}
		filter.Page = page
	}

	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > 100 {
			return filter, errors.New("invalid page_size")
		}
		filter.PageSize = size
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	return filter, nil
}
