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

// LoginRequest represents the admin login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse represents the admin login response
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Admin        AdminProfile `json:"admin"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// AdminProfile represents admin account data
type AdminProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProductRequest represents a product create or update payload. Both locale
// variants of the name are required; the price travels as a decimal string.
type ProductRequest struct {
	NameUK          string `json:"name_uk" validate:"required"`
	NameRU          string `json:"name_ru" validate:"required"`
	DescriptionUK   string `json:"description_uk"`
	DescriptionRU   string `json:"description_ru"`
	Price           string `json:"price" validate:"required"`
	CategoryID      int64  `json:"category_id" validate:"required,gt=0"`
	ImageURL        string `json:"image_url"`
	IsFeatured      bool   `json:"is_featured"`
	IsOnSale        bool   `json:"is_on_sale"`
	DiscountPercent *int   `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	SortOrder       int    `json:"sort_order"`
}

// CategoryRequest represents a category create payload
type CategoryRequest struct {
	NameUK    string `json:"name_uk" validate:"required"`
	NameRU    string `json:"name_ru" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

// AdminHandler handles HTTP requests for the catalog-management API
type AdminHandler struct {
	authService    service.AuthService
	catalogService service.CatalogService
	jwtSecret      string
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(authService service.AuthService, catalogService service.CatalogService, jwtSecret string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		catalogService: catalogService,
		jwtSecret:      jwtSecret,
		logger:         logger,
	}
}

// RegisterRoutes registers all admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		// Public routes
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)
		r.Post("/logout", h.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(h.jwtSecret, h.logger))
			r.Post("/products", h.CreateProduct)
			r.Put("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)
			r.Post("/categories", h.CreateCategory)
		})
	})
}

// Login handles admin login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, refreshToken, admin, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Admin: AdminProfile{
			ID:    admin.ID.String(),
			Email: admin.Email,
		},
	})
}

// RefreshToken handles access token refresh
func (h *AdminHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenExpired) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		h.logger.Error("Token refresh failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

// Logout revokes the refresh token
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateProduct handles product creation
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.CreateProduct(r.Context(), product); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "category not found")
			return
		}
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"id": product.ID})
}

// UpdateProduct handles product updates
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = id

	if err := h.catalogService.UpdateProduct(r.Context(), product); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "category not found")
		default:
			h.logger.Error("Failed to update product", zap.Error(err), zap.Int64("product_id", id))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles product deletion. Session carts holding the product
// keep their entries; reconciliation drops them on the next view.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles category creation
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category := &domain.Category{
		NameUK:    req.NameUK,
		NameRU:    req.NameRU,
		SortOrder: req.SortOrder,
	}

	if err := h.catalogService.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"id": category.ID})
}

// decodeProduct decodes and validates a product payload, writing the error
// response itself when the payload is bad.
func (h *AdminHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "price", Message: "Invalid value"},
		})
		return nil, false
	}

	return &domain.Product{
		NameUK:          req.NameUK,
		NameRU:          req.NameRU,
		DescriptionUK:   req.DescriptionUK,
		DescriptionRU:   req.DescriptionRU,
		Price:           price,
		CategoryID:      req.CategoryID,
		ImageURL:        req.ImageURL,
		IsFeatured:      req.IsFeatured,
		IsOnSale:        req.IsOnSale,
		DiscountPercent: req.DiscountPercent,
		SortOrder:       req.SortOrder,
	}, true
}
