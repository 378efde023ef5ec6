package transport

import (
	"encoding/json"
	"net/http"

	"karma-light/internal/middleware"
	"karma-light/internal/service"
	"karma-light/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutResponse is returned when an order is placed
type CheckoutResponse struct {
	OrderID int64  `json:"order_id"`
	Total   string `json:"total"`
}

// CheckoutHandler handles HTTP requests for checkout
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	sessions        session.Store
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, sessions session.Store, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		sessions:        sessions,
		logger:          logger,
	}
}

// RegisterRoutes registers the checkout route
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", h.Checkout)
}

// Checkout places an order from the visitor's session cart. Validation
// refusals come back as 422 with the structured result; a persistence
// failure is a plain 500 with nothing committed.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form service.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := session.ID(w, r)

	sessionCart, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load cart for checkout", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	loc := middleware.GetLocale(r.Context())

	result, err := h.checkoutService.Checkout(r.Context(), sessionCart, form, loc)
	if err != nil {
		h.logger.Error("Checkout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	if !result.Validation.OK() {
		middleware.RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"ok":     false,
			"errors": result.Validation,
		})
		return
	}

	// The order is committed; the session cart must not survive it.
	if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to clear cart after checkout",
			zap.Error(err),
			zap.Int64("order_id", result.Order.ID),
		)
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID: result.Order.ID,
		Total:   result.Total.StringFixed(2),
	})
}
