package transport

import (
	"encoding/json"
	"net/http"

	"karma-light/internal/cart"
	"karma-light/internal/domain"
	"karma-light/internal/middleware"
	"karma-light/internal/service"
	"karma-light/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartRequest represents a single cart mutation
type UpdateCartRequest struct {
	Action    string `json:"action" validate:"required"`
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity"`
}

// CartLineView is one reconciled cart line on the wire
type CartLineView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// CartResponse is the full cart state returned after every cart operation.
// ItemQty and ItemSubtotal describe the line the operation touched so the
// storefront can update a single row without re-rendering the whole cart.
type CartResponse struct {
	OK           bool           `json:"ok"`
	Items        []CartLineView `json:"items"`
	TotalQty     int            `json:"total_qty"`
	Total        string         `json:"total"`
	ItemQty      *int           `json:"item_qty,omitempty"`
	ItemSubtotal *string        `json:"item_subtotal,omitempty"`
}

// CartHandler handles HTTP requests for the session cart
type CartHandler struct {
	sessions   session.Store
	reconciler service.CartReconciler
	logger     *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(sessions session.Store, reconciler service.CartReconciler, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		sessions:   sessions,
		reconciler: reconciler,
		logger:     logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/add", h.Add)
		r.Post("/update", h.Update)
	})
}

// GetCart returns the reconciled cart for the visitor's session
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := session.ID(w, r)

	c, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	h.respondWithCart(w, r, c, nil)
}

// Add puts a product into the cart, incrementing the quantity when the
// product is already there
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, cart.ErrInvalidPayload.Error())
		return
	}

	sessionID := session.ID(w, r)

	c, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	c = cart.Add(c, req.ProductID, req.Quantity)

	if err := h.sessions.Set(r.Context(), sessionID, c); err != nil {
		h.logger.Error("Failed to store cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store cart")
		return
	}

	h.respondWithCart(w, r, c, &req.ProductID)
}

// Update applies a single inc/dec/set/remove action to the cart
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, cart.ErrInvalidPayload.Error())
		return
	}

	action, err := cart.ParseAction(req.Action)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := session.ID(w, r)

	c, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	c, err = cart.Apply(c, action, req.ProductID, req.Quantity)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sessions.Set(r.Context(), sessionID, c); err != nil {
		h.logger.Error("Failed to store cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store cart")
		return
	}

	h.respondWithCart(w, r, c, &req.ProductID)
}

// respondWithCart reconciles the cart and writes the full cart state.
// touchedID, when set, fills the per-line item_qty and item_subtotal fields.
func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, c cart.Cart, touchedID *int64) {
	lines, total, err := h.reconciler.Reconcile(r.Context(), c)
	if err != nil {
		h.logger.Error("Failed to reconcile cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	loc := middleware.GetLocale(r.Context())

	resp := CartResponse{
		OK:    true,
		Items: make([]CartLineView, 0, len(lines)),
		Total: total.StringFixed(2),
	}

	for _, line := range lines {
		resp.TotalQty += line.Quantity
		resp.Items = append(resp.Items, cartLineView(line, loc))

		if touchedID != nil && line.Product.ID == *touchedID {
			qty := line.Quantity
			subtotal := line.Subtotal.StringFixed(2)
			resp.ItemQty = &qty
			resp.ItemSubtotal = &subtotal
		}
	}

	// A removed or stale touched line reports zero so the storefront
	// clears the row.
	if touchedID != nil && resp.ItemQty == nil {
		zeroQty := 0
		zeroSubtotal := decimal.Zero.StringFixed(2)
		resp.ItemQty = &zeroQty
		resp.ItemSubtotal = &zeroSubtotal
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

func cartLineView(line cart.Line, loc domain.Locale) CartLineView {
	return CartLineView{
		ProductID: line.Product.ID,
		Name:      line.Product.Name(loc),
		Price:     line.Product.Price.StringFixed(2),
		Quantity:  line.Quantity,
		Subtotal:  line.Subtotal.StringFixed(2),
	}
}
