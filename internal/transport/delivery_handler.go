package transport

import (
	"context"
	"net/http"
	"strings"

	"karma-light/internal/delivery"
	"karma-light/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WarehouseLookup is the slice of the delivery client the handler needs.
type WarehouseLookup interface {
	Warehouses(ctx context.Context, city string) ([]delivery.Warehouse, error)
}

// DeliveryHandler handles HTTP requests for delivery-point lookup
type DeliveryHandler struct {
	lookup WarehouseLookup
	logger *zap.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(lookup WarehouseLookup, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		lookup: lookup,
		logger: logger,
	}
}

// RegisterRoutes registers the delivery routes
func (h *DeliveryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/delivery/warehouses", h.Warehouses)
}

// Warehouses lists pickup points for a city. Upstream failures degrade to
// an empty list: the checkout form stays usable, just without suggestions.
func (h *DeliveryHandler) Warehouses(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "city is required")
		return
	}

	warehouses, err := h.lookup.Warehouses(r.Context(), city)
	if err != nil {
		h.logger.Warn("Warehouse lookup failed",
			zap.Error(err),
			zap.String("city", city),
		)
		warehouses = []delivery.Warehouse{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"warehouses": warehouses,
	})
}
