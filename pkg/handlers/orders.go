package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// CreateOrderRequest for POST body.
type CreateOrderRequest struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// OrderHandler handles order intake and triage requests.
type OrderHandler struct {
	service services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logger}
}

// RegisterRoutes registers the order routes. Clients submit and read their
// own orders; triage requires manage_orders.
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	viewGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequirePermissions(models.PermViewOrders),
	)
	manageGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequirePermissions(models.PermManageOrders),
	)

	mux.HandleFunc("GET /api/orders", viewGate(h.List))
	mux.HandleFunc("POST /api/orders", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/orders/{id}", viewGate(h.Get))
	mux.HandleFunc("POST /api/orders/{id}/accept", manageGate(h.Accept))
	mux.HandleFunc("POST /api/orders/{id}/reject", manageGate(h.Reject))
}

// List returns orders visible to the caller. Clients only see their own.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var orders []*models.Order
	var err error

	if auth.GetRoleFromContext(r.Context()) == models.RoleClient {
		clientID, idErr := auth.RequireUserUUIDFromContext(r.Context())
		if idErr != nil {
			h.unauthorized(w)
			return
		}
		orders, err = h.service.ListByClient(r.Context(), clientID)
	} else {
		orders, err = h.service.List(r.Context())
	}

	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list orders")
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	if err := WriteJSON(w, http.StatusOK, orders); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create submits a new order on behalf of the caller.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	clientID, err := auth.RequireUserUUIDFromContext(r.Context())
	if err != nil {
		h.unauthorized(w)
		return
	}

	order, err := h.service.Create(r.Context(), clientID, req.Title, req.Details)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create order")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, order); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get returns one order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get order")
		return
	}

	if err := WriteJSON(w, http.StatusOK, order); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Accept opens a project from the order.
func (h *OrderHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	actorID, err := auth.RequireUserUUIDFromContext(r.Context())
	if err != nil {
		h.unauthorized(w)
		return
	}

	project, err := h.service.Accept(r.Context(), id, actorID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to accept order")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Reject closes the order.
func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	actorID, err := auth.RequireUserUUIDFromContext(r.Context())
	if err != nil {
		h.unauthorized(w)
		return
	}

	if err := h.service.Reject(r.Context(), id, actorID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to reject order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_order_id", "Invalid order ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

func (h *OrderHandler) unauthorized(w http.ResponseWriter) {
	if err := ErrorResponse(w, http.StatusUnauthorized, "token_invalid", "Authentication required"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
