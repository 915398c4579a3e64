package orders

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gokalpayaz/order-api/internal/auth"
	"github.com/gokalpayaz/order-api/internal/types"
	"github.com/gokalpayaz/order-api/pkg/response"
)

// CreateOrderRequest represents the order placement payload
type CreateOrderRequest struct {
	CustomerID uint            `json:"customer_id" binding:"required"`
	AssetName  string          `json:"asset_name" binding:"required"`
	Side       string          `json:"side" binding:"required"`
	Size       decimal.Decimal `json:"size"`
	Price      decimal.Decimal `json:"price"`
}

// GinHandlers contains HTTP handlers for order endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for order endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// CreateOrderHandler handles POST requests to place new orders
// Requires a valid JWT token; the caller must be the customer or an admin
func (h *GinHandlers) CreateOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		if !req.Size.IsPositive() || !req.Price.IsPositive() {
			response.BadRequest(c, "size and price must be positive")
			return
		}

		customer, err := h.service.GetCustomerByID(req.CustomerID)
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		if customer == nil {
			response.NotFound(c, "Customer not found")
			return
		}

		if !auth.IsAuthorizedForCustomer(principal, customer) {
			response.Forbidden(c, "Not authorized for this customer")
			return
		}

		order, err := h.service.Create(customer.ID, req.AssetName, types.OrderSide(req.Side), req.Size, req.Price)
		response.Handle(c, order, err)
	}
}

// ListOrdersHandler handles GET requests to list a customer's orders in a
// time range. Requires a valid JWT token; the caller must be the customer
// or an admin
// Query parameters: customer_id, start, end (RFC3339)
func (h *GinHandlers) ListOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		customerID, err := strconv.ParseUint(c.Query("customer_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "customer_id is required")
			return
		}

		start, err := time.Parse(time.RFC3339, c.Query("start"))
		if err != nil {
			response.BadRequest(c, "start must be an RFC3339 timestamp")
			return
		}
		end, err := time.Parse(time.RFC3339, c.Query("end"))
		if err != nil {
			response.BadRequest(c, "end must be an RFC3339 timestamp")
			return
		}

		customer, err := h.service.GetCustomerByID(uint(customerID))
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		if customer == nil {
			response.NotFound(c, "Customer not found")
			return
		}

		if !auth.IsAuthorizedForCustomer(principal, customer) {
			response.Forbidden(c, "Not authorized for this customer")
			return
		}

		orders, err := h.service.List(customer.ID, start, end)
		response.Handle(c, orders, err)
	}
}

// CancelOrderHandler handles DELETE requests to cancel a pending order
// Requires a valid JWT token; the caller must own the order or be an admin
// URL parameter: order_id
func (h *GinHandlers) CancelOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "order_id is required")
			return
		}

		order, err := h.service.GetPendingOrder(uint(orderID))
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		if order == nil {
			response.NotFound(c, "No eligible order found")
			return
		}

		if !principal.CanActFor(order.CustomerID) {
			response.Forbidden(c, "Not authorized for this order")
			return
		}

		canceled, err := h.service.Cancel(order.ID)
		response.Handle(c, canceled, err)
	}
}

// MatchOrderHandler handles POST requests to match a pending order
// Admin-only; enforced by the AdminOnly middleware on the route
// URL parameter: order_id
func (h *GinHandlers) MatchOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "order_id is required")
			return
		}

		matched, err := h.service.Match(uint(orderID))
		response.Handle(c, matched, err)
	}
}
