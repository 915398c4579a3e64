package assets

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/auth"
	"github.com/gokalpayaz/order-api/internal/types"
	"github.com/gokalpayaz/order-api/pkg/response"
)

// Service exposes read access to customer asset balances
type Service struct {
	db *Database
}

// NewService creates a new asset service with the given database connection
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// ListAssets returns all assets held by the customer, ordered by symbol
func (s *Service) ListAssets(customerID uint) ([]types.Asset, error) {
	return s.db.ListAssetsByCustomer(customerID)
}

// GetCustomerByID resolves a customer by id; returns nil when absent.
func (s *Service) GetCustomerByID(id uint) (*types.Customer, error) {
	return s.db.GetCustomerByID(id)
}

// GinHandlers contains HTTP handlers for asset endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for asset endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// ListAssetsHandler handles GET requests to list a customer's assets
// Requires a valid JWT token; the caller must be the customer or an admin
// Query parameter: customer_id
func (h *GinHandlers) ListAssetsHandler() gin.HandlerFunc {
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

		assets, err := h.service.ListAssets(customer.ID)
		if err != nil {
			response.Handle(c, nil, err)
			return
		}

		log.Debug().
			Uint("customer_id", customer.ID).
			Int("assets", len(assets)).
			Msg("listed customer assets")

		response.Success(c, assets)
	}
}
