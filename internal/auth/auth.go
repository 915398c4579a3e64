package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/types"
	"github.com/gokalpayaz/order-api/pkg/response"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// LoginRequest represents the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	Token      string    `json:"jwt_token"`
	Expiration time.Time `json:"expiration"`
}

// Claims represents the JWT claims structure
type Claims struct {
	jwt.RegisteredClaims
	CustomerID uint   `json:"customer_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
}

// Principal is the acting identity extracted from a validated token.
type Principal struct {
	CustomerID uint
	Username   string
	Role       string
}

// CanActFor reports whether the principal may operate on the given
// customer's resources: the customer themselves, or an admin.
func (p Principal) CanActFor(customerID uint) bool {
	return p.Role == types.RoleAdmin || p.CustomerID == customerID
}

// IsAuthorizedForCustomer decides whether the acting principal may operate
// on the given customer's resources (self or admin).
func IsAuthorizedForCustomer(p Principal, customer *types.Customer) bool {
	return p.Role == types.RoleAdmin || p.Username == customer.Username
}

// Service handles authentication and token operations
type Service struct {
	db        *Database
	jwtSecret []byte
}

// NewService creates a new authentication service backed by the customer table
func NewService(gormDB *gorm.DB, jwtSecret string) *Service {
	return &Service{
		db:        NewDatabase(gormDB),
		jwtSecret: []byte(jwtSecret),
	}
}

// Login verifies a customer's credentials and issues a JWT with the
// customer's identity and role, expiring in 24 hours.
func (s *Service) Login(req LoginRequest) (*TokenResponse, error) {
	customer, err := s.db.GetCustomerByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateToken(customer)
}

func (s *Service) generateToken(customer *types.Customer) (*TokenResponse, error) {
	expiration := time.Now().Add(24 * time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		CustomerID: customer.ID,
		Username:   customer.Username,
		Role:       customer.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, ErrTokenGeneration
	}

	return &TokenResponse{
		Token:      tokenString,
		Expiration: expiration,
	}, nil
}

// ValidateToken validates a JWT token and returns the claims
// Verifies token signature and expiration
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetCustomerByID resolves a customer by id; returns nil when absent.
func (s *Service) GetCustomerByID(id uint) (*types.Customer, error) {
	return s.db.GetCustomerByID(id)
}

// PrincipalFromContext extracts the acting principal set by the JWT middleware.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	username := c.GetString("username")
	role := c.GetString("role")
	if username == "" || role == "" {
		return Principal{}, false
	}

	var customerID uint
	if v, exists := c.Get("customer_id"); exists {
		// JWT numeric claims decode as float64
		switch id := v.(type) {
		case float64:
			customerID = uint(id)
		case uint:
			customerID = id
		}
	}

	return Principal{
		CustomerID: customerID,
		Username:   username,
		Role:       role,
	}, true
}

// GinHandlers contains HTTP handlers for authentication endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for authentication endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// LoginHandler handles POST requests to authenticate a customer
// Request body should contain username and password
func (h *GinHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}

		token, err := h.service.Login(req)
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid Credentials")
			return
		}
		response.Handle(c, token, err)
	}
}
