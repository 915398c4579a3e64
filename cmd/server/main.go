package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/gokalpayaz/order-api/internal/assets"
	"github.com/gokalpayaz/order-api/internal/auth"
	"github.com/gokalpayaz/order-api/internal/config"
	"github.com/gokalpayaz/order-api/internal/database"
	"github.com/gokalpayaz/order-api/internal/orders"
	"github.com/gokalpayaz/order-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// main initializes and runs the brokerage API server with graceful shutdown
// support. It sets up the database, seeds sample accounts, and wires the
// auth, asset, and order services onto the router.
func main() {
	cfg := config.Load()

	// Configure pretty logging for development
	if cfg.Env != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if err := database.Seed(db); err != nil {
		zlog.Fatal().Err(err).Msg("Failed to seed database")
	}

	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(db, cfg.JWTSecret)
	authHandlers := auth.NewGinHandlers(authService)

	assetService := assets.NewService(db)
	assetHandlers := assets.NewGinHandlers(assetService)

	orderService := orders.NewService(db)
	orderHandlers := orders.NewGinHandlers(orderService)

	// Setup middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit())

	// Setup API routes
	setupRoutes(router, cfg.JWTSecret, authHandlers, assetHandlers, orderHandlers)

	// Create server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers:
// - Auth routes: public login endpoint
// - Asset routes: protected by JWT authentication
// - Order routes: protected by JWT authentication; matching is admin-only
func setupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandlers *auth.GinHandlers,
	assetHandlers *assets.GinHandlers,
	orderHandlers *orders.GinHandlers,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandlers.LoginHandler())
		}

		// Asset routes
		assetGroup := v1.Group("/assets")
		assetGroup.Use(middleware.JWTAuth(jwtSecret))
		{
			assetGroup.GET("", assetHandlers.ListAssetsHandler())
		}

		// Order routes
		orderGroup := v1.Group("/orders")
		orderGroup.Use(middleware.JWTAuth(jwtSecret))
		{
			orderGroup.POST("", orderHandlers.CreateOrderHandler())
			orderGroup.GET("", orderHandlers.ListOrdersHandler())
			orderGroup.DELETE("/:order_id", orderHandlers.CancelOrderHandler())
			orderGroup.POST("/:order_id/match", middleware.AdminOnly(), orderHandlers.MatchOrderHandler())
		}
	}
}
