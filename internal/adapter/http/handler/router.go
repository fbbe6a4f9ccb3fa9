package handler

import (
	"rfid-card-wallet/internal/adapter/http/middleware"
	"rfid-card-wallet/internal/adapter/notify"
	"rfid-card-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	ReportingSvc   ports.ReportingService
	Hub            *notify.Hub
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// Paths match the contract the device tooling and dashboard already speak.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Wallet operations
	walletHandler := NewWalletHandler(deps.WalletSvc)
	r.POST("/topup", walletHandler.Topup)
	r.POST("/pay", walletHandler.Pay)

	// Read-only queries
	queryHandler := NewQueryHandler(deps.ReportingSvc)
	r.GET("/card/:uid", queryHandler.GetCard)
	r.GET("/cards", queryHandler.ListCards)
	r.GET("/transactions/:uid", queryHandler.ListCardTransactions)
	r.GET("/transactions", queryHandler.ListTransactions)
	r.GET("/products", queryHandler.ListProducts)

	// Real-time observer stream
	r.GET("/events", Events(deps.Hub))

	return r
}
