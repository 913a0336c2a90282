package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/earnwell/economy/internal/server/http/handlers"
	"github.com/earnwell/economy/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.EconomyFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	earningHandler := handlers.NewEarningHandler(facade)
	withdrawalHandler := handlers.NewWithdrawalHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	api := engine.Group("/api")
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.POST("/earnings", earningHandler.Earn)
	userAuth.GET("/earnings", earningHandler.History)
	userAuth.GET("/wallet", earningHandler.Wallet)
	userAuth.POST("/withdrawals", withdrawalHandler.Create)
	userAuth.GET("/withdrawals", withdrawalHandler.History)
	userAuth.GET("/withdrawals/quote", withdrawalHandler.Quote)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(facade), middleware.AdminRequired())
	admin.GET("/config", adminHandler.Config)
	admin.PUT("/config", adminHandler.UpdateConfig)
	admin.GET("/withdrawals", adminHandler.Withdrawals)
	admin.POST("/withdrawals/:id/approve", adminHandler.Approve)
	admin.POST("/withdrawals/:id/reject", adminHandler.Reject)
	admin.POST("/boosts", adminHandler.Boost)

	return engine
}
