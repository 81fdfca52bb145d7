package main

import (
	"context"

	"pizzeria-service/internal/handler"
	"pizzeria-service/internal/menu"
	mid "pizzeria-service/internal/middleware"
	"pizzeria-service/internal/seed"
	"pizzeria-service/internal/store"
	"pizzeria-service/internal/store/gormstore"
	"pizzeria-service/internal/store/memstore"
	"pizzeria-service/pkg/config"
	"pizzeria-service/pkg/database"
	"pizzeria-service/pkg/jwtutil"
	"pizzeria-service/pkg/logger"
	"pizzeria-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting pizzeria-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port),
		zap.String("store_driver", appConfig.Store.Driver))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Select the document store driver
	var st store.Store
	switch appConfig.Store.Driver {
	case "memory":
		st = memstore.New()
		log.Info("Using in-memory document store")
	default:
		db, err := database.InitDB(appConfig)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		st = gormstore.New(db)
		log.Info("Database connection established")
	}

	// Seed the master account and the template menu
	if appConfig.Store.SeedOnEmpty {
		if err := seed.Run(context.Background(), st, appConfig, log); err != nil {
			log.Fatal("Failed to seed store", zap.Error(err))
		}
	}

	// Wire the resolver core
	resolver := menu.NewResolver(st, appConfig.Master.Email)
	menuService := menu.NewService(st, resolver, log)

	// Handlers
	authHandler := handler.NewAuthHandler(st, menuService)
	menuHandler := handler.NewMenuHandler(menuService)
	categoryHandler := handler.NewCategoryHandler(menuService)
	orderHandler := handler.NewOrderHandler(st, menuService)
	adminHandler := handler.NewAdminHandler(st, menuService)
	settingsHandler := handler.NewSettingsHandler(st, menuService)
	healthHandler := handler.NewHealthHandler(st)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", healthHandler.Check)

	// Auth routes
	authAPI := e.Group("/api/auth")
	authAPI.POST("/register", authHandler.Register)
	authAPI.POST("/login", authHandler.Login)
	authAPI.GET("/profile", authHandler.GetProfile, mid.AuthMiddleware)
	authAPI.PUT("/profile", authHandler.UpdateProfile, mid.AuthMiddleware)
	authAPI.POST("/select-space", authHandler.SelectSpace, mid.AuthMiddleware)

	// Menu routes; reads are public, anonymous callers see the master menu
	menuAPI := e.Group("/api/menu")
	menuAPI.GET("", menuHandler.ListMenu, mid.OptionalAuthMiddleware)
	menuAPI.GET("/admin", menuHandler.ListTenantItems, mid.AuthMiddleware)
	menuAPI.POST("/items", menuHandler.CreateItem, mid.AuthMiddleware)
	menuAPI.PUT("/items/:id", menuHandler.UpdateItem, mid.AuthMiddleware)
	menuAPI.DELETE("/items/:id", menuHandler.DeleteItem, mid.AuthMiddleware)

	// Category routes
	categoryAPI := e.Group("/api/categories")
	categoryAPI.GET("", categoryHandler.ListCategories, mid.OptionalAuthMiddleware)
	categoryAPI.POST("", categoryHandler.CreateCategory, mid.AuthMiddleware)
	categoryAPI.PUT("/:id", categoryHandler.UpdateCategory, mid.AuthMiddleware)
	categoryAPI.DELETE("/:id", categoryHandler.DeleteCategory, mid.AuthMiddleware)

	// Order routes
	orderAPI := e.Group("/api/orders", mid.AuthMiddleware)
	orderAPI.POST("", orderHandler.CreateOrder)
	orderAPI.GET("", orderHandler.ListOrders)
	orderAPI.GET("/all", orderHandler.ListAllOrders)
	orderAPI.GET("/stream", orderHandler.StreamOrders)
	orderAPI.PUT("/:id/status", orderHandler.UpdateOrderStatus)
	orderAPI.DELETE("", orderHandler.DeleteOrders)

	// Admin routes
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware)
	adminAPI.GET("/stats", adminHandler.GetStats)
	adminAPI.GET("/integrity", adminHandler.CheckIntegrity)

	// Settings routes
	settingsAPI := e.Group("/api/settings")
	settingsAPI.GET("", settingsHandler.GetSettings)
	settingsAPI.PUT("", settingsHandler.UpdateSettings, mid.AuthMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
