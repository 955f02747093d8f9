package main

import (
	"net/http"

	"github.com/MaggieNush/milk-bar/internal/handler"
	mid "github.com/MaggieNush/milk-bar/internal/middleware"
	"github.com/MaggieNush/milk-bar/internal/store"
	"github.com/MaggieNush/milk-bar/pkg/config"
	"github.com/MaggieNush/milk-bar/pkg/database"
	"github.com/MaggieNush/milk-bar/pkg/logger"
	"github.com/MaggieNush/milk-bar/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env if present)
	cfg, err := config.Load()
	if err != nil {
		// Can't use the structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting milk-bar ledger service",
		zap.String("environment", cfg.Server.Env),
		zap.String("port", cfg.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	ledger := store.New(database.GetDB())

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Product API routes
	products := handler.NewProductHandler(ledger)
	productAPI := e.Group("/api/products")
	productAPI.GET("", products.List)
	productAPI.POST("", products.Create)
	productAPI.PUT("/:id", products.Update)
	productAPI.DELETE("/:id", products.Delete)

	// Client API routes
	clients := handler.NewClientHandler(ledger)
	clientAPI := e.Group("/api/clients")
	clientAPI.GET("", clients.List)
	clientAPI.POST("", clients.Create)
	clientAPI.PUT("/:id", clients.Update)
	clientAPI.DELETE("/:id", clients.Delete)

	// Supplier API routes
	suppliers := handler.NewSupplierHandler(ledger)
	supplierAPI := e.Group("/api/suppliers")
	supplierAPI.GET("", suppliers.List)
	supplierAPI.POST("", suppliers.Create)
	supplierAPI.PUT("/:id", suppliers.Update)
	supplierAPI.DELETE("/:id", suppliers.Delete)

	// Delivery API routes
	deliveries := handler.NewDeliveryHandler(ledger)
	deliveryAPI := e.Group("/api/deliveries")
	deliveryAPI.GET("", deliveries.List)
	deliveryAPI.POST("", deliveries.Create)
	deliveryAPI.DELETE("/:id", deliveries.Delete)

	// Sale API routes. The static /items segment takes precedence over /:id.
	sales := handler.NewSaleHandler(ledger)
	saleAPI := e.Group("/api/sales")
	saleAPI.GET("", sales.List)
	saleAPI.POST("", sales.Create)
	saleAPI.DELETE("/items/:id", sales.DeleteItem)
	saleAPI.DELETE("/:id", sales.Delete)

	// Reporting routes
	reports := handler.NewReportHandler(ledger)
	e.GET("/api/snapshot", reports.Snapshot)
	e.GET("/api/summary", reports.Summary)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
