package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/googleauth"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/handler"
	mid "github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/middleware"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/store"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/config"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/database"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/jwtutil"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/logger"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/prometheus"
)

func main() {
	// Load .env file if present; production environments set real env vars.
	_ = godotenv.Load()

	// Load configuration. A missing signing key or Google client id is fatal:
	// the process must not serve traffic without them.
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting lostfound-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port),
		zap.String("allowed_domain", appConfig.Google.AllowedDomain))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(appConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the stores, the Google verifier, and the session issuer
	users := store.NewGormUserStore(db)
	items := store.NewGormItemStore(db)
	verifier := googleauth.NewIDTokenVerifier(appConfig.Google.ClientID)
	jwtUtil := jwtutil.New(&appConfig.JWT)

	authHandler := handler.NewAuthHandler(verifier, users, jwtUtil, appConfig.Google)
	itemHandler := handler.NewItemHandler(items)
	authRequired := mid.Auth(jwtUtil, users)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware(log))

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)
	e.GET("/api/test", handler.APITest)

	// Auth API routes
	authAPI := e.Group("/api/auth")
	authAPI.POST("/google", authHandler.GoogleLogin)
	authAPI.GET("/verify", authHandler.VerifySession, authRequired)

	// Item API routes
	itemAPI := e.Group("/api/items")
	itemAPI.GET("", itemHandler.ListItems)
	itemAPI.GET("/:id", itemHandler.GetItem)
	itemAPI.POST("", itemHandler.CreateItem, authRequired)
	itemAPI.GET("/user/my-items", itemHandler.MyItems, authRequired)
	itemAPI.PUT("/:id/status", itemHandler.UpdateItemStatus, authRequired)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
