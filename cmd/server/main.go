package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/config"
	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/handlers"
	"github.com/referralhub/coupon-backend/internal/middleware"
	"github.com/referralhub/coupon-backend/internal/services"
	"github.com/referralhub/coupon-backend/pkg/jwt"
	"github.com/referralhub/coupon-backend/pkg/telegram"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting ReferralHub Coupon Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	roleRepo := database.NewRoleRepository(db)
	companyRepo := database.NewCompanyRepository(db)
	locationRepo := database.NewLocationRepository(db)
	categoryRepo := database.NewCategoryRepository(db)
	couponTypeRepo := database.NewCouponTypeRepository(db)
	couponRepo := database.NewCouponRepository(db)
	subscriptionRepo := database.NewSubscriptionRepository(db)
	groupRepo := database.NewGroupRepository(db)
	actionLogRepo := database.NewActionLogRepository(db)
	adminUserRepo := database.NewAdminUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	telegramClient := telegram.NewClient(telegram.Config{
		APIURL: cfg.Telegram.APIURL,
		Token:  cfg.Telegram.BotToken,
	})

	authService := services.NewAuthService(userRepo)
	roleService := services.NewRoleService(roleRepo, logger, cfg.Telegram.OwnerTelegramID, cfg.Limits.RoleValidityDays)
	companyService := services.NewCompanyService(
		companyRepo, locationRepo, categoryRepo, roleRepo,
		logger, cfg.Limits.MaxCompaniesPerOwner, cfg.Limits.RoleValidityDays,
	)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, companyRepo, roleRepo, logger)
	collabService := services.NewCollaborationService(couponTypeRepo, companyRepo, locationRepo, logger)
	groupService := services.NewGroupService(groupRepo, telegramClient, logger)
	couponService := services.NewCouponService(couponRepo, couponTypeRepo, userRepo, groupService, logger)
	reportService := services.NewReportService(userRepo, companyRepo, couponRepo)
	auditService := services.NewAuditService(actionLogRepo, logger)
	adminAuthService := services.NewAdminAuthService(adminUserRepo, jwtService, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	userHandler := handlers.NewUserHandler(authService, roleService, logger)
	roleHandler := handlers.NewRoleHandler(roleService, auditService, logger)
	companyHandler := handlers.NewCompanyHandler(companyService, roleService, auditService, logger)
	collabHandler := handlers.NewCollaborationHandler(collabService, roleService, auditService, logger)
	couponHandler := handlers.NewCouponHandler(couponService, roleService, auditService, logger)
	groupHandler := handlers.NewGroupHandler(groupService, roleService, logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, roleService, logger)
	adminHandler := handlers.NewAdminHandler(reportService, auditService, logger)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.GET("/:telegram_id", userHandler.Get)
			users.PUT("/:telegram_id", userHandler.UpdateProfile)
			users.GET("/:telegram_id/roles", userHandler.Roles)
			users.GET("/:telegram_id/permissions", userHandler.CheckPermission)
			users.GET("/:telegram_id/subscription", subscriptionHandler.UserStatus)
		}

		roles := v1.Group("/roles")
		{
			roles.POST("", roleHandler.Assign)
			roles.DELETE("", roleHandler.Remove)
		}

		companies := v1.Group("/companies")
		{
			companies.POST("", companyHandler.Create)
			companies.GET("", companyHandler.Filter)
			companies.GET("/:id", companyHandler.Get)
			companies.DELETE("/:id", companyHandler.Delete)
			companies.GET("/:id/roles", roleHandler.ListByCompany)
			companies.POST("/:id/locations", companyHandler.CreateLocation)
			companies.GET("/:id/locations", companyHandler.ListLocations)
			companies.PUT("/:id/locations/:location_id/main", companyHandler.SetMainLocation)
			companies.POST("/:id/locations/:location_id/categories/:category_id", companyHandler.LinkCategory)
			companies.DELETE("/:id/locations/:location_id/categories/:category_id", companyHandler.UnlinkCategory)
			companies.GET("/:id/locations/:location_id/categories", companyHandler.ListLocationCategories)
			companies.GET("/:id/groups", groupHandler.ListByCompany)
			companies.GET("/:id/subscription", subscriptionHandler.CompanyStatus)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", companyHandler.CreateCategory)
			categories.GET("", companyHandler.ListCategories)
		}

		collaborations := v1.Group("/collaborations")
		{
			collaborations.POST("", collabHandler.Propose)
			collaborations.GET("", collabHandler.List)
			collaborations.GET("/pending", collabHandler.Pending)
			collaborations.GET("/:id", collabHandler.Get)
			collaborations.POST("/:id/accept", collabHandler.Accept)
			collaborations.POST("/:id/reject", collabHandler.Reject)
			collaborations.POST("/:id/terminate", collabHandler.Terminate)
			collaborations.POST("/:id/groups", groupHandler.RequireForCouponType)
		}

		coupons := v1.Group("/coupons")
		{
			coupons.POST("", couponHandler.Issue)
			coupons.GET("/:code", couponHandler.Get)
			coupons.POST("/:code/redeem", couponHandler.Redeem)
			coupons.POST("/:code/cancel", couponHandler.Cancel)
		}

		clients := v1.Group("/clients")
		{
			clients.GET("/:client_id/coupons/active", couponHandler.ListActive)
		}

		groups := v1.Group("/groups")
		{
			groups.POST("", groupHandler.Register)
			groups.DELETE("/:id", groupHandler.Remove)
		}

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", subscriptionHandler.Create)
			subscriptions.POST("/:id/deactivate", subscriptionHandler.Deactivate)
		}

		// Back-office admin API
		adminAuth := v1.Group("/admin/auth")
		{
			adminAuth.POST("/register", adminAuthHandler.Register)
			adminAuth.POST("/login", adminAuthHandler.Login)
			adminAuth.POST("/refresh", adminAuthHandler.Refresh)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtService))
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/reports/coupons.csv", adminHandler.ExportCoupons)
			admin.GET("/activity", adminHandler.RecentActivity)
			admin.GET("/users/:telegram_id/activity", adminHandler.UserActivity)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		entry := logger.WithFields(logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		})

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
