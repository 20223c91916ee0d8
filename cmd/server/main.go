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

	"github.com/harborview/hms-backend/internal/config"
	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/handlers"
	"github.com/harborview/hms-backend/internal/middleware"
	"github.com/harborview/hms-backend/internal/models"
	"github.com/harborview/hms-backend/internal/services"
	"github.com/harborview/hms-backend/pkg/jwt"
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

	logger.Info("Starting Harborview HMS Backend")
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
	roomRepo := database.NewRoomRepository(db)
	customerRepo := database.NewCustomerRepository(db)
	employeeRepo := database.NewEmployeeRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)
	reservationRepo := database.NewReservationRepository(db)
	staffRepo := database.NewStaffRepository(db)
	sessionRepo := database.NewStaffSessionRepository(db)

	// Initialize services
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	reservationService := services.NewReservationService(reservationRepo, roomRepo, customerRepo, logger)
	authService := services.NewAuthService(staffRepo, sessionRepo, jwtService, logger)
	rateLimitService := services.NewRateLimitService(db)

	// Start scheduled jobs (overdue checkout sweep, session and throttle cleanup)
	cronService := services.NewCronService(reservationService, authService, rateLimitService,
		cfg.Sweeper.OverdueSchedule, cfg.Sweeper.SessionSchedule, logger)
	if cfg.Sweeper.Enabled {
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	} else {
		logger.Warn("Background sweeper disabled by configuration")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, rateLimitService, logger)
	roomHandler := handlers.NewRoomHandler(roomRepo, reservationService)
	customerHandler := handlers.NewCustomerHandler(customerRepo, reservationService)
	employeeHandler := handlers.NewEmployeeHandler(employeeRepo)
	ledgerHandler := handlers.NewLedgerHandler(ledgerRepo)
	reservationHandler := handlers.NewReservationHandler(reservationService)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Server.EnableRequestLog {
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
		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)

			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(authService))
			{
				protected.POST("/logout", authHandler.Logout)
				protected.GET("/me", authHandler.Me)
				protected.GET("/sessions", authHandler.ListSessions)
				protected.PUT("/password", authHandler.ChangePassword)
			}
		}

		// Staff account administration (admin only)
		staff := v1.Group("/staff")
		staff.Use(middleware.AuthMiddleware(authService), middleware.RequireRole(models.RoleAdmin))
		{
			staff.POST("", authHandler.CreateStaff)
			staff.GET("", authHandler.ListStaff)
			staff.PUT("/:id/active", authHandler.SetStaffActive)
		}

		// Everything below requires a valid session
		api := v1.Group("")
		api.Use(middleware.AuthMiddleware(authService))
		{
			rooms := api.Group("/rooms")
			{
				rooms.POST("", roomHandler.CreateRoom)
				rooms.GET("", roomHandler.ListRooms)
				rooms.GET("/:id", roomHandler.GetRoom)
				rooms.PUT("/:id", roomHandler.UpdateRoom)
				rooms.DELETE("/:id", roomHandler.DeleteRoom)
			}

			customers := api.Group("/customers")
			{
				customers.POST("", customerHandler.CreateCustomer)
				customers.GET("", customerHandler.ListCustomers)
				customers.GET("/:id", customerHandler.GetCustomer)
				customers.PUT("/:id", customerHandler.UpdateCustomer)
				customers.DELETE("/:id", customerHandler.DeleteCustomer)
			}

			employees := api.Group("/employees")
			{
				employees.POST("", employeeHandler.CreateEmployee)
				employees.GET("", employeeHandler.ListEmployees)
				employees.GET("/:id", employeeHandler.GetEmployee)
				employees.PUT("/:id", employeeHandler.UpdateEmployee)
				employees.DELETE("/:id", employeeHandler.DeleteEmployee)
			}

			finance := api.Group("/finance")
			{
				finance.POST("/income", ledgerHandler.CreateIncome)
				finance.GET("/income", ledgerHandler.ListIncome)
				finance.POST("/expenses", ledgerHandler.CreateExpense)
				finance.GET("/expenses", ledgerHandler.ListExpenses)
				finance.GET("/summary", ledgerHandler.GetSummary)
			}

			reservations := api.Group("/reservations")
			{
				reservations.POST("", reservationHandler.CreateReservation)
				reservations.GET("", reservationHandler.ListReservations)
				reservations.GET("/:id", reservationHandler.GetReservation)
				reservations.POST("/:id/transition", reservationHandler.TransitionReservation)
				reservations.POST("/batch-transition", reservationHandler.BatchTransition)
				reservations.POST("/sweep-overdue",
					middleware.RequireRole(models.RoleAdmin, models.RoleManager),
					reservationHandler.SweepOverdue)
				reservations.DELETE("/:id", reservationHandler.DeleteReservation)
			}
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

	cronService.Stop()

	// Graceful shutdown with timeout
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
