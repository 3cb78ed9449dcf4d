package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"campusledger/internal/budget"
	"campusledger/internal/config"
	"campusledger/internal/currency"
	"campusledger/internal/database"
	"campusledger/internal/handlers"
	"campusledger/internal/logger"
	"campusledger/internal/middleware"
	"campusledger/internal/notify"
	"campusledger/internal/recurrence"
	"campusledger/internal/store"
	"campusledger/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager; this also applies pending migrations
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	ledger := store.New(dbManager.DB())

	converter, err := currency.NewConverter(ledger)
	if err != nil {
		return fmt.Errorf("failed to load currency table: %w", err)
	}

	// Notifier: AMQP when configured, log-only otherwise
	var notifier notify.Notifier
	if appConfig.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP broker: %w", err)
		}
		notifier = amqpNotifier
	} else {
		log.Info("AMQP_URL not set, events will only be logged")
		notifier = notify.NewLogNotifier()
	}
	defer notifier.Close()

	evaluator := budget.NewEvaluator(converter)

	// Recurrence sweep: immediately on boot, then periodically
	engine := recurrence.NewEngine(ledger, converter, notifier)
	scheduler := recurrence.NewScheduler()
	defer scheduler.Stop()
	scheduler.EnqueueUniquePeriodic("recurring-sweep", appConfig.SweepInterval, func(ctx context.Context, now time.Time) {
		if _, err := engine.RunSweep(ctx, now); err != nil {
			log.Errorw("recurrence sweep failed", "error", err)
		}
	})

	validator.Register()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(ledger)
	userHandler := handlers.NewUserHandler(ledger)
	categoryHandler := handlers.NewCategoryHandler(ledger)
	currencyHandler := handlers.NewCurrencyHandler(ledger, converter)
	transactionHandler := handlers.NewTransactionHandler(ledger, converter)
	budgetHandler := handlers.NewBudgetHandler(ledger, converter, evaluator, notifier)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", userHandler.GetProfile)
	protected.PUT("/profile", userHandler.UpdateProfile)
	protected.DELETE("/profile", userHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)

	// Currency routes
	currencies := protected.Group("/currencies")
	currencies.GET("", currencyHandler.List)
	currencies.GET("/:id", currencyHandler.Get)
	currencies.PUT("/:id", currencyHandler.Update)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.GET("/:id", budgetHandler.Get)
	budgets.PUT("/:id", budgetHandler.Update)
	budgets.DELETE("/:id", budgetHandler.Delete)
	budgets.GET("/:id/progress", budgetHandler.Progress)

	srv := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting campusledger server on port %s", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
