package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/khademul4765/arther-hiseb-sub001/internal/config"
	"github.com/khademul4765/arther-hiseb-sub001/internal/database"
	"github.com/khademul4765/arther-hiseb-sub001/internal/handlers"
	"github.com/khademul4765/arther-hiseb-sub001/internal/logger"
	"github.com/khademul4765/arther-hiseb-sub001/internal/middleware"
	"github.com/khademul4765/arther-hiseb-sub001/internal/services"
	"github.com/khademul4765/arther-hiseb-sub001/internal/undo"
	"github.com/khademul4765/arther-hiseb-sub001/internal/validator"

	_ "github.com/khademul4765/arther-hiseb-sub001/internal/docs" // Import swagger docs
)

// @title           Hiseb API
// @version         1.0
// @description     Hiseb is a personal finance tracker: accounts, categorized income/expense entries, transfers between accounts, and printable statements.

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService, appConfig.RebalanceEdits)
	reportService := services.NewReportService(db, accountService)
	auditService := services.NewAuditService(db)

	// Pending deletes commit after the undo window; flush them on exit so
	// nothing requested is lost.
	undoManager := undo.NewManager(appConfig.UndoWindow, undo.NewScheduler())
	defer undoManager.Flush()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService, auditService, undoManager)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService, undoManager)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group, scoped to the calling user
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireUser())

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.POST("/undo", accountHandler.UndoDeleteAccount)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.POST("/undo", transactionHandler.UndoDeleteTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category routes
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Report routes
	reports := v1.Group("/reports")
	reports.GET("/statement", reportHandler.GetStatement)
	reports.GET("/summary", reportHandler.GetSummary)

	log.Infof("Starting Hiseb backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
