package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/khademul4765/arther-hiseb-sub001/internal/handlers"
	"github.com/khademul4765/arther-hiseb-sub001/internal/logger"
	"github.com/khademul4765/arther-hiseb-sub001/internal/middleware"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/services"
	"github.com/khademul4765/arther-hiseb-sub001/internal/undo"
	"github.com/khademul4765/arther-hiseb-sub001/internal/validator"
)

// manualScheduler lets tests expire pending deletes explicitly instead of
// sleeping through the real undo window.
type manualTimer struct {
	mu      sync.Mutex
	stopped bool
	fn      func()
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

func (t *manualTimer) fire() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if !stopped {
		t.fn()
	}
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) undo.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{fn: f}
	s.timers = append(s.timers, t)
	return t
}

// fireAll expires every armed timer, committing pending deletes.
func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	timers := make([]*manualTimer, len(s.timers))
	copy(timers, s.timers)
	s.mu.Unlock()
	for _, t := range timers {
		t.fire()
	}
}

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB    *gorm.DB
	Sched *manualScheduler

	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithRebalance(t, false)
}

func setupAppWithRebalance(t *testing.T, rebalanceEdits bool) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	sched := &manualScheduler{}

	// Services
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService, rebalanceEdits)
	reportService := services.NewReportService(db, accountService)
	auditService := services.NewAuditService(db)
	undoManager := undo.NewManager(5*time.Second, sched)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService, auditService, undoManager)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService, undoManager)
	reportHandler := handlers.NewReportHandler(reportService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireUser())

	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.POST("/undo", accountHandler.UndoDeleteAccount)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.POST("/undo", transactionHandler.UndoDeleteTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	reports := v1.Group("/reports")
	reports.GET("/statement", reportHandler.GetStatement)
	reports.GET("/summary", reportHandler.GetSummary)

	return &testApp{DB: db, Sched: sched, Router: router}
}

// request makes an HTTP request to the test router, scoped to userID via header.
func (app *testApp) request(method, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createUser inserts a user row and returns its ID for the scoping header.
func (app *testApp) createUser(t *testing.T, email string) string {
	t.Helper()
	user := &models.User{Email: email, Name: "Test User"}
	if err := app.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user.ID
}

// createAccount creates an account over HTTP and returns its ID.
func (app *testApp) createAccount(t *testing.T, userID, name string, balance int64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":"cash","initial_balance":%d}`, name, balance)
	rec := app.request("POST", "/api/v1/accounts", body, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	return account["id"].(string)
}

// accountBalance fetches an account over HTTP and returns its balance.
func (app *testApp) accountBalance(t *testing.T, userID, accountID string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/accounts/"+accountID, "", userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	return account["balance"].(float64)
}
