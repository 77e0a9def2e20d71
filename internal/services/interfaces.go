package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/pagination"
	"github.com/khademul4765/arther-hiseb-sub001/internal/query"
)

// AccountUpdateFields holds optional fields for a partial account update.
// Nil pointers leave the stored value unchanged.
type AccountUpdateFields struct {
	Name        *string
	Type        *models.AccountType
	Description *string
	IsDefault   *bool
}

// AccountServicer defines the contract for account-related business logic.
// It is the only component allowed to mutate account balances.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, description string, initialBalance int64, isDefault bool) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	ListAccounts(userID string) ([]models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	ApplyBalanceChange(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string, isDefault bool, parentID *string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByType(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name, icon, color string, parentID *string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
	Search     string
}

// TransactionPatch holds optional fields for a partial transaction update.
// Nil pointers leave the stored value unchanged; a nil Tags slice leaves
// tags unchanged.
type TransactionPatch struct {
	AccountID  *string
	CategoryID *string
	Type       *models.TransactionType
	Amount     *int64
	Date       *time.Time
	Time       *string
	Person     *string
	Note       *string
	Tags       []string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID string, categoryID *string, transactionType models.TransactionType, amount int64, note string, date time.Time, clock, person string, tags []string) (*models.Transaction, error)
	Transfer(userID, fromAccountID, toAccountID string, amount int64, note string, date time.Time, clock string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// StatementLine is a transaction enriched with resolved account names for
// printable statements. Deleted accounts fall back to the raw ID string.
type StatementLine struct {
	models.Transaction
	AccountName   string `json:"account_name"`
	ToAccountName string `json:"to_account_name,omitempty"`
}

// StatementGroup is one calendar day of statement lines with subtotals.
type StatementGroup struct {
	Date   time.Time       `json:"date"`
	Totals query.Totals    `json:"totals"`
	Lines  []StatementLine `json:"lines"`
}

// Statement is a grouped, printable view of a user's transactions.
type Statement struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Groups      []StatementGroup `json:"groups"`
	Totals      query.Totals     `json:"totals"`
}

// Summary aggregates balances and income/expense totals for a user.
type Summary struct {
	TotalBalance int64            `json:"total_balance"`
	Totals       query.Totals     `json:"totals"`
	Accounts     []models.Account `json:"accounts"`
}

// ReportServicer derives statements and summaries for presentation.
type ReportServicer interface {
	GetStatement(userID string, filter query.Filter) (*Statement, error)
	GetSummary(userID string) (*Summary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
