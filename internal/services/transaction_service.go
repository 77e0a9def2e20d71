package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer

	// rebalanceEdits controls whether UpdateTransaction and
	// DeleteTransaction re-apply balance deltas. The legacy behavior
	// (false) leaves balances untouched on edit and delete, which
	// desynchronizes them from the transaction history.
	rebalanceEdits bool
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, rebalanceEdits bool) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
		rebalanceEdits: rebalanceEdits,
	}
}

// CreateTransaction creates an income or expense transaction and applies
// its effect to the account balance. There is no overdraft check: an
// expense may push the balance below zero. Transfers must go through
// Transfer.
func (s *transactionService) CreateTransaction(userID, accountID string, categoryID *string, transactionType models.TransactionType, amount int64, note string, date time.Time, clock, person string, tags []string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if accountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}

	switch transactionType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	case models.TransactionTypeTransfer:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransactionType, "transfers must use the transfer operation")
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if date.IsZero() {
		date = time.Now()
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	transaction := &models.Transaction{
		UserID:     userID,
		AccountID:  account.ID,
		CategoryID: categoryID,
		Type:       transactionType,
		Amount:     amount,
		Date:       date,
		Time:       clock,
		Person:     person,
		Note:       note,
		Tags:       tags,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.ApplyBalanceChange(tx, account, transactionType, amount)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// Transfer moves funds between two accounts of the same user. Unlike a
// plain expense, overdraft IS enforced here. The transfer is recorded as
// a single record holding both endpoints; the destination-side effect is
// implicit and recovered by resolving to_account_id at read time.
func (s *transactionService) Transfer(userID, fromAccountID, toAccountID string, amount int64, note string, date time.Time, clock string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}

	from, err := s.accountService.GetAccountByID(userID, fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountService.GetAccountByID(userID, toAccountID)
	if err != nil {
		return nil, err
	}

	if amount > from.Balance {
		return nil, apperrors.ErrInsufficientBalance
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   from.ID,
		ToAccountID: &to.ID,
		Type:        models.TransactionTypeTransfer,
		Amount:      amount,
		Date:        date,
		Time:        clock,
		Note:        note,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		from.Balance -= amount
		if err := tx.Model(from).Update("balance", from.Balance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		to.Balance += amount
		if err := tx.Model(to).Update("balance", to.Balance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of all
// transactions for a user, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	return s.listTransactions(page, applyTransactionFilters(base, filter))
}

// GetAccountTransactions retrieves a paginated, filtered list of
// transactions touching a specific account, including transfers into it.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// Verify the account belongs to the user before listing.
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	base := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND (account_id = ? OR to_account_id = ?)", userID, accountID, accountID)
	return s.listTransactions(page, applyTransactionFilters(base, filter))
}

func (s *transactionService) listTransactions(page pagination.PageRequest, base *gorm.DB) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, time DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	// Date bounds are inclusive by calendar day, matching the in-memory
	// query layer: a bare to_date covers that day's timestamped records.
	if f.FromDate != nil {
		q = q.Where("date >= ?", startOfDay(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date < ?", startOfDay(*f.ToDate).AddDate(0, 0, 1))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		// Transfers carry no user category and never match a category filter.
		q = q.Where("type <> ? AND category_id = ?", models.TransactionTypeTransfer, *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ? OR to_account_id = ?", *f.AccountID, *f.AccountID)
	}
	if f.Search != "" {
		// Case-insensitive over note, person, and the serialized tags,
		// same fields the in-memory search covers.
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(note) LIKE ? OR LOWER(person) LIKE ? OR LOWER(tags) LIKE ?", pattern, pattern, pattern)
	}
	return q
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update to an income or expense
// record. Transfers are not editable. By default the stored fields are
// mutated without compensating account balances, so editing an amount
// desynchronizes the balance from the history; with rebalanceEdits set,
// the old effect is reversed and the new one applied atomically.
func (s *transactionService) UpdateTransaction(userID, transactionID string, patch TransactionPatch) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.IsTransfer() {
		return nil, apperrors.ErrTransactionNotEditable
	}
	if patch.Type != nil {
		switch *patch.Type {
		case models.TransactionTypeIncome, models.TransactionTypeExpense:
		case models.TransactionTypeTransfer:
			return nil, apperrors.ErrInvalidTypeChange
		default:
			return nil, apperrors.ErrInvalidTransactionType
		}
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	newAccountID := transaction.AccountID
	if patch.AccountID != nil {
		newAccountID = *patch.AccountID
	}
	var newAccount *models.Account
	if patch.AccountID != nil || s.rebalanceEdits {
		newAccount, err = s.accountService.GetAccountByID(userID, newAccountID)
		if err != nil {
			return nil, err
		}
	}

	if patch.CategoryID != nil && *patch.CategoryID != "" {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *patch.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	oldType := transaction.Type
	oldAmount := transaction.Amount
	oldAccountID := transaction.AccountID

	updates := make(map[string]interface{})
	if patch.AccountID != nil {
		updates["account_id"] = *patch.AccountID
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.Time != nil {
		updates["time"] = *patch.Time
	}
	if patch.Person != nil {
		updates["person"] = *patch.Person
	}
	if patch.Note != nil {
		updates["note"] = *patch.Note
	}
	if patch.Tags != nil {
		updates["tags"] = patch.Tags
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !s.rebalanceEdits {
			return nil
		}

		// Reverse the old effect on the old account, then apply the new
		// effect on the (possibly different) new account.
		oldAccount := newAccount
		if oldAccountID != newAccountID {
			var lookupErr error
			oldAccount, lookupErr = accountInTx(tx, userID, oldAccountID)
			if lookupErr != nil {
				return lookupErr
			}
			if oldAccount == nil {
				return apperrors.ErrAccountNotFound
			}
		}
		if err := s.accountService.ApplyBalanceChange(tx, oldAccount, reverseOf(oldType), oldAmount); err != nil {
			return err
		}

		newType := oldType
		if patch.Type != nil {
			newType = *patch.Type
		}
		newAmount := oldAmount
		if patch.Amount != nil {
			newAmount = *patch.Amount
		}
		return s.accountService.ApplyBalanceChange(tx, newAccount, newType, newAmount)
	})
	if err != nil {
		return nil, err
	}

	// Reload to get fresh data
	if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DeleteTransaction soft-deletes a transaction record. By default the
// prior balance effect is NOT reversed (same desynchronization as
// UpdateTransaction); with rebalanceEdits set, the effect is undone in
// the same database transaction, transfers included.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !s.rebalanceEdits {
			return nil
		}

		if transaction.IsTransfer() {
			return reverseTransfer(tx, userID, transaction)
		}

		account, err := accountInTx(tx, userID, transaction.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			// The account may have been deleted out from under its
			// transactions; nothing left to rebalance.
			return nil
		}
		return s.accountService.ApplyBalanceChange(tx, account, reverseOf(transaction.Type), transaction.Amount)
	})
}

// reverseTransfer puts the transferred amount back on the source account
// and removes it from the destination. Deleted endpoints are skipped;
// any other failure aborts the enclosing transaction.
func reverseTransfer(tx *gorm.DB, userID string, transaction *models.Transaction) error {
	if err := adjustBalance(tx, userID, transaction.AccountID, transaction.Amount); err != nil {
		return err
	}
	if transaction.ToAccountID == nil {
		return nil
	}
	return adjustBalance(tx, userID, *transaction.ToAccountID, -transaction.Amount)
}

// adjustBalance adds delta to an account's balance inside tx. A missing
// account is a no-op since transactions outlive their accounts.
func adjustBalance(tx *gorm.DB, userID, accountID string, delta int64) error {
	account, err := accountInTx(tx, userID, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}
	if err := tx.Model(account).Update("balance", account.Balance+delta).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// accountInTx reads an account through the enclosing transaction so the
// lookup cannot deadlock against locks tx already holds. Returns (nil,
// nil) when the account does not exist.
func accountInTx(tx *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

func reverseOf(t models.TransactionType) models.TransactionType {
	if t == models.TransactionTypeIncome {
		return models.TransactionTypeExpense
	}
	return models.TransactionTypeIncome
}
