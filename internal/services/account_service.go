package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user. When isDefault is set,
// the default flag is first cleared on every other account of the same
// user so that at most one default exists at any time.
func (s *accountService) CreateAccount(userID, name string, accountType models.AccountType, description string, initialBalance int64, isDefault bool) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	switch accountType {
	case models.AccountTypeCash, models.AccountTypeBank, models.AccountTypeMFS:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account type must be cash, bank, or mfs")
	}

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		Type:        accountType,
		Description: description,
		Balance:     initialBalance,
		IsDefault:   isDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if isDefault {
			if err := clearDefaultAccount(tx, userID); err != nil {
				return err
			}
		}
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListAccounts retrieves every account of a user, unpaginated. Used by
// report derivations that need the full set.
func (s *accountService) ListAccounts(userID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount applies a partial update. Unset fields keep their stored
// values. Assigning the default flag clears it on every other account of
// the user inside the same transaction.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		if *fields.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
		}
		updates["name"] = *fields.Name
	}
	if fields.Type != nil {
		switch *fields.Type {
		case models.AccountTypeCash, models.AccountTypeBank, models.AccountTypeMFS:
			updates["type"] = *fields.Type
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account type must be cash, bank, or mfs")
		}
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.IsDefault != nil {
		updates["is_default"] = *fields.IsDefault
	}

	if len(updates) == 0 {
		return account, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if fields.IsDefault != nil && *fields.IsDefault {
			if err := clearDefaultAccount(tx, userID); err != nil {
				return err
			}
		}
		if err := tx.Model(account).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload to get fresh data
	if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// DeleteAccount soft-deletes an account. Its transactions are NOT
// cascade-deleted: they keep the dangling account_id, and read sites fall
// back to the raw ID string when resolution fails.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ApplyBalanceChange applies a transaction's effect to an account balance:
// income adds, expense subtracts. No overdraft check happens here; a plain
// expense may push the balance below zero.
func (s *accountService) ApplyBalanceChange(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error {
	switch transactionType {
	case models.TransactionTypeIncome:
		account.Balance += amount
	case models.TransactionTypeExpense:
		account.Balance -= amount
	default:
		return apperrors.ErrInvalidTransactionType
	}

	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// clearDefaultAccount removes the default flag from all of a user's accounts.
func clearDefaultAccount(tx *gorm.DB, userID string) error {
	if err := tx.Model(&models.Account{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
