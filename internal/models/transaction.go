package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a financial transaction in the system.
// Amount is stored in minor currency units and is always positive; the
// type decides the sign of the balance effect. A transfer is recorded as
// a single record: AccountID is the source and ToAccountID the
// destination, so the effect on the destination account is recovered by
// resolving ToAccountID at read time.
type Transaction struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID  string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Type       TransactionType `gorm:"not null" json:"type"`
	Amount     int64           `gorm:"type:bigint;not null" json:"amount"`
	Date       time.Time       `gorm:"not null" json:"date"`
	Time       string          `gorm:"size:5" json:"time"` // "HH:MM", may be empty
	Person     string          `json:"person,omitempty"`
	Note       string          `json:"note"`
	Tags       []string        `gorm:"serializer:json" json:"tags,omitempty"`

	// Set iff Type == TransactionTypeTransfer
	ToAccountID *string `gorm:"type:uuid" json:"to_account_id,omitempty"`

	// Relationships
	Account   Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount *Account  `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// IsTransfer reports whether the transaction moves funds between two accounts.
func (t *Transaction) IsTransfer() bool {
	return t.Type == TransactionTypeTransfer
}
