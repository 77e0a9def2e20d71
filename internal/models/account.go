package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCash AccountType = "cash"
	AccountTypeBank AccountType = "bank"
	// AccountTypeMFS is a mobile financial service wallet (bKash, Nagad, etc.)
	AccountTypeMFS AccountType = "mfs"
)

// Account represents a financial account in the system.
// Balance is stored in minor currency units. At most one account per user
// may have IsDefault set; the account service enforces this on every
// default assignment.
type Account struct {
	Base
	UserID      string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string      `gorm:"not null" json:"name"`
	Type        AccountType `gorm:"not null" json:"type"`
	Description string      `json:"description"`
	Balance     int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	IsDefault   bool        `gorm:"not null;default:false" json:"is_default"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
