package models

// User represents an owner of accounts, categories, and transactions.
// Hiseb has no credential handling; callers identify the user per request
// and every query is scoped by user ID.
type User struct {
	Base
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Name  string `json:"name"`

	Accounts     []Account     `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
