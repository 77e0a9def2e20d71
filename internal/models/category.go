package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// ReservedTransferCategory is the display name reserved for transfer
// records. User categories may not take this name, and it never appears
// in income/expense category listings.
const ReservedTransferCategory = "Transfer"

// Category represents a transaction category. Names are unique per
// user and type.
type Category struct {
	Base
	UserID    string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string       `gorm:"not null" json:"name"`
	Type      CategoryType `gorm:"not null" json:"type"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
	ParentID  *string      `gorm:"type:uuid" json:"parent_id,omitempty"`

	// Relationships
	Parent       *Category     `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children     []Category    `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
