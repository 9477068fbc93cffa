package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item holds the columns shared by every catalog table.
type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PublicID    string    `gorm:"size:26;uniqueIndex;not null"`
	Name        string    `gorm:"size:50;uniqueIndex;not null"`
	Description string    `gorm:"size:255"`
	IsDeleted   bool      `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product represents a product record in the database.
type Product struct {
	Item `gorm:"embedded"`
}

// TableName specifies the table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// AccountType represents an account type record in the database.
type AccountType struct {
	Item     `gorm:"embedded"`
	Interest decimal.Decimal `gorm:"type:numeric(7,4);not null"`
}

// TableName specifies the table name for the AccountType model.
func (AccountType) TableName() string {
	return "account_types"
}

// CardType represents a card type record in the database.
type CardType struct {
	Item `gorm:"embedded"`
}

// TableName specifies the table name for the CardType model.
func (CardType) TableName() string {
	return "card_types"
}
