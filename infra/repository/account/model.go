package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents an account record in the database.
type Account struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PublicID      string          `gorm:"size:26;uniqueIndex;not null"`
	IBAN          string          `gorm:"column:iban;size:34;uniqueIndex;not null"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Password      string          `gorm:"not null"`
	ClientID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	AccountTypeID uuid.UUID       `gorm:"type:uuid;index;not null"`
	IsDeleted     bool            `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
