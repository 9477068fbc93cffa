package movement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement represents a movement record in the database.
type Movement struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PublicID        string          `gorm:"size:26;uniqueIndex;not null"`
	Type            string          `gorm:"size:16;not null"`
	AccountID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	DestinationIBAN string          `gorm:"column:destination_iban;size:34;index"`
	Amount          decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CardID          *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time       `gorm:"index"`
}

// TableName specifies the table name for the Movement model.
func (Movement) TableName() string {
	return "movements"
}
