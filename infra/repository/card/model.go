package card

import (
	"time"

	"github.com/google/uuid"
)

// Card represents a card record in the database.
type Card struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PublicID   string    `gorm:"size:26;uniqueIndex;not null"`
	CardNumber string    `gorm:"size:19;uniqueIndex;not null"`
	Pin        string    `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	AccountID  uuid.UUID `gorm:"type:uuid;index;not null"`
	CardTypeID uuid.UUID `gorm:"type:uuid;index;not null"`
	IsDeleted  bool      `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the Card model.
func (Card) TableName() string {
	return "cards"
}
