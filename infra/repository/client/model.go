package client

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a client record in the database.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PublicID  string    `gorm:"size:26;uniqueIndex;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	DNI       string    `gorm:"column:dni;size:9;uniqueIndex;not null"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Name      string    `gorm:"size:100;not null"`
	Surname   string    `gorm:"size:100;not null"`
	Phone     string    `gorm:"size:32"`
	Address   string    `gorm:"size:255"`
	IsDeleted bool      `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Client model.
func (Client) TableName() string {
	return "clients"
}
