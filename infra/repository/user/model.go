package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PublicID  string    `gorm:"size:26;uniqueIndex;not null"`
	Username  string    `gorm:"size:50;uniqueIndex;not null"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	Role      string    `gorm:"size:16;not null"`
	Avatar    string    `gorm:"size:512"`
	IsDeleted bool      `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
