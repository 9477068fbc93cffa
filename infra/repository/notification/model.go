package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification represents a notification record in the database.
type Notification struct {
	ID        uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	PublicID  string                                `gorm:"size:26;uniqueIndex;not null"`
	UserID    uuid.UUID                             `gorm:"type:uuid;index;not null"`
	Type      string                                `gorm:"size:32;not null"`
	Message   string                                `gorm:"not null"`
	Metadata  datatypes.JSONType[map[string]string] `gorm:"not null"`
	CreatedAt time.Time                             `gorm:"index"`
}

// TableName specifies the table name for the Notification model.
func (Notification) TableName() string {
	return "notifications"
}
