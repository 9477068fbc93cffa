package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/google/uuid"
)

// ErrDeliveryFailed is returned when the transport rejects a notification.
var ErrDeliveryFailed = fmt.Errorf("notification delivery: %w", domain.ErrServiceUnavailable)

// Type identifies the domain event a notification reports.
type Type string

const (
	TypeAccountCreated  Type = "ACCOUNT_CREATED"
	TypeCardIssued      Type = "CARD_ISSUED"
	TypeMovementCreated Type = "MOVEMENT_CREATED"
	TypeTransferIn      Type = "TRANSFER_RECEIVED"
)

// Notification is an immutable message addressed to a user.
type Notification struct {
	common.Identity
	UserID    uuid.UUID
	Type      Type
	Message   string
	Metadata  map[string]string
	CreatedAt time.Time
}

// New builds a notification with a fresh identity and the current time.
func New(userID uuid.UUID, t Type, message string, metadata map[string]string) (*Notification, error) {
	v := &domain.ValidationError{}
	v.Check(userID != uuid.Nil, "recipient", "must reference a user")
	v.Check(t != "", "type", "must not be blank")
	v.Check(!common.IsBlank(message), "message", "must not be blank")
	if err := v.Err(); err != nil {
		return nil, err
	}
	md := make(map[string]string, len(metadata))
	for k, val := range metadata {
		md[k] = val
	}
	return &Notification{
		Identity:  common.NewIdentity(),
		UserID:    userID,
		Type:      t,
		Message:   strings.TrimSpace(message),
		Metadata:  md,
		CreatedAt: common.Now(),
	}, nil
}
