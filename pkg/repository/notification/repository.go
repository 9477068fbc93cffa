package notification

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/google/uuid"
)

// Repository defines notification persistence. Notifications are immutable.
type Repository interface {
	Create(ctx context.Context, n *notification.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*notification.Notification, error)
}
