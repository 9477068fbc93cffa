// Package notifier defines the outbound notification transport.
package notifier

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/notification"
)

// Sender delivers notifications to an external transport.
type Sender interface {
	Send(ctx context.Context, n *notification.Notification) error
	Name() string
}
