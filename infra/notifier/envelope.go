package notifier

import (
	"encoding/json"
	"time"

	"github.com/amirasaad/backoffice/pkg/domain/notification"
)

// envelope is the wire form shared by the stream and topic transports.
type envelope struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func marshalEnvelope(n *notification.Notification) ([]byte, error) {
	return json.Marshal(envelope{
		ID:        n.PublicID,
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	})
}
