package notifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/notifier"
)

// Memory keeps sent notifications in process. It is the default
// transport in development and tests.
type Memory struct {
	mu     sync.Mutex
	sent   []*notification.Notification
	logger *slog.Logger
}

var _ notifier.Sender = (*Memory)(nil)

func NewMemory(logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{logger: logger.With("notifier", "memory")}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Send(_ context.Context, n *notification.Notification) error {
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()
	m.logger.Debug("Notification sent", "type", n.Type, "id", n.PublicID)
	return nil
}

// Sent returns a snapshot of everything delivered so far.
func (m *Memory) Sent() []*notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*notification.Notification, len(m.sent))
	copy(out, m.sent)
	return out
}
