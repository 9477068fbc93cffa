package movement

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/movement"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/google/uuid"
)

// Repository defines movement persistence. Movements are append-only.
type Repository interface {
	Create(ctx context.Context, m *movement.Movement) error
	GetByPublicID(ctx context.Context, publicID string) (*movement.Movement, error)
	// ListByAccounts returns movements whose source is one of accountIDs
	// or whose destination is one of ibans, newest first.
	ListByAccounts(ctx context.Context, accountIDs []uuid.UUID, ibans []string, opts repository.ListOptions) ([]*movement.Movement, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*movement.Movement, error)
}
