package client

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/google/uuid"
)

// Repository defines client persistence.
type Repository interface {
	Create(ctx context.Context, c *client.Client) error
	Update(ctx context.Context, c *client.Client) error
	// Get retrieves a client by primary key, deleted or not.
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
	GetByPublicID(ctx context.Context, publicID string, includeDeleted bool) (*client.Client, error)
	// GetByUserID retrieves the active client of a user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*client.Client, error)
	// ExistsByDNI matches case-insensitively across every client but excludeID.
	ExistsByDNI(ctx context.Context, dni string, excludeID uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	// ExistsByUserID reports whether the user owns any client, deleted or not.
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts repository.ListOptions) ([]*client.Client, error)
}
