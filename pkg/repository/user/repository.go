package user

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/google/uuid"
)

// Repository defines user persistence. Lookups that return
// domain.ErrNotFound never wrap a nil user.
type Repository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *user.User) error

	// Update persists every mutable field of u.
	Update(ctx context.Context, u *user.User) error

	// Get retrieves a user by primary key, deleted or not.
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)

	// GetByPublicID retrieves a user by public id.
	GetByPublicID(ctx context.Context, publicID string, includeDeleted bool) (*user.User, error)

	// GetByUsername retrieves an active user, ignoring case.
	GetByUsername(ctx context.Context, username string) (*user.User, error)

	// GetByEmail retrieves an active user by email.
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// ExistsByUsername checks every user, deleted ones included, other
	// than excludeID for a case-insensitive username match.
	ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)

	// ExistsByEmail checks every user other than excludeID for the email.
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)

	// SoftDelete flags the user as deleted.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns users ordered by creation time.
	List(ctx context.Context, opts repository.ListOptions) ([]*user.User, error)
}
