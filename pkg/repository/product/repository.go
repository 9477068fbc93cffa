package product

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/google/uuid"
)

// Repository defines catalog persistence for one kind of entry.
type Repository[T any] interface {
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	GetByPublicID(ctx context.Context, publicID string, includeDeleted bool) (*T, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string, includeDeleted bool) (*T, error)
	// ExistsByName checks every entry, deleted ones included, but excludeID.
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts repository.ListOptions) ([]*T, error)
}

// ProductRepository persists generic products.
type ProductRepository interface {
	Repository[product.Product]
}

// AccountTypeRepository persists account types.
type AccountTypeRepository interface {
	Repository[product.AccountType]
}

// CardTypeRepository persists card types.
type CardTypeRepository interface {
	Repository[product.CardType]
}
