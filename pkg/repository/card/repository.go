package card

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/google/uuid"
)

// Repository defines card persistence.
type Repository interface {
	Create(ctx context.Context, c *card.Card) error
	Update(ctx context.Context, c *card.Card) error
	Get(ctx context.Context, id uuid.UUID) (*card.Card, error)
	GetByPublicID(ctx context.Context, publicID string, includeDeleted bool) (*card.Card, error)
	// ExistsByCardNumber checks every card, deleted ones included.
	ExistsByCardNumber(ctx context.Context, number string) (bool, error)
	// ExistsActiveByAccount reports whether another active card uses the account.
	ExistsActiveByAccount(ctx context.Context, accountID, excludeID uuid.UUID) (bool, error)
	// ExistsActiveByCardType reports whether any active card has the type.
	ExistsActiveByCardType(ctx context.Context, cardTypeID uuid.UUID) (bool, error)
	ListByAccounts(ctx context.Context, accountIDs []uuid.UUID, opts repository.ListOptions) ([]*card.Card, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts repository.ListOptions) ([]*card.Card, error)
}
