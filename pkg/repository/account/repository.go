package account

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence.
type Repository interface {
	Create(ctx context.Context, a *account.Account) error
	// Update persists balance, password, account type and deletion state.
	// The IBAN is never written after creation.
	Update(ctx context.Context, a *account.Account) error
	// AdjustBalance adds delta to the stored balance of an active account
	// in one statement. A debit that would leave the balance negative
	// changes nothing and fails with domain.ErrInsufficientFunds.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByIBAN(ctx context.Context, iban string, includeDeleted bool) (*account.Account, error)
	// ExistsByIBAN checks every account, deleted ones included.
	ExistsByIBAN(ctx context.Context, iban string) (bool, error)
	// ExistsByAccountType reports whether an active account uses the type.
	ExistsByAccountType(ctx context.Context, accountTypeID uuid.UUID) (bool, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, opts repository.ListOptions) ([]*account.Account, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts repository.ListOptions) ([]*account.Account, error)
}
