// Package access resolves ownership of accounts for the services that
// act on them. Every helper runs inside the caller's unit of work.
package access

import (
	"context"
	"errors"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	clientrepo "github.com/amirasaad/backoffice/pkg/repository/client"
	"github.com/google/uuid"
)

// Account loads an account by IBAN and checks the actor may use it.
// Deleted accounts are only visible to admins asking for them.
func Account(
	ctx context.Context,
	uow repository.UnitOfWork,
	actor user.Actor,
	iban string,
	includeDeleted bool,
) (*account.Account, *client.Client, error) {
	repo, err := repository.Get[accountrepo.Repository](uow)
	if err != nil {
		return nil, nil, err
	}
	acc, err := repo.GetByIBAN(ctx, account.NormalizeIBAN(iban), includeDeleted && actor.IsAdmin())
	if err != nil {
		return nil, nil, AccountNotFound(err)
	}
	owner, err := Owner(ctx, uow, acc.ClientID)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(owner.UserID) {
		return nil, nil, domain.ErrForbidden
	}
	return acc, owner, nil
}

// Owner loads the client owning an account, deleted or not.
func Owner(ctx context.Context, uow repository.UnitOfWork, clientID uuid.UUID) (*client.Client, error) {
	repo, err := repository.Get[clientrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	c, err := repo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, client.ErrClientNotFound
		}
		return nil, err
	}
	return c, nil
}

// ClientOf returns the active client of the actor's user.
func ClientOf(ctx context.Context, uow repository.UnitOfWork, actor user.Actor) (*client.Client, error) {
	repo, err := repository.Get[clientrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	c, err := repo.GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, client.ErrClientNotFound
		}
		return nil, err
	}
	return c, nil
}

// OwnedAccounts lists every account of the actor's client, deleted
// ones included so their history stays visible. A user without a
// client owns nothing.
func OwnedAccounts(ctx context.Context, uow repository.UnitOfWork, actor user.Actor) ([]*account.Account, error) {
	c, err := ClientOf(ctx, uow, actor)
	if errors.Is(err, client.ErrClientNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	repo, err := repository.Get[accountrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	return repo.ListByClient(ctx, c.ID, repository.ListOptions{PageSize: repository.MaxPageSize, IncludeDeleted: true})
}

// AccountNotFound maps a repository miss to account.ErrAccountNotFound.
func AccountNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return account.ErrAccountNotFound
	}
	return err
}

// Backing loads the account behind a card, deleted or not, and checks
// the actor owns it.
func Backing(ctx context.Context, uow repository.UnitOfWork, actor user.Actor, c *card.Card) (*account.Account, error) {
	repo, err := repository.Get[accountrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	acc, err := repo.Get(ctx, c.AccountID)
	if err != nil {
		return nil, AccountNotFound(err)
	}
	owner, err := Owner(ctx, uow, acc.ClientID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(owner.UserID) {
		return nil, domain.ErrForbidden
	}
	return acc, nil
}
