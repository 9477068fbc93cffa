// Package product manages the bank catalog: generic products, account
// types and card types share one generic service.
package product

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	cardrepo "github.com/amirasaad/backoffice/pkg/repository/card"
	productrepo "github.com/amirasaad/backoffice/pkg/repository/product"
	"github.com/google/uuid"
)

// Entry is satisfied by pointers to every catalog type.
type Entry[T any] interface {
	*T
	Entry() *product.Item
	Update(product.Details) error
}

// Catalog provides CRUD for one kind of catalog entry. Writes are
// restricted to admins by the web layer.
type Catalog[T any, P Entry[T]] struct {
	uow      repository.UnitOfWork
	logger   *slog.Logger
	kind     product.Kind
	notFound error
	create   func(product.Details) (P, error)
	toRead   func(P) *dto.CatalogRead
	repo     func(repository.UnitOfWork) (productrepo.Repository[T], error)
	inUse    func(context.Context, repository.UnitOfWork, uuid.UUID) (bool, error)
}

// NewProducts returns the generic product catalog.
func NewProducts(uow repository.UnitOfWork, logger *slog.Logger) *Catalog[product.Product, *product.Product] {
	return &Catalog[product.Product, *product.Product]{
		uow:      uow,
		logger:   logger.With("catalog", product.KindProduct),
		kind:     product.KindProduct,
		notFound: product.ErrProductNotFound,
		create:   product.NewProduct,
		toRead:   mapper.MapProductToRead,
		repo: func(u repository.UnitOfWork) (productrepo.Repository[product.Product], error) {
			r, err := repository.Get[productrepo.ProductRepository](u)
			return r, err
		},
	}
}

// NewAccountTypes returns the account type catalog. Types used by active
// accounts cannot be deleted.
func NewAccountTypes(uow repository.UnitOfWork, logger *slog.Logger) *Catalog[product.AccountType, *product.AccountType] {
	return &Catalog[product.AccountType, *product.AccountType]{
		uow:      uow,
		logger:   logger.With("catalog", product.KindAccountType),
		kind:     product.KindAccountType,
		notFound: product.ErrAccountTypeNotFound,
		create:   product.NewAccountType,
		toRead:   mapper.MapAccountTypeToRead,
		repo: func(u repository.UnitOfWork) (productrepo.Repository[product.AccountType], error) {
			r, err := repository.Get[productrepo.AccountTypeRepository](u)
			return r, err
		},
		inUse: func(ctx context.Context, u repository.UnitOfWork, id uuid.UUID) (bool, error) {
			accounts, err := repository.Get[accountrepo.Repository](u)
			if err != nil {
				return false, err
			}
			return accounts.ExistsByAccountType(ctx, id)
		},
	}
}

// NewCardTypes returns the card type catalog. Types carried by active
// cards cannot be deleted.
func NewCardTypes(uow repository.UnitOfWork, logger *slog.Logger) *Catalog[product.CardType, *product.CardType] {
	return &Catalog[product.CardType, *product.CardType]{
		uow:      uow,
		logger:   logger.With("catalog", product.KindCardType),
		kind:     product.KindCardType,
		notFound: product.ErrCardTypeNotFound,
		create:   product.NewCardType,
		toRead:   mapper.MapCardTypeToRead,
		repo: func(u repository.UnitOfWork) (productrepo.Repository[product.CardType], error) {
			r, err := repository.Get[productrepo.CardTypeRepository](u)
			return r, err
		},
		inUse: func(ctx context.Context, u repository.UnitOfWork, id uuid.UUID) (bool, error) {
			cards, err := repository.Get[cardrepo.Repository](u)
			if err != nil {
				return false, err
			}
			return cards.ExistsActiveByCardType(ctx, id)
		},
	}
}

// Kind names the catalog.
func (c *Catalog[T, P]) Kind() product.Kind { return c.kind }

// Create adds an entry. Names are unique case-insensitively, deleted
// entries included.
func (c *Catalog[T, P]) Create(ctx context.Context, d product.Details) (out *dto.CatalogRead, err error) {
	entry, err := c.create(d)
	if err != nil {
		return nil, err
	}
	err = c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := c.repo(uow)
		if err != nil {
			return err
		}
		if err := c.checkName(ctx, repo, entry); err != nil {
			return err
		}
		if err := repo.Create(ctx, (*T)(entry)); err != nil {
			return err
		}
		out = c.toRead(entry)
		return nil
	})
	if err != nil {
		c.logger.Warn("Create failed", "name", d.Name, "error", err)
		return nil, err
	}
	c.logger.Info("Catalog entry created", "id", entry.Entry().PublicID, "name", entry.Entry().Name)
	return out, nil
}

func (c *Catalog[T, P]) checkName(ctx context.Context, repo productrepo.Repository[T], entry P) error {
	item := entry.Entry()
	taken, err := repo.ExistsByName(ctx, item.Name, item.ID)
	if err != nil {
		return err
	}
	if taken {
		return product.ErrNameTaken
	}
	return nil
}

// Get returns an entry by public id.
func (c *Catalog[T, P]) Get(ctx context.Context, publicID string, includeDeleted bool) (out *dto.CatalogRead, err error) {
	err = c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := c.repo(uow)
		if err != nil {
			return err
		}
		entry, err := repo.GetByPublicID(ctx, publicID, includeDeleted)
		if err != nil {
			return c.mapNotFound(err)
		}
		out = c.toRead(P(entry))
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// Resolve finds an active entry by name, ignoring case. It runs inside
// the caller's unit of work.
func (c *Catalog[T, P]) Resolve(ctx context.Context, uow repository.UnitOfWork, name string) (P, error) {
	repo, err := c.repo(uow)
	if err != nil {
		return nil, err
	}
	entry, err := repo.GetByName(ctx, name, false)
	if err != nil {
		return nil, c.mapNotFound(err)
	}
	return P(entry), nil
}

// List returns entries ordered by creation time.
func (c *Catalog[T, P]) List(ctx context.Context, opts repository.ListOptions) (out []*dto.CatalogRead, err error) {
	err = c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := c.repo(uow)
		if err != nil {
			return err
		}
		entries, err := repo.List(ctx, opts)
		if err != nil {
			return err
		}
		out = make([]*dto.CatalogRead, 0, len(entries))
		for _, e := range entries {
			out = append(out, c.toRead(P(e)))
		}
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// Update replaces the entry's details.
func (c *Catalog[T, P]) Update(ctx context.Context, publicID string, d product.Details) (out *dto.CatalogRead, err error) {
	err = c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := c.repo(uow)
		if err != nil {
			return err
		}
		e, err := repo.GetByPublicID(ctx, publicID, false)
		if err != nil {
			return c.mapNotFound(err)
		}
		entry := P(e)
		if err := entry.Update(d); err != nil {
			return err
		}
		if err := c.checkName(ctx, repo, entry); err != nil {
			return err
		}
		if err := repo.Update(ctx, e); err != nil {
			return err
		}
		out = c.toRead(entry)
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// Delete soft deletes the entry.
func (c *Catalog[T, P]) Delete(ctx context.Context, publicID string) error {
	err := c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := c.repo(uow)
		if err != nil {
			return err
		}
		e, err := repo.GetByPublicID(ctx, publicID, false)
		if err != nil {
			return c.mapNotFound(err)
		}
		id := P(e).Entry().ID
		if c.inUse != nil {
			used, err := c.inUse(ctx, uow, id)
			if err != nil {
				return err
			}
			if used {
				return product.ErrInUse
			}
		}
		return repo.SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}
	c.logger.Info("Catalog entry deleted", "id", publicID)
	return nil
}

func (c *Catalog[T, P]) mapNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.notFound
	}
	return err
}
