// Package card issues and manages payment cards.
package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	cardrepo "github.com/amirasaad/backoffice/pkg/repository/card"
	productrepo "github.com/amirasaad/backoffice/pkg/repository/product"
	"github.com/amirasaad/backoffice/pkg/service/access"
	notificationsvc "github.com/amirasaad/backoffice/pkg/service/notification"
	productsvc "github.com/amirasaad/backoffice/pkg/service/product"
	"github.com/google/uuid"
)

const maxNumberAttempts = 5

// IssueInput holds the fields of a new card.
type IssueInput struct {
	IBAN     string
	CardType string
	Pin      string
	// CardNumber is generated when empty.
	CardNumber string
}

// UpdateInput carries optional changes. Nil fields are left unchanged.
type UpdateInput struct {
	CardType *string
	Pin      *string
}

type Service struct {
	uow           repository.UnitOfWork
	cardTypes     *productsvc.Catalog[product.CardType, *product.CardType]
	notifications *notificationsvc.Service
	logger        *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	cardTypes *productsvc.Catalog[product.CardType, *product.CardType],
	notifications *notificationsvc.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:           uow,
		cardTypes:     cardTypes,
		notifications: notifications,
		logger:        logger,
	}
}

func (in IssueInput) validate() error {
	v := &domain.ValidationError{}
	v.Check(account.ValidIBAN(account.NormalizeIBAN(in.IBAN)), "iban", "must be a valid IBAN")
	v.Check(!common.IsBlank(in.CardType), "cardType", "must not be blank")
	v.Check(len(in.Pin) == 4, "pin", "must be exactly 4 digits")
	if in.CardNumber != "" {
		v.Check(card.ValidNumber(card.NormalizeNumber(in.CardNumber)), "cardNumber", "must be a valid card number")
	}
	return v.Err()
}

// Issue creates a card on an active account the actor owns. The account
// must not already back an active card.
func (s *Service) Issue(
	ctx context.Context,
	actor user.Actor,
	in IssueInput,
) (out *dto.CardRead, err error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var ownerID uuid.UUID
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[cardrepo.Repository](uow)
		if err != nil {
			return err
		}
		acc, owner, err := access.Account(ctx, uow, actor, in.IBAN, false)
		if err != nil {
			return err
		}
		ownerID = owner.UserID
		cardType, err := s.cardTypes.Resolve(ctx, uow, in.CardType)
		if err != nil {
			return err
		}
		busy, err := repo.ExistsActiveByAccount(ctx, acc.ID, uuid.Nil)
		if err != nil {
			return err
		}
		if busy {
			return card.ErrAccountHasCard
		}
		c, err := s.build(ctx, repo, acc.ID, cardType.ID, in)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		out = mapper.MapCardToRead(c, acc.IBAN, cardType.Name)
		return nil
	})
	if err != nil {
		s.logger.Warn("Issue card failed", "error", err)
		return nil, err
	}
	s.logger.Info("Card issued", "id", out.ID, "iban", out.IBAN)

	err = s.notifications.Notify(ctx, notificationsvc.Message{
		UserID: ownerID,
		Type:   notification.TypeCardIssued,
		Text:   fmt.Sprintf("%s card %s issued for account %s", out.CardType, card.Mask(out.CardNumber), out.IBAN),
		Metadata: map[string]string{
			"card":     out.ID,
			"iban":     out.IBAN,
			"cardType": out.CardType,
		},
	})
	return out, err
}

// build creates the card entity, rejecting a caller chosen number that is
// taken and regenerating a colliding generated one.
func (s *Service) build(
	ctx context.Context,
	repo cardrepo.Repository,
	accountID, cardTypeID uuid.UUID,
	in IssueInput,
) (*card.Card, error) {
	if in.CardNumber != "" {
		taken, err := repo.ExistsByCardNumber(ctx, card.NormalizeNumber(in.CardNumber))
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, card.ErrCardNumberTaken
		}
		return card.NewWithNumber(accountID, cardTypeID, in.CardNumber, in.Pin)
	}
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := card.GenerateNumber()
		taken, err := repo.ExistsByCardNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if !taken {
			return card.NewWithNumber(accountID, cardTypeID, number, in.Pin)
		}
	}
	return nil, card.ErrCardNumberTaken
}

// Get returns a card on an account the actor owns.
func (s *Service) Get(
	ctx context.Context,
	actor user.Actor,
	id string,
	includeDeleted bool,
) (out *dto.CardRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		c, acc, err := s.load(ctx, uow, actor, id, includeDeleted)
		if err != nil {
			return err
		}
		out, err = read(ctx, uow, c, acc)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// List returns the cards of the actor's accounts, or every card for
// admins.
func (s *Service) List(
	ctx context.Context,
	actor user.Actor,
	opts repository.ListOptions,
) (out []*dto.CardRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[cardrepo.Repository](uow)
		if err != nil {
			return err
		}
		accounts, err := repository.Get[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		var cards []*card.Card
		if actor.IsAdmin() {
			cards, err = repo.List(ctx, opts)
		} else {
			var owned []*account.Account
			owned, err = access.OwnedAccounts(ctx, uow, actor)
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(owned))
			for _, a := range owned {
				ids = append(ids, a.ID)
			}
			opts.IncludeDeleted = false
			cards, err = repo.ListByAccounts(ctx, ids, opts)
		}
		if err != nil {
			return err
		}
		out = make([]*dto.CardRead, 0, len(cards))
		for _, c := range cards {
			acc, err := accounts.Get(ctx, c.AccountID)
			if err != nil {
				return access.AccountNotFound(err)
			}
			r, err := read(ctx, uow, c, acc)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// Update changes the card type or pin. The number and backing account
// never change.
func (s *Service) Update(
	ctx context.Context,
	actor user.Actor,
	id string,
	in UpdateInput,
) (out *dto.CardRead, err error) {
	if in.CardType != nil && common.IsBlank(*in.CardType) {
		return nil, domain.NewValidationError("cardType", "must not be blank")
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[cardrepo.Repository](uow)
		if err != nil {
			return err
		}
		c, acc, err := s.load(ctx, uow, actor, id, false)
		if err != nil {
			return err
		}
		if in.Pin != nil {
			if err := c.ChangePin(*in.Pin); err != nil {
				return err
			}
		}
		if in.CardType != nil {
			cardType, err := s.cardTypes.Resolve(ctx, uow, *in.CardType)
			if err != nil {
				return err
			}
			c.ChangeType(cardType.ID)
		}
		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		out, err = read(ctx, uow, c, acc)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// Delete soft deletes a card, freeing its account for a new one.
func (s *Service) Delete(ctx context.Context, actor user.Actor, id string) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[cardrepo.Repository](uow)
		if err != nil {
			return err
		}
		c, _, err := s.load(ctx, uow, actor, id, false)
		if err != nil {
			return err
		}
		return repo.SoftDelete(ctx, c.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Card deleted", "id", id)
	return nil
}

func (s *Service) load(
	ctx context.Context,
	uow repository.UnitOfWork,
	actor user.Actor,
	id string,
	includeDeleted bool,
) (*card.Card, *account.Account, error) {
	repo, err := repository.Get[cardrepo.Repository](uow)
	if err != nil {
		return nil, nil, err
	}
	c, err := repo.GetByPublicID(ctx, id, includeDeleted && actor.IsAdmin())
	if err != nil {
		return nil, nil, notFound(err)
	}
	acc, err := access.Backing(ctx, uow, actor, c)
	if err != nil {
		return nil, nil, err
	}
	return c, acc, nil
}

func read(
	ctx context.Context,
	uow repository.UnitOfWork,
	c *card.Card,
	acc *account.Account,
) (*dto.CardRead, error) {
	types, err := repository.Get[productrepo.CardTypeRepository](uow)
	if err != nil {
		return nil, err
	}
	cardType, err := types.Get(ctx, c.CardTypeID)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", c.PublicID, product.ErrCardTypeNotFound)
	}
	return mapper.MapCardToRead(c, acc.IBAN, cardType.Name), nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return card.ErrCardNotFound
	}
	return err
}
