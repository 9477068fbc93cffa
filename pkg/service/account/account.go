// Package account opens, reads, updates and closes bank accounts and
// reports converted balances.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	clientrepo "github.com/amirasaad/backoffice/pkg/repository/client"
	productrepo "github.com/amirasaad/backoffice/pkg/repository/product"
	"github.com/amirasaad/backoffice/pkg/service/access"
	currencysvc "github.com/amirasaad/backoffice/pkg/service/currency"
	notificationsvc "github.com/amirasaad/backoffice/pkg/service/notification"
	productsvc "github.com/amirasaad/backoffice/pkg/service/product"
)

// maxIBANAttempts bounds regeneration when a generated IBAN collides.
const maxIBANAttempts = 5

// OpenInput holds the fields of a new account.
type OpenInput struct {
	AccountType string
	Password    string
	// IBAN is generated when empty.
	IBAN string
	// ClientID opens the account for another client. Admins only.
	ClientID string
}

// UpdateInput carries optional changes. Nil fields are left unchanged.
type UpdateInput struct {
	AccountType *string
	Password    *string
}

type Service struct {
	uow           repository.UnitOfWork
	accountTypes  *productsvc.Catalog[product.AccountType, *product.AccountType]
	notifications *notificationsvc.Service
	currency      *currencysvc.Service
	baseCurrency  string
	logger        *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	accountTypes *productsvc.Catalog[product.AccountType, *product.AccountType],
	notifications *notificationsvc.Service,
	currency *currencysvc.Service,
	baseCurrency string,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:           uow,
		accountTypes:  accountTypes,
		notifications: notifications,
		currency:      currency,
		baseCurrency:  baseCurrency,
		logger:        logger,
	}
}

func (in OpenInput) validate() error {
	v := &domain.ValidationError{}
	v.Check(!common.IsBlank(in.AccountType), "accountType", "must not be blank")
	v.Check(len(in.Password) >= 6, "password", "must be at least 6 characters")
	if in.IBAN != "" {
		v.Check(account.ValidIBAN(account.NormalizeIBAN(in.IBAN)), "iban", "must be a valid IBAN")
	}
	return v.Err()
}

// Open creates an account with a zero balance. When the account is
// committed but the notification fails, both the account and an error
// matching domain.ErrServiceUnavailable are returned.
func (s *Service) Open(
	ctx context.Context,
	actor user.Actor,
	in OpenInput,
) (out *dto.AccountRead, err error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var (
		acc   *account.Account
		owner *client.Client
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		owner, err = s.clientFor(ctx, uow, actor, in.ClientID)
		if err != nil {
			return err
		}
		accountType, err := s.accountTypes.Resolve(ctx, uow, in.AccountType)
		if err != nil {
			return err
		}
		acc, err = account.New(owner.ID, accountType.ID, in.IBAN, in.Password)
		if err != nil {
			return err
		}
		if err := s.reserveIBAN(ctx, repo, acc, in.IBAN != ""); err != nil {
			return err
		}
		if err := repo.Create(ctx, acc); err != nil {
			return err
		}
		out = mapper.MapAccountToRead(acc, accountType.Name, owner.PublicID)
		return nil
	})
	if err != nil {
		s.logger.Warn("Open account failed", "error", err)
		return nil, err
	}
	s.logger.Info("Account opened", "iban", acc.IBAN, "type", out.AccountType)

	err = s.notifications.Notify(ctx, notificationsvc.Message{
		UserID: owner.UserID,
		Type:   notification.TypeAccountCreated,
		Text:   fmt.Sprintf("Account %s (%s) opened", acc.IBAN, out.AccountType),
		Metadata: map[string]string{
			"iban":        acc.IBAN,
			"accountType": out.AccountType,
		},
	})
	return out, err
}

func (s *Service) clientFor(
	ctx context.Context,
	uow repository.UnitOfWork,
	actor user.Actor,
	clientID string,
) (*client.Client, error) {
	if clientID == "" {
		return access.ClientOf(ctx, uow, actor)
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	repo, err := repository.Get[clientrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	c, err := repo.GetByPublicID(ctx, clientID, false)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, client.ErrClientNotFound
	}
	return c, err
}

// reserveIBAN rejects a caller chosen IBAN that is taken and regenerates
// a colliding generated one.
func (s *Service) reserveIBAN(ctx context.Context, repo accountrepo.Repository, acc *account.Account, chosen bool) error {
	for attempt := 0; attempt < maxIBANAttempts; attempt++ {
		taken, err := repo.ExistsByIBAN(ctx, acc.IBAN)
		if err != nil {
			return err
		}
		if !taken {
			return nil
		}
		if chosen {
			return account.ErrIBANTaken
		}
		acc.IBAN = account.GenerateIBAN()
	}
	return account.ErrIBANTaken
}

// Get returns an account the actor owns, or any account for admins.
func (s *Service) Get(
	ctx context.Context,
	actor user.Actor,
	iban string,
	includeDeleted bool,
) (out *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, owner, err := access.Account(ctx, uow, actor, iban, includeDeleted)
		if err != nil {
			return err
		}
		out, err = read(ctx, uow, acc, owner)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// List returns the actor's accounts, or every account for admins.
func (s *Service) List(
	ctx context.Context,
	actor user.Actor,
	opts repository.ListOptions,
) (out []*dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		var accounts []*account.Account
		if actor.IsAdmin() {
			accounts, err = repo.List(ctx, opts)
		} else {
			var owner *client.Client
			owner, err = access.ClientOf(ctx, uow, actor)
			if err != nil {
				if errors.Is(err, client.ErrClientNotFound) {
					out = []*dto.AccountRead{}
					return nil
				}
				return err
			}
			opts.IncludeDeleted = false
			accounts, err = repo.ListByClient(ctx, owner.ID, opts)
		}
		if err != nil {
			return err
		}
		out = make([]*dto.AccountRead, 0, len(accounts))
		for _, acc := range accounts {
			owner, err := access.Owner(ctx, uow, acc.ClientID)
			if err != nil {
				return err
			}
			r, err := read(ctx, uow, acc, owner)
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

// Update changes the account type or password. The IBAN and balance are
// never taken from input.
func (s *Service) Update(
	ctx context.Context,
	actor user.Actor,
	iban string,
	in UpdateInput,
) (out *dto.AccountRead, err error) {
	if in.AccountType != nil && common.IsBlank(*in.AccountType) {
		return nil, domain.NewValidationError("accountType", "must not be blank")
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		acc, owner, err := access.Account(ctx, uow, actor, iban, false)
		if err != nil {
			return err
		}
		if in.Password != nil {
			if err := acc.ChangePassword(*in.Password); err != nil {
				return err
			}
		}
		if in.AccountType != nil {
			accountType, err := s.accountTypes.Resolve(ctx, uow, *in.AccountType)
			if err != nil {
				return err
			}
			acc.ChangeType(accountType.ID)
		}
		if err := repo.Update(ctx, acc); err != nil {
			return err
		}
		out, err = read(ctx, uow, acc, owner)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// Delete soft deletes an account.
func (s *Service) Delete(ctx context.Context, actor user.Actor, iban string) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		acc, _, err := access.Account(ctx, uow, actor, iban, false)
		if err != nil {
			return err
		}
		return repo.SoftDelete(ctx, acc.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Account deleted", "iban", iban)
	return nil
}

// Balance reports the balance in the base currency and converted to
// target.
func (s *Service) Balance(
	ctx context.Context,
	actor user.Actor,
	iban, target string,
) (*dto.BalanceRead, error) {
	var acc *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		acc, _, err = access.Account(ctx, uow, actor, iban, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = s.baseCurrency
	}
	conv, err := s.currency.Convert(ctx, acc.Balance, s.baseCurrency, target)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceRead{
		IBAN:      acc.IBAN,
		Balance:   mapper.Money(acc.Balance),
		Currency:  conv.From,
		Converted: mapper.Money(conv.Converted),
		Target:    conv.To,
		Rate:      conv.Rate.InexactFloat64(),
		RateAt:    mapper.Timestamp(conv.RateAt),
	}, nil
}

func read(
	ctx context.Context,
	uow repository.UnitOfWork,
	acc *account.Account,
	owner *client.Client,
) (*dto.AccountRead, error) {
	types, err := repository.Get[productrepo.AccountTypeRepository](uow)
	if err != nil {
		return nil, err
	}
	accountType, err := types.Get(ctx, acc.AccountTypeID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", acc.IBAN, product.ErrAccountTypeNotFound)
	}
	return mapper.MapAccountToRead(acc, accountType.Name, owner.PublicID), nil
}
