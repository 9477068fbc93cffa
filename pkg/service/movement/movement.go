// Package movement records deposits, withdrawals, transfers and card
// payments and applies them to account balances.
package movement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/movement"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	cardrepo "github.com/amirasaad/backoffice/pkg/repository/card"
	movementrepo "github.com/amirasaad/backoffice/pkg/repository/movement"
	"github.com/amirasaad/backoffice/pkg/service/access"
	notificationsvc "github.com/amirasaad/backoffice/pkg/service/notification"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDestinationNotFound is returned when a transfer targets a deleted
// internal account.
var ErrDestinationNotFound = fmt.Errorf("destination %w", account.ErrAccountNotFound)

type Service struct {
	uow           repository.UnitOfWork
	notifications *notificationsvc.Service
	logger        *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	notifications *notificationsvc.Service,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, notifications: notifications, logger: logger}
}

// recipients are the users told about a committed movement.
type recipients struct {
	source      uuid.UUID
	destination uuid.UUID
}

// Create validates the request, applies it to the involved balances and
// records the movement in one transaction. Notifications are sent after
// commit; their failure is returned alongside the committed movement.
func (s *Service) Create(
	ctx context.Context,
	actor user.Actor,
	req movement.Request,
) (out *dto.MovementRead, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := s.logger.With("type", req.Type, "amount", req.Amount.String())

	var to recipients
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := repository.Get[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		movements, err := repository.Get[movementrepo.Repository](uow)
		if err != nil {
			return err
		}
		source, owner, err := access.Account(ctx, uow, actor, req.SourceIBAN, false)
		if err != nil {
			return err
		}
		to.source = owner.UserID

		var (
			cardID     *uuid.UUID
			cardNumber string
		)
		if req.Type == movement.TypeCardPayment {
			c, err := paymentCard(ctx, uow, req.CardID, source)
			if err != nil {
				return err
			}
			cardID, cardNumber = &c.ID, c.CardNumber
		}

		change := balanceChange{account: source, delta: req.Amount.Neg()}
		switch req.Type {
		case movement.TypeDeposit:
			err = source.Credit(req.Amount)
			change.delta = req.Amount
		default:
			err = source.Debit(req.Amount)
		}
		if err != nil {
			return err
		}
		changes := []balanceChange{change}

		if req.Type == movement.TypeTransfer {
			dest, destOwner, err := destination(ctx, uow, req)
			if err != nil {
				return err
			}
			if dest != nil {
				if err := dest.Credit(req.Amount); err != nil {
					return err
				}
				changes = append(changes, balanceChange{account: dest, delta: req.Amount})
				to.destination = destOwner
			}
		}
		if err := applyBalances(ctx, accounts, changes); err != nil {
			return err
		}

		m, err := movement.New(req.Type, source.ID, req.Amount, req.DestinationIBAN, cardID)
		if err != nil {
			return err
		}
		if err := movements.Create(ctx, m); err != nil {
			return err
		}
		out = mapper.MapMovementToRead(m, source.IBAN, cardNumber)
		return nil
	})
	if err != nil {
		log.Warn("Movement rejected", "iban", req.SourceIBAN, "error", err)
		return nil, err
	}
	log.Info("Movement recorded", "id", out.ID, "iban", out.IBAN)

	msgs := []notificationsvc.Message{{
		UserID: to.source,
		Type:   notification.TypeMovementCreated,
		Text:   fmt.Sprintf("%s of %.2f on account %s", out.MovementType, out.Amount, out.IBAN),
		Metadata: map[string]string{
			"movement": out.ID,
			"iban":     out.IBAN,
			"amount":   req.Amount.StringFixed(common.MoneyPlaces),
		},
	}}
	if to.destination != uuid.Nil {
		msgs = append(msgs, notificationsvc.Message{
			UserID: to.destination,
			Type:   notification.TypeTransferIn,
			Text:   fmt.Sprintf("Transfer of %.2f received on account %s", out.Amount, out.DestinationIBAN),
			Metadata: map[string]string{
				"movement": out.ID,
				"iban":     out.DestinationIBAN,
				"from":     out.IBAN,
				"amount":   req.Amount.StringFixed(common.MoneyPlaces),
			},
		})
	}
	return out, s.notifications.Notify(ctx, msgs...)
}

// paymentCard loads an active, unexpired card backed by source.
func paymentCard(
	ctx context.Context,
	uow repository.UnitOfWork,
	id string,
	source *account.Account,
) (*card.Card, error) {
	cards, err := repository.Get[cardrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	c, err := cards.GetByPublicID(ctx, id, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, card.ErrCardNotFound
		}
		return nil, err
	}
	v := &domain.ValidationError{}
	v.Check(c.AccountID == source.ID, "card", "must belong to the source account")
	v.Check(!c.Expired(common.Now()), "card", "is expired")
	if err := v.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// balanceChange is a signed amount applied to one account.
type balanceChange struct {
	account *account.Account
	delta   decimal.Decimal
}

// applyBalances writes each change as an atomic increment, in IBAN order
// so concurrent transfers between the same accounts lock rows alike.
func applyBalances(ctx context.Context, accounts accountrepo.Repository, changes []balanceChange) error {
	slices.SortStableFunc(changes, func(a, b balanceChange) int {
		return strings.Compare(a.account.IBAN, b.account.IBAN)
	})
	for _, c := range changes {
		if err := accounts.AdjustBalance(ctx, c.account.ID, c.delta); err != nil {
			return err
		}
	}
	return nil
}

// destination loads the internal account a transfer credits and the user
// owning it. An unknown IBAN is an external transfer and yields nil.
func destination(
	ctx context.Context,
	uow repository.UnitOfWork,
	req movement.Request,
) (*account.Account, uuid.UUID, error) {
	accounts, err := repository.Get[accountrepo.Repository](uow)
	if err != nil {
		return nil, uuid.Nil, err
	}
	dest, err := accounts.GetByIBAN(ctx, account.NormalizeIBAN(req.DestinationIBAN), true)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, uuid.Nil, nil
	}
	if err != nil {
		return nil, uuid.Nil, err
	}
	if dest.IsDeleted {
		return nil, uuid.Nil, ErrDestinationNotFound
	}
	owner, err := access.Owner(ctx, uow, dest.ClientID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return dest, owner.UserID, nil
}

// Get returns a movement visible to the actor: the owner of the source
// account, the owner of an internal destination, or an admin.
func (s *Service) Get(ctx context.Context, actor user.Actor, id string) (out *dto.MovementRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		movements, err := repository.Get[movementrepo.Repository](uow)
		if err != nil {
			return err
		}
		m, err := movements.GetByPublicID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return movement.ErrMovementNotFound
			}
			return err
		}
		if err := canSee(ctx, uow, actor, m); err != nil {
			return err
		}
		out, err = read(ctx, uow, m)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

func canSee(ctx context.Context, uow repository.UnitOfWork, actor user.Actor, m *movement.Movement) error {
	if actor.IsAdmin() {
		return nil
	}
	owned, err := access.OwnedAccounts(ctx, uow, actor)
	if err != nil {
		return err
	}
	for _, a := range owned {
		if a.ID == m.AccountID || (m.DestinationIBAN != "" && a.IBAN == m.DestinationIBAN) {
			return nil
		}
	}
	return domain.ErrForbidden
}

// List returns movements touching the actor's accounts, newest first,
// or every movement for admins.
func (s *Service) List(
	ctx context.Context,
	actor user.Actor,
	opts repository.ListOptions,
) (out []*dto.MovementRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		movements, err := repository.Get[movementrepo.Repository](uow)
		if err != nil {
			return err
		}
		var found []*movement.Movement
		if actor.IsAdmin() {
			found, err = movements.List(ctx, opts)
		} else {
			var owned []*account.Account
			owned, err = access.OwnedAccounts(ctx, uow, actor)
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(owned))
			ibans := make([]string, 0, len(owned))
			for _, a := range owned {
				ids = append(ids, a.ID)
				ibans = append(ibans, a.IBAN)
			}
			found, err = movements.ListByAccounts(ctx, ids, ibans, opts)
		}
		if err != nil {
			return err
		}
		out, err = readAll(ctx, uow, found)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// ListByAccount returns the movements into and out of one account.
func (s *Service) ListByAccount(
	ctx context.Context,
	actor user.Actor,
	iban string,
	opts repository.ListOptions,
) (out []*dto.MovementRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		movements, err := repository.Get[movementrepo.Repository](uow)
		if err != nil {
			return err
		}
		acc, _, err := access.Account(ctx, uow, actor, iban, opts.IncludeDeleted)
		if err != nil {
			return err
		}
		found, err := movements.ListByAccounts(ctx, []uuid.UUID{acc.ID}, []string{acc.IBAN}, opts)
		if err != nil {
			return err
		}
		out, err = readAll(ctx, uow, found)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

func readAll(ctx context.Context, uow repository.UnitOfWork, found []*movement.Movement) ([]*dto.MovementRead, error) {
	out := make([]*dto.MovementRead, 0, len(found))
	for _, m := range found {
		r, err := read(ctx, uow, m)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func read(ctx context.Context, uow repository.UnitOfWork, m *movement.Movement) (*dto.MovementRead, error) {
	accounts, err := repository.Get[accountrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	source, err := accounts.Get(ctx, m.AccountID)
	if err != nil {
		return nil, access.AccountNotFound(err)
	}
	var cardNumber string
	if m.CardID != nil {
		cards, err := repository.Get[cardrepo.Repository](uow)
		if err != nil {
			return nil, err
		}
		c, err := cards.Get(ctx, *m.CardID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if c != nil {
			cardNumber = c.CardNumber
		}
	}
	return mapper.MapMovementToRead(m, source.IBAN, cardNumber), nil
}
