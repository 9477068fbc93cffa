// Package mapper converts domain entities into dto read models.
package mapper

import (
	"time"

	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/movement"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/shopspring/decimal"
)

// Timestamp formats t as RFC 3339 in UTC.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Money renders an amount as a JSON number.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func MapUserToRead(u *user.User) *dto.UserRead {
	return &dto.UserRead{
		ID:        u.PublicID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Avatar:    u.Avatar,
		IsDeleted: u.IsDeleted,
		CreatedAt: Timestamp(u.CreatedAt),
		UpdatedAt: Timestamp(u.UpdatedAt),
	}
}

// MapClientToRead needs the owning user's public id.
func MapClientToRead(c *client.Client, userPublicID string) *dto.ClientRead {
	return &dto.ClientRead{
		ID:        c.PublicID,
		UserID:    userPublicID,
		DNI:       c.DNI,
		Email:     c.Email,
		Name:      c.Name,
		Surname:   c.Surname,
		Phone:     c.Phone,
		Address:   c.Address,
		IsDeleted: c.IsDeleted,
		CreatedAt: Timestamp(c.CreatedAt),
		UpdatedAt: Timestamp(c.UpdatedAt),
	}
}

// MapAccountToRead flattens the account type to its name and the client
// to its public id.
func MapAccountToRead(a *account.Account, accountType, clientPublicID string) *dto.AccountRead {
	return &dto.AccountRead{
		ID:          a.PublicID,
		IBAN:        a.IBAN,
		Balance:     Money(a.Balance),
		AccountType: accountType,
		ClientID:    clientPublicID,
		IsDeleted:   a.IsDeleted,
		CreatedAt:   Timestamp(a.CreatedAt),
		UpdatedAt:   Timestamp(a.UpdatedAt),
	}
}

// MapCardToRead flattens the account to its iban and the card type to
// its name.
func MapCardToRead(c *card.Card, iban, cardType string) *dto.CardRead {
	return &dto.CardRead{
		ID:         c.PublicID,
		CardNumber: c.CardNumber,
		IBAN:       iban,
		CardType:   cardType,
		ExpiresAt:  Timestamp(c.ExpiresAt),
		IsDeleted:  c.IsDeleted,
		CreatedAt:  Timestamp(c.CreatedAt),
		UpdatedAt:  Timestamp(c.UpdatedAt),
	}
}

func MapProductToRead(p *product.Product) *dto.CatalogRead {
	return mapItem(&p.Item)
}

func MapCardTypeToRead(t *product.CardType) *dto.CatalogRead {
	return mapItem(&t.Item)
}

func MapAccountTypeToRead(t *product.AccountType) *dto.CatalogRead {
	r := mapItem(&t.Item)
	interest := t.Interest.InexactFloat64()
	r.Interest = &interest
	return r
}

func mapItem(i *product.Item) *dto.CatalogRead {
	return &dto.CatalogRead{
		ID:          i.PublicID,
		Name:        i.Name,
		Description: i.Description,
		IsDeleted:   i.IsDeleted,
		CreatedAt:   Timestamp(i.CreatedAt),
		UpdatedAt:   Timestamp(i.UpdatedAt),
	}
}

// MapMovementToRead takes the source iban and the full card number, which
// is masked in the output.
func MapMovementToRead(m *movement.Movement, iban, cardNumber string) *dto.MovementRead {
	r := &dto.MovementRead{
		ID:              m.PublicID,
		MovementType:    string(m.Type),
		IBAN:            iban,
		DestinationIBAN: m.DestinationIBAN,
		Amount:          Money(m.Amount),
		CreatedAt:       Timestamp(m.CreatedAt),
	}
	if cardNumber != "" {
		r.Card = card.Mask(cardNumber)
	}
	return r
}

func MapNotificationToRead(n *notification.Notification) *dto.NotificationRead {
	return &dto.NotificationRead{
		ID:        n.PublicID,
		Type:      string(n.Type),
		Message:   n.Message,
		Metadata:  n.Metadata,
		CreatedAt: Timestamp(n.CreatedAt),
	}
}

func MapRatesToRead(s *exchange.RateSet) *dto.RatesRead {
	rates := make(map[string]float64, len(s.Rates))
	for code, r := range s.Rates {
		rates[code] = r.InexactFloat64()
	}
	return &dto.RatesRead{
		Base:      s.Base,
		Rates:     rates,
		UpdatedAt: Timestamp(s.UpdatedAt),
		Source:    s.Source,
	}
}
