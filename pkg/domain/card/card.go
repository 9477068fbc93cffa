package card

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/google/uuid"
)

var (
	ErrCardNotFound    = fmt.Errorf("card %w", domain.ErrNotFound)
	ErrCardNumberTaken = fmt.Errorf("card number %w", domain.ErrAlreadyExists)
	// ErrAccountHasCard is returned when the account already backs an
	// active card.
	ErrAccountHasCard = fmt.Errorf("active card for account %w", domain.ErrAlreadyExists)
)

const (
	numberPrefix = "4"
	numberLength = 16
	validity     = 3 * 365 * 24 * time.Hour
)

var pinRe = regexp.MustCompile(`^[0-9]{4}$`)

// Card is a payment card backed by a single account.
type Card struct {
	common.Identity
	common.Audit
	CardNumber string
	Pin        string
	ExpiresAt  time.Time
	AccountID  uuid.UUID
	CardTypeID uuid.UUID
	IsDeleted  bool
}

// New issues a card with a generated Luhn-valid number.
func New(accountID, cardTypeID uuid.UUID, pin string) (*Card, error) {
	return NewWithNumber(accountID, cardTypeID, GenerateNumber(), pin)
}

// NewWithNumber issues a card with a caller chosen number.
func NewWithNumber(accountID, cardTypeID uuid.UUID, number, pin string) (*Card, error) {
	number = NormalizeNumber(number)
	v := &domain.ValidationError{}
	v.Check(accountID != uuid.Nil, "account", "must reference an account")
	v.Check(cardTypeID != uuid.Nil, "cardType", "must reference a card type")
	v.Check(ValidNumber(number), "cardNumber", "must be a valid card number")
	validatePin(v, pin)
	if err := v.Err(); err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(pin)
	if err != nil {
		return nil, err
	}
	audit := common.NewAudit()
	return &Card{
		Identity:   common.NewIdentity(),
		Audit:      audit,
		CardNumber: number,
		Pin:        hashed,
		ExpiresAt:  audit.CreatedAt.Add(validity),
		AccountID:  accountID,
		CardTypeID: cardTypeID,
	}, nil
}

func validatePin(v *domain.ValidationError, pin string) {
	v.Check(pinRe.MatchString(pin), "pin", "must be exactly 4 digits")
}

// CheckPin reports whether pin matches the stored hash.
func (c *Card) CheckPin(pin string) bool {
	return utils.CheckPasswordHash(pin, c.Pin)
}

// ChangePin replaces the pin.
func (c *Card) ChangePin(pin string) error {
	v := &domain.ValidationError{}
	validatePin(v, pin)
	if err := v.Err(); err != nil {
		return err
	}
	hashed, err := utils.HashPassword(pin)
	if err != nil {
		return err
	}
	c.Pin = hashed
	c.Touch()
	return nil
}

// ChangeType moves the card to another card type.
func (c *Card) ChangeType(cardTypeID uuid.UUID) {
	c.CardTypeID = cardTypeID
	c.Touch()
}

// Expired reports whether the card is past its expiration at t.
func (c *Card) Expired(t time.Time) bool {
	return !t.Before(c.ExpiresAt)
}

// MarkDeleted soft deletes the card.
func (c *Card) MarkDeleted() {
	c.IsDeleted = true
	c.Touch()
}

// NormalizeNumber removes spaces and dashes.
func NormalizeNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
}

// Mask hides every digit except the last four.
func Mask(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// GenerateNumber returns a random 16 digit number with a valid Luhn check digit.
func GenerateNumber() string {
	digits := make([]byte, 0, numberLength)
	digits = append(digits, numberPrefix...)
	for len(digits) < numberLength-1 {
		digits = append(digits, byte('0'+rand.IntN(10)))
	}
	return string(append(digits, luhnDigit(string(digits))))
}

// ValidNumber checks length, digits and Luhn checksum.
func ValidNumber(number string) bool {
	if len(number) < 13 || len(number) > 19 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return luhnDigit(number[:len(number)-1]) == number[len(number)-1]
}

// luhnDigit computes the check digit to append to payload.
func luhnDigit(payload string) byte {
	sum := 0
	double := true
	for i := len(payload) - 1; i >= 0; i-- {
		d := int(payload[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte('0' + (10-sum%10)%10)
}
