// Package common holds identity, audit and money helpers shared by the
// domain entities.
package common

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places kept for balances and amounts.
const MoneyPlaces = 2

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Identity carries the internal primary key and the public id exposed
// on the wire.
type Identity struct {
	ID       uuid.UUID
	PublicID string
}

// Audit carries creation and last modification timestamps.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewIdentity generates a fresh primary key and public id.
func NewIdentity() Identity {
	return Identity{ID: uuid.New(), PublicID: NewPublicID()}
}

// NewAudit returns audit fields stamped with the current time.
func NewAudit() Audit {
	now := Now()
	return Audit{CreatedAt: now, UpdatedAt: now}
}

// Touch moves UpdatedAt to the current time.
func (a *Audit) Touch() {
	a.UpdatedAt = Now()
}

// NewPublicID returns a lower-cased ULID.
func NewPublicID() string {
	return strings.ToLower(ulid.Make().String())
}

// Now returns the current UTC time truncated to microseconds, the
// precision kept by the store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NormalizeName trims a catalog name and upper-cases it.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// IsBlank reports whether s has no visible characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidCurrency reports whether code looks like an ISO 4217 code.
func ValidCurrency(code string) bool {
	return currencyCodeRe.MatchString(code)
}

// RoundMoney rounds an amount to MoneyPlaces using banker's rounding.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyPlaces)
}

// HasMoneyPrecision reports whether d has at most MoneyPlaces decimals.
func HasMoneyPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyPlaces))
}
