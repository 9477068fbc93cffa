package movement

import (
	"fmt"
	"time"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrMovementNotFound = fmt.Errorf("movement %w", domain.ErrNotFound)

// MinAmount is the smallest accepted movement amount.
var MinAmount = decimal.New(1, -common.MoneyPlaces)

// Type is the kind of money movement.
type Type string

const (
	TypeDeposit     Type = "DEPOSIT"
	TypeWithdrawal  Type = "WITHDRAWAL"
	TypeTransfer    Type = "TRANSFER"
	TypeCardPayment Type = "CARD_PAYMENT"
)

// Valid reports whether t is a known movement type.
func (t Type) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer, TypeCardPayment:
		return true
	}
	return false
}

// Debits reports whether the movement takes money out of the source account.
func (t Type) Debits() bool {
	return t != TypeDeposit
}

// Movement is an immutable record of money moving on an account.
type Movement struct {
	common.Identity
	Type            Type
	AccountID       uuid.UUID
	DestinationIBAN string
	Amount          decimal.Decimal
	CardID          *uuid.UUID
	CreatedAt       time.Time
}

// Request holds the user supplied movement fields. The source account
// is given by IBAN and resolved by the caller.
type Request struct {
	Type            Type
	SourceIBAN      string
	DestinationIBAN string
	Amount          decimal.Decimal
	CardID          string
}

// Validate checks a request and reports every failing field. It runs
// before any account is touched.
func (r Request) Validate() error {
	v := &domain.ValidationError{}
	v.Check(r.Type.Valid(), "movementType", "must be one of DEPOSIT, WITHDRAWAL, TRANSFER, CARD_PAYMENT")
	v.Check(account.ValidIBAN(account.NormalizeIBAN(r.SourceIBAN)), "iban", "must be a valid IBAN")
	v.Check(r.Amount.GreaterThanOrEqual(MinAmount), "amount", "must be at least 0.01")
	v.Check(common.HasMoneyPrecision(r.Amount), "amount", "must have at most 2 decimal places")
	switch r.Type {
	case TypeTransfer:
		dest := account.NormalizeIBAN(r.DestinationIBAN)
		v.Check(account.ValidIBAN(dest), "destinationIban", "must be a valid IBAN")
		v.Check(dest != account.NormalizeIBAN(r.SourceIBAN), "destinationIban", "must differ from the source iban")
	default:
		v.Check(common.IsBlank(r.DestinationIBAN), "destinationIban", "is only allowed for transfers")
	}
	if r.Type == TypeCardPayment {
		v.Check(!common.IsBlank(r.CardID), "card", "is required for card payments")
	}
	return v.Err()
}

// New records a movement against an already resolved source account.
func New(t Type, accountID uuid.UUID, amount decimal.Decimal, destinationIBAN string, cardID *uuid.UUID) (*Movement, error) {
	v := &domain.ValidationError{}
	v.Check(t.Valid(), "movementType", "must be one of DEPOSIT, WITHDRAWAL, TRANSFER, CARD_PAYMENT")
	v.Check(accountID != uuid.Nil, "account", "must reference an account")
	v.Check(amount.GreaterThanOrEqual(MinAmount), "amount", "must be at least 0.01")
	v.Check(t != TypeTransfer || destinationIBAN != "", "destinationIban", "is required for transfers")
	v.Check(t == TypeTransfer || destinationIBAN == "", "destinationIban", "is only allowed for transfers")
	v.Check(t != TypeCardPayment || cardID != nil, "card", "is required for card payments")
	if err := v.Err(); err != nil {
		return nil, err
	}
	return &Movement{
		Identity:        common.NewIdentity(),
		Type:            t,
		AccountID:       accountID,
		DestinationIBAN: account.NormalizeIBAN(destinationIBAN),
		Amount:          amount,
		CardID:          cardID,
		CreatedAt:       common.Now(),
	}, nil
}
