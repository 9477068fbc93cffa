package account

import (
	"fmt"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = fmt.Errorf("account %w", domain.ErrNotFound)
	ErrIBANTaken       = fmt.Errorf("iban %w", domain.ErrAlreadyExists)
	// ErrAccountPassword is returned when the account password does not match.
	ErrAccountPassword = fmt.Errorf("account password mismatch: %w", domain.ErrUnauthorized)
)

// Account is a bank account owned by a client. The IBAN never changes
// after creation.
type Account struct {
	common.Identity
	common.Audit
	IBAN          string
	Balance       decimal.Decimal
	Password      string
	ClientID      uuid.UUID
	AccountTypeID uuid.UUID
	IsDeleted     bool
}

// New opens an account with a zero balance and the given IBAN. An empty
// iban gets a generated one.
func New(clientID, accountTypeID uuid.UUID, iban, password string) (*Account, error) {
	if iban == "" {
		iban = GenerateIBAN()
	}
	iban = NormalizeIBAN(iban)
	v := &domain.ValidationError{}
	v.Check(clientID != uuid.Nil, "client", "must reference a client")
	v.Check(accountTypeID != uuid.Nil, "accountType", "must reference an account type")
	v.Check(ValidIBAN(iban), "iban", "must be a valid IBAN")
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Account{
		Identity:      common.NewIdentity(),
		Audit:         common.NewAudit(),
		IBAN:          iban,
		Balance:       decimal.Zero,
		Password:      hashed,
		ClientID:      clientID,
		AccountTypeID: accountTypeID,
	}, nil
}

func validatePassword(v *domain.ValidationError, password string) {
	v.Check(len(password) >= 6, "password", "must be at least 6 characters")
}

// CheckPassword reports whether password matches the account password.
func (a *Account) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, a.Password)
}

// ChangePassword hashes and stores a new account password.
func (a *Account) ChangePassword(password string) error {
	v := &domain.ValidationError{}
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	a.Password = hashed
	a.Touch()
	return nil
}

// ChangeType moves the account to another account type.
func (a *Account) ChangeType(accountTypeID uuid.UUID) {
	a.AccountTypeID = accountTypeID
	a.Touch()
}

// Credit adds a positive amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	a.Balance = common.RoundMoney(a.Balance.Add(amount))
	a.Touch()
	return nil
}

// Debit subtracts a positive amount, refusing to go below zero.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	next := a.Balance.Sub(amount)
	if next.IsNegative() {
		return fmt.Errorf("account %s: %w", a.IBAN, domain.ErrInsufficientFunds)
	}
	a.Balance = common.RoundMoney(next)
	a.Touch()
	return nil
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidationError("amount", "must be greater than 0")
	}
	return nil
}

// MarkDeleted soft deletes the account.
func (a *Account) MarkDeleted() {
	a.IsDeleted = true
	a.Touch()
}
