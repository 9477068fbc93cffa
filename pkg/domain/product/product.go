// Package product models the bank catalog: generic products, account
// types and card types. Catalog names are stored upper-cased and looked
// up case-insensitively.
package product

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound     = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrAccountTypeNotFound = fmt.Errorf("account type %w", domain.ErrNotFound)
	ErrCardTypeNotFound    = fmt.Errorf("card type %w", domain.ErrNotFound)
	ErrNameTaken           = fmt.Errorf("name %w", domain.ErrAlreadyExists)
	// ErrInUse is returned when deleting an entry that active records
	// still reference.
	ErrInUse = fmt.Errorf("catalog entry in use: %w", domain.ErrAlreadyExists)
)

// Kind identifies a catalog.
type Kind string

const (
	KindProduct     Kind = "product"
	KindAccountType Kind = "account type"
	KindCardType    Kind = "card type"
)

// Item holds the fields shared by every catalog entry.
type Item struct {
	common.Identity
	common.Audit
	Name        string
	Description string
	IsDeleted   bool
}

// Entry gives generic code access to the shared fields.
func (i *Item) Entry() *Item { return i }

// Details holds the user supplied catalog fields. Interest only applies
// to account types.
type Details struct {
	Name        string
	Description string
	Interest    decimal.Decimal
}

// Product is a generic bank product.
type Product struct {
	Item
}

// AccountType classifies accounts and carries their interest rate.
type AccountType struct {
	Item
	Interest decimal.Decimal
}

// CardType classifies cards.
type CardType struct {
	Item
}

func newItem(d Details) (Item, error) {
	name := common.NormalizeName(d.Name)
	v := &domain.ValidationError{}
	validateItem(v, name, d.Description)
	if err := v.Err(); err != nil {
		return Item{}, err
	}
	return Item{
		Identity:    common.NewIdentity(),
		Audit:       common.NewAudit(),
		Name:        name,
		Description: strings.TrimSpace(d.Description),
	}, nil
}

func validateItem(v *domain.ValidationError, name, description string) {
	n := utf8.RuneCountInString(name)
	v.Check(n > 0 && n <= 50, "name", "must be between 1 and 50 characters")
	v.Check(utf8.RuneCountInString(description) <= 255, "description", "must be at most 255 characters")
}

func validateInterest(v *domain.ValidationError, interest decimal.Decimal) {
	v.Check(!interest.IsNegative(), "interest", "must be greater than or equal to 0")
}

// NewProduct creates a product.
func NewProduct(d Details) (*Product, error) {
	item, err := newItem(d)
	if err != nil {
		return nil, err
	}
	return &Product{Item: item}, nil
}

// NewAccountType creates an account type; interest must not be negative.
func NewAccountType(d Details) (*AccountType, error) {
	name := common.NormalizeName(d.Name)
	v := &domain.ValidationError{}
	validateItem(v, name, d.Description)
	validateInterest(v, d.Interest)
	if err := v.Err(); err != nil {
		return nil, err
	}
	item, err := newItem(d)
	if err != nil {
		return nil, err
	}
	return &AccountType{Item: item, Interest: d.Interest}, nil
}

// NewCardType creates a card type.
func NewCardType(d Details) (*CardType, error) {
	item, err := newItem(d)
	if err != nil {
		return nil, err
	}
	return &CardType{Item: item}, nil
}

// Update replaces name and description.
func (i *Item) Update(d Details) error {
	name := common.NormalizeName(d.Name)
	v := &domain.ValidationError{}
	validateItem(v, name, d.Description)
	if err := v.Err(); err != nil {
		return err
	}
	i.Name = name
	i.Description = strings.TrimSpace(d.Description)
	i.Touch()
	return nil
}

// Update replaces name, description and interest.
func (t *AccountType) Update(d Details) error {
	v := &domain.ValidationError{}
	validateItem(v, common.NormalizeName(d.Name), d.Description)
	validateInterest(v, d.Interest)
	if err := v.Err(); err != nil {
		return err
	}
	if err := t.Item.Update(d); err != nil {
		return err
	}
	t.Interest = d.Interest
	return nil
}

// Details returns the current user supplied fields.
func (i *Item) Details() Details {
	return Details{Name: i.Name, Description: i.Description}
}

// Details returns the current user supplied fields including interest.
func (t *AccountType) Details() Details {
	d := t.Item.Details()
	d.Interest = t.Interest
	return d
}

// MarkDeleted soft deletes the entry.
func (i *Item) MarkDeleted() {
	i.IsDeleted = true
	i.Touch()
}
