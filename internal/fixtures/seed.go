package fixtures

import (
	"context"
	"strings"
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	clientrepo "github.com/amirasaad/backoffice/pkg/repository/client"
	productrepo "github.com/amirasaad/backoffice/pkg/repository/product"
	userrepo "github.com/amirasaad/backoffice/pkg/repository/user"
	"github.com/shopspring/decimal"
)

// SeedCustomer stores a user with a client profile and returns the
// user's actor. dni must be unique within the test database.
func SeedCustomer(tb testing.TB, uow repository.UnitOfWork, username, dni string) (user.Actor, *client.Client) {
	tb.Helper()
	ctx := context.Background()
	u, err := user.New(username, username+"@example.com", "secret123", user.RoleUser)
	if err != nil {
		tb.Fatalf("seed user %s: %v", username, err)
	}
	c, err := client.New(u.ID, client.Profile{
		DNI:     dni,
		Email:   username + "@bank.example.com",
		Name:    strings.ToUpper(username[:1]) + username[1:],
		Surname: "Test",
	})
	if err != nil {
		tb.Fatalf("seed client %s: %v", username, err)
	}
	err = uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		clients, err := repository.Get[clientrepo.Repository](uow)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		return clients.Create(ctx, c)
	})
	if err != nil {
		tb.Fatalf("seed customer %s: %v", username, err)
	}
	return u.Actor(), c
}

// SeedCatalog stores the CHECKING and SAVINGS account types and the
// DEBIT and CREDIT card types.
func SeedCatalog(tb testing.TB, uow repository.UnitOfWork) {
	tb.Helper()
	ctx := context.Background()
	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accountTypes, err := repository.Get[productrepo.AccountTypeRepository](uow)
		if err != nil {
			return err
		}
		cardTypes, err := repository.Get[productrepo.CardTypeRepository](uow)
		if err != nil {
			return err
		}
		for _, d := range []product.Details{
			{Name: "CHECKING"},
			{Name: "SAVINGS", Interest: decimal.RequireFromString("1.50")},
		} {
			t, err := product.NewAccountType(d)
			if err != nil {
				return err
			}
			if err := accountTypes.Create(ctx, t); err != nil {
				return err
			}
		}
		for _, name := range []string{"DEBIT", "CREDIT"} {
			t, err := product.NewCardType(product.Details{Name: name})
			if err != nil {
				return err
			}
			if err := cardTypes.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		tb.Fatalf("seed catalog: %v", err)
	}
}

// SeedAccount stores an account of the named type for c holding
// balance. SeedCatalog must have run first.
func SeedAccount(tb testing.TB, uow repository.UnitOfWork, c *client.Client, accountType, balance string) *account.Account {
	tb.Helper()
	ctx := context.Background()
	var acc *account.Account
	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
		types, err := repository.Get[productrepo.AccountTypeRepository](uow)
		if err != nil {
			return err
		}
		accounts, err := repository.Get[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		t, err := types.GetByName(ctx, accountType, false)
		if err != nil {
			return err
		}
		acc, err = account.New(c.ID, t.ID, "", "secret1")
		if err != nil {
			return err
		}
		acc.Balance = decimal.RequireFromString(balance)
		return accounts.Create(ctx, acc)
	})
	if err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return acc
}
