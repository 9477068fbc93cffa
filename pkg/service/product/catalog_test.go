package product_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/repository"
	productsvc "github.com/amirasaad/backoffice/pkg/service/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountTypes(t *testing.T) {
	uow, _ := fixtures.NewTestUoW(t)
	svc := productsvc.NewAccountTypes(uow, slog.Default())
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Details{Name: "savings", Description: "Savings", Interest: decimal.RequireFromString("1.5")})
	require.NoError(t, err)
	assert.Equal(t, "SAVINGS", created.Name)
	require.NotNil(t, created.Interest)
	assert.Equal(t, 1.5, *created.Interest)

	_, err = svc.Create(ctx, product.Details{Name: "Savings"})
	assert.ErrorIs(t, err, product.ErrNameTaken)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.Create(ctx, product.Details{Name: "", Interest: decimal.RequireFromString("-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := svc.Get(ctx, created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := svc.Update(ctx, created.ID, product.Details{Name: "savings plus", Interest: decimal.RequireFromString("2")})
	require.NoError(t, err)
	assert.Equal(t, "SAVINGS PLUS", updated.Name)
	assert.Equal(t, 2.0, *updated.Interest)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	err = uow.Do(ctx, func(u repository.UnitOfWork) error {
		at, err := svc.Resolve(ctx, u, "Savings Plus")
		require.NoError(t, err)
		assert.Equal(t, "SAVINGS PLUS", at.Name)
		_, err = svc.Resolve(ctx, u, "CHECKING")
		assert.ErrorIs(t, err, product.ErrAccountTypeNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestCatalogSoftDelete(t *testing.T) {
	uow, _ := fixtures.NewTestUoW(t)
	svc := productsvc.NewCardTypes(uow, slog.Default())
	ctx := context.Background()

	debit, err := svc.Create(ctx, product.Details{Name: "debit"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, product.Details{Name: "credit"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, debit.ID))
	assert.ErrorIs(t, svc.Delete(ctx, debit.ID), product.ErrCardTypeNotFound)

	_, err = svc.Get(ctx, debit.ID, false)
	assert.ErrorIs(t, err, product.ErrCardTypeNotFound)
	hidden, err := svc.Get(ctx, debit.ID, true)
	require.NoError(t, err)
	assert.True(t, hidden.IsDeleted)

	list, err := svc.List(ctx, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CREDIT", list[0].Name)

	_, err = svc.Create(ctx, product.Details{Name: "DEBIT"})
	assert.ErrorIs(t, err, product.ErrNameTaken, "deleted names stay reserved")

	err = uow.Do(ctx, func(u repository.UnitOfWork) error {
		_, err := svc.Resolve(ctx, u, "debit")
		return err
	})
	assert.ErrorIs(t, err, product.ErrCardTypeNotFound, "deleted types do not resolve")
}

func TestProductsPagination(t *testing.T) {
	uow, _ := fixtures.NewTestUoW(t)
	svc := productsvc.NewProducts(uow, slog.Default())
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, product.Details{Name: "loan " + name})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, repository.ListOptions{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, product.KindProduct, svc.Kind())
}
