package account_test

import (
	"context"
	"testing"

	accountinfra "github.com/amirasaad/backoffice/infra/repository/account"
	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRepository_AdjustBalance(t *testing.T) {
	utils.SetPasswordCost(bcrypt.MinCost)
	uow, db := fixtures.NewTestUoW(t)
	fixtures.SeedCatalog(t, uow)
	_, c := fixtures.SeedCustomer(t, uow, "alice", "12345678Z")
	acc := fixtures.SeedAccount(t, uow, c, "CHECKING", "100.00")
	repo := accountinfra.New(db)
	ctx := context.Background()

	// Two debits computed from the same stale read both see 100.00.
	require.NoError(t, repo.AdjustBalance(ctx, acc.ID, decimal.RequireFromString("-70")))
	err := repo.AdjustBalance(ctx, acc.ID, decimal.RequireFromString("-70"))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	got, err := repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("30")), "balance %s", got.Balance)

	require.NoError(t, repo.AdjustBalance(ctx, acc.ID, decimal.RequireFromString("12.35")))
	require.NoError(t, repo.AdjustBalance(ctx, acc.ID, decimal.RequireFromString("-42.35")))
	got, err = repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero(), "balance %s", got.Balance)
}

func TestRepository_AdjustBalanceDeletedAccount(t *testing.T) {
	utils.SetPasswordCost(bcrypt.MinCost)
	uow, db := fixtures.NewTestUoW(t)
	fixtures.SeedCatalog(t, uow)
	_, c := fixtures.SeedCustomer(t, uow, "bob", "00000000T")
	acc := fixtures.SeedAccount(t, uow, c, "SAVINGS", "10")
	repo := accountinfra.New(db)
	ctx := context.Background()

	require.NoError(t, repo.SoftDelete(ctx, acc.ID))
	err := repo.AdjustBalance(ctx, acc.ID, decimal.RequireFromString("5"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
