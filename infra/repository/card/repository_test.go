package card_test

import (
	"context"
	"testing"

	cardinfra "github.com/amirasaad/backoffice/infra/repository/card"
	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/repository"
	productrepo "github.com/amirasaad/backoffice/pkg/repository/product"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRepository_OneActiveCardPerAccount(t *testing.T) {
	utils.SetPasswordCost(bcrypt.MinCost)
	uow, db := fixtures.NewTestUoW(t)
	fixtures.SeedCatalog(t, uow)
	_, c := fixtures.SeedCustomer(t, uow, "alice", "12345678Z")
	acc := fixtures.SeedAccount(t, uow, c, "CHECKING", "0")
	ctx := context.Background()

	var debit *product.CardType
	require.NoError(t, uow.Do(ctx, func(uow repository.UnitOfWork) error {
		types, err := repository.Get[productrepo.CardTypeRepository](uow)
		if err != nil {
			return err
		}
		debit, err = types.GetByName(ctx, "DEBIT", false)
		return err
	}))

	repo := cardinfra.New(db)
	first, err := card.New(acc.ID, debit.ID, "1234")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	busy, err := repo.ExistsActiveByCardType(ctx, debit.ID)
	require.NoError(t, err)
	assert.True(t, busy)

	second, err := card.New(acc.ID, debit.ID, "5678")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, second), domain.ErrAlreadyExists)

	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.SoftDelete(ctx, second.ID))
	busy, err = repo.ExistsActiveByCardType(ctx, debit.ID)
	require.NoError(t, err)
	assert.False(t, busy)
}
