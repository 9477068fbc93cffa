package user_test

import (
	"context"
	"testing"

	userinfra "github.com/amirasaad/backoffice/infra/repository/user"
	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUser(t *testing.T, username string) *user.User {
	t.Helper()
	u, err := user.New(username, username+"@example.com", "secret123", user.RoleUser)
	require.NoError(t, err)
	return u
}

func TestRepository_CreateAndLookup(t *testing.T) {
	utils.SetPasswordCost(bcrypt.MinCost)
	repo := userinfra.New(fixtures.NewTestDB(t))
	ctx := context.Background()

	alice := newUser(t, "Alice")
	require.NoError(t, repo.Create(ctx, alice))

	got, err := repo.GetByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, alice.PublicID, got.PublicID)

	got, err = repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Username)

	taken, err := repo.ExistsByUsername(ctx, "alice", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.ExistsByUsername(ctx, "alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	err = repo.Create(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepository_UsernameUniqueIgnoringCase(t *testing.T) {
	utils.SetPasswordCost(bcrypt.MinCost)
	repo := userinfra.New(fixtures.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser(t, "Frank")))
	other, err := user.New("FRANK", "someone.else@example.com", "secret123", user.RoleUser)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, other), domain.ErrAlreadyExists)
}

func TestRepository_SoftDelete(t *testing.T) {
	utils.SetPasswordCost(bcrypt.MinCost)
	repo := userinfra.New(fixtures.NewTestDB(t))
	ctx := context.Background()

	bob := newUser(t, "bob")
	require.NoError(t, repo.Create(ctx, bob))
	require.NoError(t, repo.SoftDelete(ctx, bob.ID))

	_, err := repo.GetByPublicID(ctx, bob.PublicID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := repo.GetByPublicID(ctx, bob.PublicID, true)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// deleted users still reserve their username
	taken, err := repo.ExistsByUsername(ctx, "BOB", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	assert.ErrorIs(t, repo.SoftDelete(ctx, uuid.New()), domain.ErrNotFound)
}

func TestRepository_UpdateAndList(t *testing.T) {
	utils.SetPasswordCost(bcrypt.MinCost)
	repo := userinfra.New(fixtures.NewTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"carol", "dave", "erin"} {
		require.NoError(t, repo.Create(ctx, newUser(t, name)))
	}
	page, err := repo.List(ctx, repository.ListOptions{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	page, err = repo.List(ctx, repository.ListOptions{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	carol, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	carol.SetAvatar("/uploads/avatars/carol.png")
	require.NoError(t, repo.Update(ctx, carol))
	got, err := repo.Get(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/carol.png", got.Avatar)

	ghost := newUser(t, "ghost")
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
}
