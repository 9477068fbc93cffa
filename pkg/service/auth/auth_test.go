package auth_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	usersvc "github.com/amirasaad/backoffice/pkg/service/user"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	utils.SetPasswordCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

type env struct {
	auth  *authsvc.Service
	users *usersvc.Service
}

func setup(t *testing.T) env {
	t.Helper()
	uow, _ := fixtures.NewTestUoW(t)
	cfg := &config.Jwt{Secret: "test-secret", Expiry: time.Hour}
	return env{
		auth:  authsvc.New(uow, cfg, slog.Default()),
		users: usersvc.New(uow, nil, 0, slog.Default()),
	}
}

func TestLogin(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	created, err := e.users.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	for _, identity := range []string{"alice", "ALICE", "Alice@Example.com"} {
		u, token, err := e.auth.Login(ctx, identity, "secret123")
		require.NoError(t, err, identity)
		assert.Equal(t, created.ID, u.ID)
		assert.NotEmpty(t, token)
	}
}

func TestLogin_Failures(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.users.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = e.auth.Login(ctx, "bob", "wrong-password")
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = e.auth.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)
}

func TestTokenRoundTrip(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	created, err := e.users.Register(ctx, "carol", "carol@example.com", "secret123")
	require.NoError(t, err)

	_, raw, err := e.auth.Login(ctx, "carol", "secret123")
	require.NoError(t, err)
	token, err := e.auth.ParseToken(raw)
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, created.ID, claims[authsvc.ClaimSubject])
	assert.Equal(t, "USER", claims[authsvc.ClaimRole])

	actor, err := e.auth.Actor(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, actor.Role)

	require.NoError(t, e.users.Delete(ctx, actor, created.ID))
	_, err = e.auth.Actor(ctx, token)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized, "deleted users lose access")
}

func TestParseToken_Rejects(t *testing.T) {
	e := setup(t)
	other := authsvc.New(nil, &config.Jwt{Secret: "other", Expiry: time.Hour}, slog.Default())
	raw, err := other.GenerateToken(&user.User{Role: user.RoleUser})
	require.NoError(t, err)

	_, err = e.auth.ParseToken(raw)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	_, err = e.auth.Actor(context.Background(), nil)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)
}
