package user_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/repository"
	usersvc "github.com/amirasaad/backoffice/pkg/service/user"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestMain(m *testing.M) {
	utils.SetPasswordCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

func newService(t *testing.T, store *fixtures.MockStore) (*usersvc.Service, *gorm.DB) {
	t.Helper()
	uow, db := fixtures.NewTestUoW(t)
	if store == nil {
		return usersvc.New(uow, nil, 64, slog.Default()), db
	}
	return usersvc.New(uow, store, 64, slog.Default()), db
}

func register(t *testing.T, svc *usersvc.Service, username string) *dto.UserRead {
	t.Helper()
	u, err := svc.Register(context.Background(), username, username+"@example.com", "secret123")
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc, _ := newService(t, nil)

	u := register(t, svc, "alice")
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "USER", u.Role)
	assert.False(t, u.IsDeleted)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.CreatedAt)
}

func TestRegister_Conflicts(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	register(t, svc, "alice")

	_, err := svc.Register(ctx, "ALICE", "other@example.com", "secret123")
	assert.ErrorIs(t, err, user.ErrUsernameTaken, "usernames compare case-insensitively")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.Register(ctx, "bob", "Alice@Example.com", "secret123")
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	users, err := svc.List(ctx, user.Actor{Role: user.RoleAdmin}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 1, "nothing persisted on conflict")
}

func TestRegister_ValidationListsEveryField(t *testing.T) {
	svc, _ := newService(t, nil)

	_, err := svc.Register(context.Background(), "x", "nope", "123")
	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email", "password"}, fields)
}

func TestDelete_HidesUserAndKeepsKey(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	admin := user.Actor{Role: user.RoleAdmin}
	u := register(t, svc, "carol")

	require.NoError(t, svc.Delete(ctx, admin, u.ID))

	_, err := svc.Get(ctx, admin, u.ID, false)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	got, err := svc.Get(ctx, admin, u.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	_, err = svc.Register(ctx, "carol", "new@example.com", "secret123")
	assert.ErrorIs(t, err, user.ErrUsernameTaken, "deleted rows still own their key")

	listed, err := svc.List(ctx, admin, repository.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUpdate(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	aliceActor := fixtures.ActorOf(t, db, alice.ID)

	name := "alice2"
	got, err := svc.Update(ctx, aliceActor, alice.ID, usersvc.UpdateInput{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, alice.CreatedAt, got.CreatedAt)

	taken := "BOB"
	_, err = svc.Update(ctx, aliceActor, alice.ID, usersvc.UpdateInput{Username: &taken})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	_, err = svc.Update(ctx, aliceActor, bob.ID, usersvc.UpdateInput{Username: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	bad, short := "bad", "x"
	_, err = svc.Update(ctx, aliceActor, alice.ID, usersvc.UpdateInput{Email: &bad, Password: &short})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 2)
}

func TestList_AdminOnly(t *testing.T) {
	svc, db := newService(t, nil)
	u := register(t, svc, "dave")

	_, err := svc.List(context.Background(), fixtures.ActorOf(t, db, u.ID), repository.ListOptions{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUploadAvatar(t *testing.T) {
	store := &fixtures.MockStore{}
	svc, db := newService(t, store)
	ctx := context.Background()
	u := register(t, svc, "erin")
	actor := fixtures.ActorOf(t, db, u.ID)

	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "avatars/"+u.ID+"-") && strings.HasSuffix(key, ".png")
	}), "image/png", mock.Anything, int64(len(pngHeader))).Return("/uploads/avatar.png", nil).Once()

	got, err := svc.UploadAvatar(ctx, actor, u.ID, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatar.png", got.Avatar)
	store.AssertExpectations(t)
}

func TestUploadAvatar_Rejections(t *testing.T) {
	store := &fixtures.MockStore{}
	svc, db := newService(t, store)
	ctx := context.Background()
	u := register(t, svc, "frank")
	actor := fixtures.ActorOf(t, db, u.ID)

	_, err := svc.UploadAvatar(ctx, actor, u.ID, strings.NewReader("plain text is not an image"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)

	big := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err = svc.UploadAvatar(ctx, actor, u.ID, bytes.NewReader(big))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UploadAvatar(ctx, actor, u.ID, bytes.NewReader(nil))
	assert.ErrorIs(t, err, domain.ErrValidation)

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
