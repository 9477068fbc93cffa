package client_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/repository"
	clientsvc "github.com/amirasaad/backoffice/pkg/service/client"
	usersvc "github.com/amirasaad/backoffice/pkg/service/user"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.SetPasswordCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

type ClientServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	users   *usersvc.Service
	clients *clientsvc.Service
}

func (s *ClientServiceTestSuite) SetupTest() {
	uow, db := fixtures.NewTestUoW(s.T())
	s.db = db
	s.users = usersvc.New(uow, nil, 0, slog.Default())
	s.clients = clientsvc.New(uow, slog.Default())
}

func (s *ClientServiceTestSuite) actor(username string) user.Actor {
	u, err := s.users.Register(context.Background(), username, username+"@example.com", "secret123")
	s.Require().NoError(err)
	return fixtures.ActorOf(s.T(), s.db, u.ID)
}

func profile(dni, email string) client.Profile {
	return client.Profile{DNI: dni, Email: email, Name: "Ana", Surname: "García", Phone: "+34600000000"}
}

func (s *ClientServiceTestSuite) TestCreate() {
	ctx := context.Background()
	alice := s.actor("alice")

	c, err := s.clients.Create(ctx, alice, profile("12345678z", "Ana@Example.com"))
	s.Require().NoError(err)
	s.Equal("12345678Z", c.DNI)
	s.Equal("ana@example.com", c.Email)
	s.NotEmpty(c.UserID)

	me, err := s.clients.Me(ctx, alice)
	s.Require().NoError(err)
	s.Equal(c.ID, me.ID)

	_, err = s.clients.Create(ctx, alice, profile("00000000T", "other@example.com"))
	s.ErrorIs(err, client.ErrUserHasClient)
}

func (s *ClientServiceTestSuite) TestCreate_Conflicts() {
	ctx := context.Background()
	_, err := s.clients.Create(ctx, s.actor("alice"), profile("12345678Z", "ana@example.com"))
	s.Require().NoError(err)
	bob := s.actor("bob")

	_, err = s.clients.Create(ctx, bob, profile("12345678z", "bob@example.com"))
	s.ErrorIs(err, client.ErrDNITaken, "dni compares case-insensitively")
	s.ErrorIs(err, domain.ErrAlreadyExists)

	_, err = s.clients.Create(ctx, bob, profile("00000000T", "ANA@example.com"))
	s.ErrorIs(err, client.ErrEmailTaken)

	_, err = s.clients.Me(ctx, bob)
	s.ErrorIs(err, client.ErrClientNotFound, "nothing persisted on conflict")
}

func (s *ClientServiceTestSuite) TestCreate_Validation() {
	_, err := s.clients.Create(context.Background(), s.actor("alice"), client.Profile{DNI: "12345678A"})
	var ve *domain.ValidationError
	s.Require().True(errors.As(err, &ve))
	s.Len(ve.Fields, 4)
}

func (s *ClientServiceTestSuite) TestUpdateAndAccess() {
	ctx := context.Background()
	alice := s.actor("alice")
	bob := s.actor("bob")
	c, err := s.clients.Create(ctx, alice, profile("12345678Z", "ana@example.com"))
	s.Require().NoError(err)
	_, err = s.clients.Create(ctx, bob, profile("00000000T", "bob@example.com"))
	s.Require().NoError(err)

	p := profile("12345678Z", "ana.new@example.com")
	p.Address = "Calle Mayor 1"
	updated, err := s.clients.Update(ctx, alice, c.ID, p)
	s.Require().NoError(err)
	s.Equal("ana.new@example.com", updated.Email)
	s.Equal(c.UserID, updated.UserID)
	s.Equal(c.CreatedAt, updated.CreatedAt)

	_, err = s.clients.Update(ctx, alice, c.ID, profile("00000000t", "ana@example.com"))
	s.ErrorIs(err, client.ErrDNITaken, "updating onto another client's dni conflicts")

	_, err = s.clients.Get(ctx, bob, c.ID, false)
	s.ErrorIs(err, domain.ErrForbidden)

	_, err = s.clients.List(ctx, alice, repository.ListOptions{})
	s.ErrorIs(err, domain.ErrForbidden)
}

func (s *ClientServiceTestSuite) TestDelete() {
	ctx := context.Background()
	alice := s.actor("alice")
	c, err := s.clients.Create(ctx, alice, profile("12345678Z", "ana@example.com"))
	s.Require().NoError(err)

	s.Require().NoError(s.clients.Delete(ctx, alice, c.ID))
	_, err = s.clients.Get(ctx, alice, c.ID, true)
	s.ErrorIs(err, client.ErrClientNotFound, "only admins see deleted rows")

	admin := fixtures.Admin()
	got, err := s.clients.Get(ctx, admin, c.ID, true)
	s.Require().NoError(err)
	s.True(got.IsDeleted)

	list, err := s.clients.List(ctx, admin, repository.ListOptions{})
	s.Require().NoError(err)
	s.Empty(list)
	list, err = s.clients.List(ctx, admin, repository.ListOptions{IncludeDeleted: true})
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.clients.Create(ctx, s.actor("bob"), profile("12345678Z", "bob@example.com"))
	s.ErrorIs(err, client.ErrDNITaken, "soft deleted rows keep their keys")
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func TestProfileIgnoresUnknownUser(t *testing.T) {
	uow, _ := fixtures.NewTestUoW(t)
	svc := clientsvc.New(uow, slog.Default())
	_, err := svc.Create(context.Background(), fixtures.Admin(), profile("12345678Z", "ana@example.com"))
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	require.Error(t, err)
}
