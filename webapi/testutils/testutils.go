// Package testutils provides an end-to-end harness that drives the full
// HTTP app over an isolated in-memory database.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	infracache "github.com/amirasaad/backoffice/infra/cache"
	"github.com/amirasaad/backoffice/infra/notifier"
	"github.com/amirasaad/backoffice/infra/provider/exchangerateapi"
	"github.com/amirasaad/backoffice/infra/storage"
	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/app"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/amirasaad/backoffice/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

// E2ETestSuite boots the whole app per test. Suites embedding it and
// defining their own SetupTest must call E2ETestSuite.SetupTest first.
type E2ETestSuite struct {
	suite.Suite
	DB     *gorm.DB
	App    *app.App
	Sender *FlakySender
	Cfg    *config.App
	fiber  *fiber.App
}

// FlakySender delivers to memory until told to fail.
type FlakySender struct {
	*notifier.Memory
	fail atomic.Bool
}

func (f *FlakySender) Send(ctx context.Context, n *notification.Notification) error {
	if f.fail.Load() {
		return errors.New("transport down")
	}
	return f.Memory.Send(ctx, n)
}

// FailNotifications makes every following delivery fail, or succeed again.
func (s *E2ETestSuite) FailNotifications(fail bool) {
	s.Sender.fail.Store(fail)
}

// TestUser is a registered user with the credentials used to create it.
type TestUser struct {
	ID       string
	Username string
	Email    string
	Password string
	Token    string
}

// NewTestConfig returns a configuration suitable for tests.
func NewTestConfig(uploadDir string) *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text"},
		DB:     &config.DB{Driver: "sqlite"},
		Auth: &config.Auth{
			Jwt:          &config.Jwt{Secret: "test-secret", Expiry: time.Hour},
			PasswordCost: bcrypt.MinCost,
		},
		RateLimit:    &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Notification: &config.Notification{Driver: "memory"},
		ExchangeRateApi: &config.ExchangeRateApi{
			BaseCurrency: "EUR",
			HTTPTimeout:  time.Second,
		},
		ExchangeRateCache: &config.ExchangeRateCache{Driver: "memory", TTL: time.Minute},
		Storage: &config.Storage{
			Driver:    "local",
			Dir:       uploadDir,
			PublicURL: "/uploads",
			MaxSize:   1 << 20,
		},
	}
}

func (s *E2ETestSuite) SetupTest() {
	utils.SetPasswordCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	uow, db := fixtures.NewTestUoW(s.T())
	s.DB = db
	s.Cfg = NewTestConfig(s.T().TempDir())
	s.Sender = &FlakySender{Memory: notifier.NewMemory(logger)}

	store, err := storage.NewLocal(s.Cfg.Storage.Dir, s.Cfg.Storage.PublicURL, logger)
	s.Require().NoError(err)

	s.App = app.New(&app.Deps{
		Uow:          uow,
		RateProvider: exchangerateapi.NewFixed(),
		RateCache:    infracache.NewMemoryRateCache(),
		Sender:       s.Sender,
		Store:        store,
		Logger:       logger,
	}, s.Cfg)
	s.fiber = webapi.SetupApp(s.App)
}

// Fiber exposes the app for tests that build requests themselves.
func (s *E2ETestSuite) Fiber() *fiber.App { return s.fiber }

// MakeRequest is a helper for making HTTP requests in tests
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return s.do(req, token)
}

// Upload sends content as the multipart field "file".
func (s *E2ETestSuite) Upload(method, path, filename string, content []byte, token string) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.do(req, token)
}

func (s *E2ETestSuite) do(req *http.Request, token string) *http.Response {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.fiber.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// Decode reads a success envelope, decoding its data into out.
func (s *E2ETestSuite) Decode(resp *http.Response, out any) apiutil.Response {
	defer resp.Body.Close() //nolint:errcheck
	var raw struct {
		apiutil.Response
		Data json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&raw))
	if out != nil && len(raw.Data) > 0 {
		s.Require().NoError(json.Unmarshal(raw.Data, out))
	}
	return raw.Response
}

// Problem reads a problem details body.
func (s *E2ETestSuite) Problem(resp *http.Response) apiutil.ProblemDetails {
	defer resp.Body.Close() //nolint:errcheck
	var p apiutil.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&p))
	return p
}

// Fields lists the fields named in a problem's errors.
func Fields(p apiutil.ProblemDetails) []string {
	out := make([]string, 0, len(p.Errors))
	for _, fe := range p.Errors {
		out = append(out, fe.Field)
	}
	return out
}

// CreateTestUser registers a unique user and logs them in.
func (s *E2ETestSuite) CreateTestUser() *TestUser {
	suffix := uuid.NewString()[:8]
	u := &TestUser{
		Username: "testuser_" + suffix,
		Email:    fmt.Sprintf("test_%s@example.com", suffix),
		Password: testPassword,
	}
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, u.Username, u.Email, u.Password)
	resp := s.MakeRequest(http.MethodPost, "/users", body, "")
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	s.Decode(resp, &created)
	s.Require().NotEmpty(created.ID)
	u.ID = created.ID
	u.Token = s.LoginUser(u.Email, u.Password)
	return u
}

// CreateTestAdmin creates a user, promotes it to admin and logs in.
func (s *E2ETestSuite) CreateTestAdmin() *TestUser {
	u := s.CreateTestUser()
	s.Require().NoError(s.DB.Table("users").
		Where("public_id = ?", u.ID).
		Update("role", string(user.RoleAdmin)).Error)
	u.Token = s.LoginUser(u.Username, u.Password)
	return u
}

// LoginUser makes an actual HTTP request to login and returns the JWT token
func (s *E2ETestSuite) LoginUser(identity, password string) string {
	body := fmt.Sprintf(`{"identity":%q,"password":%q}`, identity, password)
	resp := s.MakeRequest(http.MethodPost, "/auth/login", body, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	s.Decode(resp, &out)
	s.Require().NotEmpty(out.Token, "no token found in response")
	return out.Token
}

// CreateTestClient attaches a client profile to u.
func (s *E2ETestSuite) CreateTestClient(u *TestUser, dni string) string {
	body := fmt.Sprintf(
		`{"dni":%q,"email":%q,"name":"Ana","surname":"García","phone":"600000000"}`,
		dni, "client_"+u.Email,
	)
	resp := s.MakeRequest(http.MethodPost, "/clients", body, u.Token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var out struct {
		ID string `json:"id"`
	}
	s.Decode(resp, &out)
	return out.ID
}

// SeedCatalog creates the default account and card types.
func (s *E2ETestSuite) SeedCatalog() {
	fixtures.SeedCatalog(s.T(), s.App.Deps.Uow)
}

// OpenTestAccount opens an account of the given type for u and returns
// its iban.
func (s *E2ETestSuite) OpenTestAccount(u *TestUser, accountType string) string {
	body := fmt.Sprintf(`{"accountType":%q,"password":"secret1"}`, accountType)
	resp := s.MakeRequest(http.MethodPost, "/accounts", body, u.Token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var out struct {
		IBAN string `json:"iban"`
	}
	s.Decode(resp, &out)
	s.Require().NotEmpty(out.IBAN)
	return out.IBAN
}

// Deposit credits amount to iban through the movements endpoint.
func (s *E2ETestSuite) Deposit(u *TestUser, iban, amount string) {
	body := fmt.Sprintf(`{"movementType":"DEPOSIT","iban":%q,"amount":%s}`, iban, amount)
	resp := s.MakeRequest(http.MethodPost, "/movements", body, u.Token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()
}
