package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToStatusCode(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("amount", "must be at least 0.01"), fiber.StatusBadRequest},
		{account.ErrIBANTaken, fiber.StatusConflict},
		{account.ErrAccountNotFound, fiber.StatusNotFound},
		{fmt.Errorf("avatar: %w", domain.ErrUnsupportedMedia), fiber.StatusUnsupportedMediaType},
		{notification.ErrDeliveryFailed, fiber.StatusServiceUnavailable},
		{user.ErrUserUnauthorized, fiber.StatusUnauthorized},
		{domain.ErrForbidden, fiber.StatusForbidden},
		{fmt.Errorf("acc: %w", domain.ErrInsufficientFunds), fiber.StatusUnprocessableEntity},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorToStatusCode(tc.err), tc.err.Error())
	}
}

func TestProblemDetailsJSON(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Get("/validation", func(c *fiber.Ctx) error {
		v := &domain.ValidationError{}
		v.Add("amount", "must be at least 0.01")
		v.Add("iban", "must be a valid IBAN")
		return ProblemDetailsJSON(c, "Invalid movement", v)
	})
	app.Get("/override", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Teapot", nil, "short and stout", fiber.StatusTeapot)
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Internal Server Error", errors.New("dsn=secret"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/validation", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ProblemContentType, resp.Header.Get(fiber.HeaderContentType))
	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, "/validation", pd.Instance)
	require.Len(t, pd.Errors, 2)
	assert.Equal(t, "amount", pd.Errors[0].Field)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/override", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	pd = ProblemDetails{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, "short and stout", pd.Detail)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	pd = ProblemDetails{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.NotContains(t, pd.Detail, "secret")
}

func TestSuccessResponseJSON(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return SuccessResponseJSON(c, fiber.StatusCreated, "Created", fiber.Map{"id": "x"})
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusCreated, body.Status)
	assert.Equal(t, "Created", body.Message)
}
