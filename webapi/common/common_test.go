package common

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movementInput struct {
	MovementType string          `json:"movementType" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	IBAN         string          `json:"iban" validate:"notblank"`
	Amount       decimal.Decimal `json:"amount" validate:"gte=0.01"`
}

func TestValidate_ListsEveryField(t *testing.T) {
	t.Parallel()
	err := Validate(movementInput{IBAN: "  ", Amount: decimal.Zero})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "is required", fields["movementType"])
	assert.Equal(t, "must not be blank", fields["iban"])
	assert.Equal(t, "must be greater than or equal to 0.01", fields["amount"])
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Validate(movementInput{
		MovementType: "DEPOSIT", IBAN: "ES91", Amount: decimal.RequireFromString("0.01"),
	}))
}

func TestBindAndValidate(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[movementInput](c)
		if input == nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	post := func(body string) (int, apiutil.ProblemDetails) {
		req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		var pd apiutil.ProblemDetails
		if resp.StatusCode != fiber.StatusNoContent {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
		}
		return resp.StatusCode, pd
	}

	status, _ := post(`{"movementType":"DEPOSIT","iban":"ES91","amount":10.5}`)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, pd := post(`{"movementType":"DEPOSIT","iban":"ES91","amount":0.00}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.Len(t, pd.Errors, 1)
	assert.Equal(t, "amount", pd.Errors[0].Field)

	status, _ = post(`{"movementType":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListOptions(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		opts, err := ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		return c.JSON(opts)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/?page=2&pageSize=500&includeDeleted=true", nil))
	require.NoError(t, err)
	var body struct {
		Page           int
		PageSize       int
		IncludeDeleted bool
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 100, body.PageSize)
	assert.True(t, body.IncludeDeleted)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/?page=zero&includeDeleted=maybe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestValidate_DomainTags(t *testing.T) {
	t.Parallel()
	type input struct {
		IBAN       string `json:"iban" validate:"iban"`
		CardNumber string `json:"cardNumber" validate:"cardnumber"`
		DNI        string `json:"dni" validate:"dni"`
	}

	assert.NoError(t, Validate(input{
		IBAN:       "ES91 2100 0418 4502 0005 1332",
		CardNumber: "4111 1111 1111 1111",
		DNI:        "12345678z",
	}))

	err := Validate(input{IBAN: "ES00", CardNumber: "4111111111111112", DNI: "12345678A"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "must be a valid IBAN", verr.Fields[0].Message)
	assert.Equal(t, "must be a valid card number", verr.Fields[1].Message)
	assert.Equal(t, "dni", verr.Fields[2].Field)
}

func TestNewValidator_RegistersTags(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { newValidator() })
	assert.PanicsWithValue(t, `register validation "": function Key cannot be empty`, func() {
		mustRegister(validator.New(), "", validators.NotBlank)
	})
}
