package account

import (
	"strings"

	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/middleware"
	accountsvc "github.com/amirasaad/backoffice/pkg/service/account"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	movementsvc "github.com/amirasaad/backoffice/pkg/service/movement"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the account endpoints.
func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	movementSvc *movementsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt, authSvc)
	app.Post("/accounts", protected, OpenAccount(accountSvc))
	app.Get("/accounts", protected, ListAccounts(accountSvc))
	app.Get("/accounts/:iban/balance", protected, GetBalance(accountSvc))
	app.Get("/accounts/:iban/movements", protected, ListAccountMovements(movementSvc))
	app.Get("/accounts/:iban", protected, GetAccount(accountSvc))
	app.Put("/accounts/:iban", protected, UpdateAccount(accountSvc))
	app.Delete("/accounts/:iban", protected, DeleteAccount(accountSvc))
}

// OpenAccount opens an account for the current user's client.
// @Summary Open account
// @Description Opens an account with a zero balance. The IBAN is generated unless given.
// @Description A 503 means the account was opened but the notification could not be delivered.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body OpenAccountInput true "Account data"
// @Success 201 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 401 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Failure 503 {object} apiutil.ProblemDetails
// @Router /accounts [post]
// @Security Bearer
func OpenAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[OpenAccountInput](c)
		if input == nil {
			return err
		}
		out, err := accountSvc.Open(c.UserContext(), actor, accountsvc.OpenInput{
			AccountType: input.AccountType,
			Password:    input.Password,
			IBAN:        input.IBAN,
			ClientID:    input.ClientID,
		})
		if err != nil {
			if out != nil {
				log.Warnf("Account %s opened without notification: %v", out.IBAN, err)
				return apiutil.ProblemDetailsJSON(c, "Account opened, notification failed", err)
			}
			return apiutil.ProblemDetailsJSON(c, "Couldn't open account", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusCreated, "Account opened", out)
	}
}

// ListAccounts returns the accounts of the current user, or every
// account for admins.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param includeDeleted query bool false "Include soft deleted accounts (admin)"
// @Success 200 {object} apiutil.Response
// @Failure 401 {object} apiutil.ProblemDetails
// @Router /accounts [get]
// @Security Bearer
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		out, err := accountSvc.List(c.UserContext(), actor, opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list accounts", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", out)
	}
}

// GetAccount returns an account by IBAN.
// @Summary Get account
// @Tags accounts
// @Produce json
// @Param iban path string true "IBAN"
// @Param includeDeleted query bool false "Include a soft deleted account (admin)"
// @Success 200 {object} apiutil.Response
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /accounts/{iban} [get]
// @Security Bearer
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		out, err := accountSvc.Get(c.UserContext(), actor, c.Params("iban"), common.IncludeDeleted(c))
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch account", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Account found", out)
	}
}

// GetBalance returns the balance converted into another currency.
// @Summary Get balance
// @Description Converts the balance with the latest exchange rates. Defaults to the base currency.
// @Tags accounts
// @Produce json
// @Param iban path string true "IBAN"
// @Param currency query string false "ISO 4217 target currency"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 503 {object} apiutil.ProblemDetails
// @Router /accounts/{iban}/balance [get]
// @Security Bearer
func GetBalance(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		target := strings.ToUpper(strings.TrimSpace(c.Query("currency")))
		out, err := accountSvc.Balance(c.UserContext(), actor, c.Params("iban"), target)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch balance", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", out)
	}
}

// ListAccountMovements returns the movements of one account.
// @Summary List account movements
// @Tags accounts
// @Produce json
// @Param iban path string true "IBAN"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} apiutil.Response
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /accounts/{iban}/movements [get]
// @Security Bearer
func ListAccountMovements(movementSvc *movementsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		out, err := movementSvc.ListByAccount(c.UserContext(), actor, c.Params("iban"), opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list movements", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Movements fetched", out)
	}
}

// UpdateAccount changes the type or password of an account.
// @Summary Update account
// @Description Balance, IBAN and ownership cannot be changed.
// @Tags accounts
// @Accept json
// @Produce json
// @Param iban path string true "IBAN"
// @Param request body UpdateAccountInput true "Fields to change"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /accounts/{iban} [put]
// @Security Bearer
func UpdateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[UpdateAccountInput](c)
		if input == nil {
			return err
		}
		out, err := accountSvc.Update(c.UserContext(), actor, c.Params("iban"), accountsvc.UpdateInput{
			AccountType: input.AccountType,
			Password:    input.Password,
		})
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't update account", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", out)
	}
}

// DeleteAccount soft deletes an account.
// @Summary Delete account
// @Tags accounts
// @Param iban path string true "IBAN"
// @Success 204
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /accounts/{iban} [delete]
// @Security Bearer
func DeleteAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		if err := accountSvc.Delete(c.UserContext(), actor, c.Params("iban")); err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't delete account", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
