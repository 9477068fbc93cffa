package movement

import (
	"strings"

	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	movementdomain "github.com/amirasaad/backoffice/pkg/domain/movement"
	"github.com/amirasaad/backoffice/pkg/middleware"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	movementsvc "github.com/amirasaad/backoffice/pkg/service/movement"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func Routes(app *fiber.App, movementSvc *movementsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt, authSvc)
	app.Post("/movements", protected, CreateMovement(movementSvc))
	app.Get("/movements", protected, ListMovements(movementSvc))
	app.Get("/movements/:id", protected, GetMovement(movementSvc))
}

// CreateMovement records a deposit, withdrawal, transfer or card payment.
// @Summary Create movement
// @Description Balances change atomically with the movement. Debits never leave a negative balance.
// @Description Transfers to an unknown IBAN are external. A 503 means the movement was recorded but not notified.
// @Tags movements
// @Accept json
// @Produce json
// @Param request body MovementInput true "Movement data"
// @Success 201 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 422 {object} apiutil.ProblemDetails
// @Failure 503 {object} apiutil.ProblemDetails
// @Router /movements [post]
// @Security Bearer
func CreateMovement(movementSvc *movementsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[MovementInput](c)
		if input == nil {
			return err
		}
		out, err := movementSvc.Create(c.UserContext(), actor, movementdomain.Request{
			Type:            movementdomain.Type(strings.ToUpper(input.MovementType)),
			SourceIBAN:      input.IBAN,
			DestinationIBAN: input.DestinationIBAN,
			Amount:          input.Amount,
			CardID:          input.CardID,
		})
		if err != nil {
			if out != nil {
				log.Warnf("Movement %s recorded without notification: %v", out.ID, err)
				return apiutil.ProblemDetailsJSON(c, "Movement recorded, notification failed", err)
			}
			return apiutil.ProblemDetailsJSON(c, "Couldn't record movement", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusCreated, "Movement recorded", out)
	}
}

// ListMovements returns movements on the current user's accounts, or
// every movement for admins.
// @Summary List movements
// @Tags movements
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} apiutil.Response
// @Router /movements [get]
// @Security Bearer
func ListMovements(movementSvc *movementsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		out, err := movementSvc.List(c.UserContext(), actor, opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list movements", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Movements fetched", out)
	}
}

// GetMovement returns a movement by public id.
// @Summary Get movement
// @Tags movements
// @Produce json
// @Param id path string true "Movement public ID"
// @Success 200 {object} apiutil.Response
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /movements/{id} [get]
// @Security Bearer
func GetMovement(movementSvc *movementsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		out, err := movementSvc.Get(c.UserContext(), actor, c.Params("id"))
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch movement", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Movement found", out)
	}
}
