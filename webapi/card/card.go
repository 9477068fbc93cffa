package card

import (
	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/middleware"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	cardsvc "github.com/amirasaad/backoffice/pkg/service/card"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func Routes(app *fiber.App, cardSvc *cardsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt, authSvc)
	app.Post("/cards", protected, IssueCard(cardSvc))
	app.Get("/cards", protected, ListCards(cardSvc))
	app.Get("/cards/:id", protected, GetCard(cardSvc))
	app.Put("/cards/:id", protected, UpdateCard(cardSvc))
	app.Delete("/cards/:id", protected, DeleteCard(cardSvc))
}

// IssueCard issues a card on one of the current user's accounts.
// @Summary Issue card
// @Description An account backs at most one active card. Card numbers are masked in responses.
// @Tags cards
// @Accept json
// @Produce json
// @Param request body IssueCardInput true "Card data"
// @Success 201 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Failure 503 {object} apiutil.ProblemDetails
// @Router /cards [post]
// @Security Bearer
func IssueCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[IssueCardInput](c)
		if input == nil {
			return err
		}
		out, err := cardSvc.Issue(c.UserContext(), actor, cardsvc.IssueInput{
			IBAN:       input.IBAN,
			CardType:   input.CardType,
			Pin:        input.Pin,
			CardNumber: input.CardNumber,
		})
		if err != nil {
			if out != nil {
				log.Warnf("Card %s issued without notification: %v", out.ID, err)
				return apiutil.ProblemDetailsJSON(c, "Card issued, notification failed", err)
			}
			return apiutil.ProblemDetailsJSON(c, "Couldn't issue card", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusCreated, "Card issued", out)
	}
}

// ListCards returns the current user's cards, or every card for admins.
// @Summary List cards
// @Tags cards
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param includeDeleted query bool false "Include soft deleted cards (admin)"
// @Success 200 {object} apiutil.Response
// @Router /cards [get]
// @Security Bearer
func ListCards(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		out, err := cardSvc.List(c.UserContext(), actor, opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list cards", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Cards fetched", out)
	}
}

// GetCard returns a card by public id.
// @Summary Get card
// @Tags cards
// @Produce json
// @Param id path string true "Card public ID"
// @Param includeDeleted query bool false "Include a soft deleted card (admin)"
// @Success 200 {object} apiutil.Response
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /cards/{id} [get]
// @Security Bearer
func GetCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		out, err := cardSvc.Get(c.UserContext(), actor, c.Params("id"), common.IncludeDeleted(c))
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch card", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Card found", out)
	}
}

// UpdateCard changes the type or pin of a card.
// @Summary Update card
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "Card public ID"
// @Param request body UpdateCardInput true "Fields to change"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /cards/{id} [put]
// @Security Bearer
func UpdateCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[UpdateCardInput](c)
		if input == nil {
			return err
		}
		out, err := cardSvc.Update(c.UserContext(), actor, c.Params("id"), cardsvc.UpdateInput{
			CardType: input.CardType,
			Pin:      input.Pin,
		})
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't update card", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Card updated", out)
	}
}

// DeleteCard soft deletes a card.
// @Summary Delete card
// @Tags cards
// @Param id path string true "Card public ID"
// @Success 204
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /cards/{id} [delete]
// @Security Bearer
func DeleteCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		if err := cardSvc.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't delete card", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
