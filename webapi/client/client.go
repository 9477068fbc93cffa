package client

import (
	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/middleware"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	clientsvc "github.com/amirasaad/backoffice/pkg/service/client"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, clientSvc *clientsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt, authSvc)
	app.Post("/clients", protected, CreateClient(clientSvc))
	app.Get("/clients", protected, middleware.RequireAdmin(), ListClients(clientSvc))
	app.Get("/clients/me", protected, MyClient(clientSvc))
	app.Get("/clients/:id", protected, GetClient(clientSvc))
	app.Put("/clients/:id", protected, UpdateClient(clientSvc))
	app.Delete("/clients/:id", protected, DeleteClient(clientSvc))
}

// CreateClient attaches a client profile to the current user.
// @Summary Create client
// @Description A user has at most one client. DNI and email are unique.
// @Tags clients
// @Accept json
// @Produce json
// @Param request body ClientInput true "Client profile"
// @Success 201 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 401 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Router /clients [post]
// @Security Bearer
func CreateClient(clientSvc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[ClientInput](c)
		if input == nil {
			return err
		}
		out, err := clientSvc.Create(c.UserContext(), actor, input.profile())
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't create client", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusCreated, "Client created", out)
	}
}

// ListClients returns clients page by page.
// @Summary List clients
// @Description Admin only
// @Tags clients
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param includeDeleted query bool false "Include soft deleted clients"
// @Success 200 {object} apiutil.Response
// @Failure 403 {object} apiutil.ProblemDetails
// @Router /clients [get]
// @Security Bearer
func ListClients(clientSvc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		out, err := clientSvc.List(c.UserContext(), actor, opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list clients", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Clients fetched", out)
	}
}

// MyClient returns the client of the current user.
// @Summary Current client
// @Tags clients
// @Produce json
// @Success 200 {object} apiutil.Response
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /clients/me [get]
// @Security Bearer
func MyClient(clientSvc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		out, err := clientSvc.Me(c.UserContext(), actor)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch client", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Client found", out)
	}
}

// GetClient returns a client by public id.
// @Summary Get client
// @Tags clients
// @Produce json
// @Param id path string true "Client public ID"
// @Param includeDeleted query bool false "Include a soft deleted client (admin)"
// @Success 200 {object} apiutil.Response
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /clients/{id} [get]
// @Security Bearer
func GetClient(clientSvc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		out, err := clientSvc.Get(c.UserContext(), actor, c.Params("id"), common.IncludeDeleted(c))
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch client", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Client found", out)
	}
}

// UpdateClient replaces a client profile.
// @Summary Update client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client public ID"
// @Param request body ClientInput true "Client profile"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Router /clients/{id} [put]
// @Security Bearer
func UpdateClient(clientSvc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[ClientInput](c)
		if input == nil {
			return err
		}
		out, err := clientSvc.Update(c.UserContext(), actor, c.Params("id"), input.profile())
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't update client", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Client updated", out)
	}
}

// DeleteClient soft deletes a client.
// @Summary Delete client
// @Tags clients
// @Param id path string true "Client public ID"
// @Success 204
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /clients/{id} [delete]
// @Security Bearer
func DeleteClient(clientSvc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		if err := clientSvc.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't delete client", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
