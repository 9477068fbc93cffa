// Package catalog serves products, account types and card types. Every
// authenticated user may read the catalog; writes are admin only.
package catalog

import (
	"context"

	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/middleware"
	"github.com/amirasaad/backoffice/pkg/repository"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Service is implemented by every catalog of pkg/service/product.
type Service interface {
	Create(ctx context.Context, d product.Details) (*dto.CatalogRead, error)
	Get(ctx context.Context, publicID string, includeDeleted bool) (*dto.CatalogRead, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*dto.CatalogRead, error)
	Update(ctx context.Context, publicID string, d product.Details) (*dto.CatalogRead, error)
	Delete(ctx context.Context, publicID string) error
	Kind() product.Kind
}

// Catalogs groups the three catalogs served under their own paths.
type Catalogs struct {
	Products     Service
	AccountTypes Service
	CardTypes    Service
}

func Routes(app *fiber.App, catalogs Catalogs, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt, authSvc)
	admin := middleware.RequireAdmin()
	register := func(path string, svc Service) {
		app.Post(path, protected, admin, CreateEntry(svc))
		app.Get(path, protected, ListEntries(svc))
		app.Get(path+"/:id", protected, GetEntry(svc))
		app.Put(path+"/:id", protected, admin, UpdateEntry(svc))
		app.Delete(path+"/:id", protected, admin, DeleteEntry(svc))
	}
	register("/products", catalogs.Products)
	register("/account-types", catalogs.AccountTypes)
	register("/card-types", catalogs.CardTypes)
}

func (in *CatalogInput) details() product.Details {
	return product.Details{
		Name:        in.Name,
		Description: in.Description,
		Interest:    in.Interest,
	}
}

// CreateEntry adds a catalog entry.
// @Summary Create catalog entry
// @Description Names are unique ignoring case, soft deleted entries included. Admin only.
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body CatalogInput true "Entry data"
// @Success 201 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Router /products [post]
// @Router /account-types [post]
// @Router /card-types [post]
// @Security Bearer
func CreateEntry(svc Service) fiber.Handler {
	noun := string(svc.Kind())
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CatalogInput](c)
		if input == nil {
			return err
		}
		out, err := svc.Create(c.UserContext(), input.details())
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't create "+noun, err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusCreated, "Created "+noun, out)
	}
}

// ListEntries lists a catalog.
// @Summary List catalog entries
// @Tags catalog
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param includeDeleted query bool false "Include soft deleted entries (admin)"
// @Success 200 {object} apiutil.Response
// @Router /products [get]
// @Router /account-types [get]
// @Router /card-types [get]
// @Security Bearer
func ListEntries(svc Service) fiber.Handler {
	noun := string(svc.Kind())
	return func(c *fiber.Ctx) error {
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		opts.IncludeDeleted = opts.IncludeDeleted && isAdmin(c)
		out, err := svc.List(c.UserContext(), opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list "+noun+"s", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Fetched "+noun+"s", out)
	}
}

// GetEntry returns one catalog entry.
// @Summary Get catalog entry
// @Tags catalog
// @Produce json
// @Param id path string true "Entry public ID"
// @Success 200 {object} apiutil.Response
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /products/{id} [get]
// @Router /account-types/{id} [get]
// @Router /card-types/{id} [get]
// @Security Bearer
func GetEntry(svc Service) fiber.Handler {
	noun := string(svc.Kind())
	return func(c *fiber.Ctx) error {
		includeDeleted := common.IncludeDeleted(c) && isAdmin(c)
		out, err := svc.Get(c.UserContext(), c.Params("id"), includeDeleted)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch "+noun, err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Found "+noun, out)
	}
}

// UpdateEntry replaces a catalog entry.
// @Summary Update catalog entry
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Entry public ID"
// @Param request body CatalogInput true "Entry data"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Router /products/{id} [put]
// @Router /account-types/{id} [put]
// @Router /card-types/{id} [put]
// @Security Bearer
func UpdateEntry(svc Service) fiber.Handler {
	noun := string(svc.Kind())
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CatalogInput](c)
		if input == nil {
			return err
		}
		out, err := svc.Update(c.UserContext(), c.Params("id"), input.details())
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't update "+noun, err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Updated "+noun, out)
	}
}

// DeleteEntry soft deletes a catalog entry. Account types in use by
// active accounts are rejected with 409.
// @Summary Delete catalog entry
// @Tags catalog
// @Param id path string true "Entry public ID"
// @Success 204
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Router /products/{id} [delete]
// @Router /account-types/{id} [delete]
// @Router /card-types/{id} [delete]
// @Security Bearer
func DeleteEntry(svc Service) fiber.Handler {
	noun := string(svc.Kind())
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't delete "+noun, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func isAdmin(c *fiber.Ctx) bool {
	actor, ok := middleware.ActorFrom(c)
	return ok && actor.IsAdmin()
}
