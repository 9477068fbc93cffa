package user

import (
	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/middleware"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	usersvc "github.com/amirasaad/backoffice/pkg/service/user"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func Routes(app *fiber.App, userSvc *usersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt, authSvc)
	app.Post("/users", CreateUser(userSvc))
	app.Get("/users", protected, middleware.RequireAdmin(), ListUsers(userSvc))
	app.Get("/users/me", protected, Me(userSvc))
	app.Get("/users/:id", protected, GetUser(userSvc))
	app.Put("/users/:id", protected, UpdateUser(userSvc))
	app.Delete("/users/:id", protected, DeleteUser(userSvc))
	app.Put("/users/:id/avatar", protected, UploadAvatar(userSvc))
}

// CreateUser registers a new user with the USER role.
// @Summary Register a user
// @Description Create a user account with username, email, and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body NewUser true "User registration data"
// @Success 201 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Failure 429 {object} apiutil.ProblemDetails
// @Router /users [post]
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err
		}
		user, err := userSvc.Register(c.UserContext(), input.Username, input.Email, input.Password)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't create user", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", user)
	}
}

// ListUsers returns users page by page.
// @Summary List users
// @Description List users. Admin only.
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param includeDeleted query bool false "Include soft deleted users"
// @Success 200 {object} apiutil.Response
// @Failure 401 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Router /users [get]
// @Security Bearer
func ListUsers(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		users, err := userSvc.List(c.UserContext(), actor, opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list users", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Users fetched", users)
	}
}

// Me returns the authenticated user.
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} apiutil.Response
// @Failure 401 {object} apiutil.ProblemDetails
// @Router /users/me [get]
// @Security Bearer
func Me(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		user, err := userSvc.Me(c.UserContext(), actor)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch user", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "User found", user)
	}
}

// GetUser returns a user by public id.
// @Summary Get user by ID
// @Description Users may read themselves; admins may read anyone
// @Tags users
// @Produce json
// @Param id path string true "User public ID"
// @Param includeDeleted query bool false "Include a soft deleted user (admin)"
// @Success 200 {object} apiutil.Response
// @Failure 401 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /users/{id} [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		user, err := userSvc.Get(c.UserContext(), actor, c.Params("id"), common.IncludeDeleted(c))
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch user", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "User found", user)
	}
}

// UpdateUser changes username, email or password.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User public ID"
// @Param request body UpdateUserInput true "Fields to change"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Failure 409 {object} apiutil.ProblemDetails
// @Router /users/{id} [put]
// @Security Bearer
func UpdateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[UpdateUserInput](c)
		if input == nil {
			return err
		}
		user, err := userSvc.Update(c.UserContext(), actor, c.Params("id"), usersvc.UpdateInput{
			Username: input.Username,
			Email:    input.Email,
			Password: input.Password,
		})
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't update user", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "User updated successfully", user)
	}
}

// DeleteUser soft deletes a user.
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User public ID"
// @Success 204
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 404 {object} apiutil.ProblemDetails
// @Router /users/{id} [delete]
// @Security Bearer
func DeleteUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		if err := userSvc.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't delete user", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadAvatar stores an image as the user's avatar.
// @Summary Upload avatar
// @Description Multipart upload of a png, jpeg, gif or webp image in the file field
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "User public ID"
// @Param file formData file true "Avatar image"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 403 {object} apiutil.ProblemDetails
// @Failure 415 {object} apiutil.ProblemDetails
// @Failure 503 {object} apiutil.ProblemDetails
// @Router /users/{id}/avatar [put]
// @Security Bearer
func UploadAvatar(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid upload", domain.NewValidationError("file", "is required"))
		}
		f, err := fh.Open()
		if err != nil {
			log.Errorf("Failed to open upload: %v", err)
			return apiutil.ProblemDetailsJSON(c, "Invalid upload", err, fiber.StatusBadRequest)
		}
		defer f.Close() //nolint:errcheck

		user, err := userSvc.UploadAvatar(c.UserContext(), actor, c.Params("id"), f)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't upload avatar", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Avatar updated", user)
	}
}
