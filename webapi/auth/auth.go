package auth

import (
	"errors"

	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/domain"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate user with identity (username or email) and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 401 {object} apiutil.ProblemDetails
// @Failure 429 {object} apiutil.ProblemDetails
// @Failure 500 {object} apiutil.ProblemDetails
// @Router /auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		user, token, err := authSvc.Login(c.UserContext(), input.Identity, input.Password)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return apiutil.ProblemDetailsJSON(c, "Invalid identity or password", err, "Identity or password is incorrect")
			}
			return apiutil.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Success login", LoginOutput{Token: token, User: user})
	}
}
