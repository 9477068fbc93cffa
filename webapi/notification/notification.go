package notification

import (
	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/middleware"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	notificationsvc "github.com/amirasaad/backoffice/pkg/service/notification"
	"github.com/amirasaad/backoffice/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, notificationSvc *notificationsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Get("/notifications", middleware.JwtProtected(cfg.Auth.Jwt, authSvc), ListNotifications(notificationSvc))
}

// ListNotifications returns the current user's notifications, newest first.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} apiutil.Response
// @Failure 401 {object} apiutil.ProblemDetails
// @Router /notifications [get]
// @Security Bearer
func ListNotifications(notificationSvc *notificationsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		opts, err := common.ListOptions(c)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Invalid query", err)
		}
		out, err := notificationSvc.List(c.UserContext(), actor, opts)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't list notifications", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Notifications fetched", out)
	}
}
