package currency

import (
	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/middleware"
	authsvc "github.com/amirasaad/backoffice/pkg/service/auth"
	currencysvc "github.com/amirasaad/backoffice/pkg/service/currency"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for exchange rates.
func Routes(app *fiber.App, currencySvc *currencysvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Get("/currency/rates/:base", middleware.JwtProtected(cfg.Auth.Jwt, authSvc), GetRates(currencySvc))
}

// GetRates returns the latest exchange rates for a base currency.
// @Summary Exchange rates
// @Description Rates are served from cache while fresh. Concurrent misses for the same base share one upstream call.
// @Tags currency
// @Produce json
// @Param base path string true "ISO 4217 base currency"
// @Success 200 {object} apiutil.Response
// @Failure 400 {object} apiutil.ProblemDetails
// @Failure 401 {object} apiutil.ProblemDetails
// @Failure 503 {object} apiutil.ProblemDetails
// @Router /currency/rates/{base} [get]
// @Security Bearer
func GetRates(currencySvc *currencysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := currencySvc.RatesRead(c.UserContext(), c.Params("base"))
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Couldn't fetch exchange rates", err)
		}
		return apiutil.SuccessResponseJSON(c, fiber.StatusOK, "Exchange rates fetched", out)
	}
}
