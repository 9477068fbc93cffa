// Package webapi provides the HTTP surface of the back office.
// It is organized into sub-packages per resource:
// - auth: login
// - user: user registration and management
// - client: client profiles
// - account: accounts, balances and account movements
// - card: cards
// - movement: deposits, withdrawals, transfers and card payments
// - catalog: products, account types and card types
// - notification: notifications of the current user
// - currency: exchange rates
package webapi

import (
	"errors"
	"strings"

	_ "github.com/amirasaad/backoffice/docs"
	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/app"
	accountweb "github.com/amirasaad/backoffice/webapi/account"
	authweb "github.com/amirasaad/backoffice/webapi/auth"
	cardweb "github.com/amirasaad/backoffice/webapi/card"
	catalogweb "github.com/amirasaad/backoffice/webapi/catalog"
	clientweb "github.com/amirasaad/backoffice/webapi/client"
	currencyweb "github.com/amirasaad/backoffice/webapi/currency"
	movementweb "github.com/amirasaad/backoffice/webapi/movement"
	notificationweb "github.com/amirasaad/backoffice/webapi/notification"
	userweb "github.com/amirasaad/backoffice/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		BodyLimit: bodyLimit(cfg.Storage.MaxSize),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apiutil.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))

	// Behind a proxy the client address comes from X-Forwarded-For,
	// then X-Real-IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return apiutil.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Back office API is running! 🚀")
	})

	if cfg.Storage.Driver == "local" && cfg.Storage.PublicURL != "" {
		fiberApp.Static(cfg.Storage.PublicURL, cfg.Storage.Dir)
	}

	authweb.Routes(fiberApp, a.AuthService)
	userweb.Routes(fiberApp, a.UserService, a.AuthService, cfg)
	clientweb.Routes(fiberApp, a.ClientService, a.AuthService, cfg)
	accountweb.Routes(fiberApp, a.AccountService, a.MovementService, a.AuthService, cfg)
	cardweb.Routes(fiberApp, a.CardService, a.AuthService, cfg)
	movementweb.Routes(fiberApp, a.MovementService, a.AuthService, cfg)
	catalogweb.Routes(fiberApp, catalogweb.Catalogs{
		Products:     a.Products,
		AccountTypes: a.AccountTypes,
		CardTypes:    a.CardTypes,
	}, a.AuthService, cfg)
	notificationweb.Routes(fiberApp, a.NotificationService, a.AuthService, cfg)
	currencyweb.Routes(fiberApp, a.CurrencyService, a.AuthService, cfg)
	return fiberApp
}

// bodyLimit leaves room for multipart framing around an avatar of the
// maximum size.
func bodyLimit(maxUpload int64) int {
	const overhead = 64 * 1024
	limit := int(maxUpload) + overhead
	if limit < fiber.DefaultBodyLimit {
		return fiber.DefaultBodyLimit
	}
	return limit
}
