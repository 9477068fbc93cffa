// Package app builds the services of the back office from its
// infrastructure dependencies.
package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/amirasaad/backoffice/pkg/cache"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/notifier"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/amirasaad/backoffice/pkg/service/account"
	"github.com/amirasaad/backoffice/pkg/service/auth"
	"github.com/amirasaad/backoffice/pkg/service/card"
	"github.com/amirasaad/backoffice/pkg/service/client"
	currencysvc "github.com/amirasaad/backoffice/pkg/service/currency"
	"github.com/amirasaad/backoffice/pkg/service/movement"
	"github.com/amirasaad/backoffice/pkg/service/notification"
	productsvc "github.com/amirasaad/backoffice/pkg/service/product"
	"github.com/amirasaad/backoffice/pkg/service/user"
	"github.com/amirasaad/backoffice/pkg/storage"
)

// Deps holds the infrastructure the services are built on.
type Deps struct {
	Uow          repository.UnitOfWork
	RateProvider exchange.Provider
	RateCache    cache.RateCache
	Sender       notifier.Sender
	Store        storage.Store
	Logger       *slog.Logger
	// Closers are released in reverse order by Close.
	Closers []io.Closer
}

// Close releases connections opened while wiring the dependencies.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.Closers) - 1; i >= 0; i-- {
		if err := d.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type App struct {
	Deps                *Deps
	Config              *config.App
	AuthService         *auth.Service
	UserService         *user.Service
	ClientService       *client.Service
	AccountService      *account.Service
	CardService         *card.Service
	MovementService     *movement.Service
	NotificationService *notification.Service
	CurrencyService     *currencysvc.Service
	Products            *productsvc.Catalog[product.Product, *product.Product]
	AccountTypes        *productsvc.Catalog[product.AccountType, *product.AccountType]
	CardTypes           *productsvc.Catalog[product.CardType, *product.CardType]
}

func New(deps *Deps, cfg *config.App) *App {
	logger := deps.Logger
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.NotificationService = notification.New(deps.Uow, deps.Sender, logger.With("service", "notification"))
	app.CurrencyService = currencysvc.New(
		deps.RateProvider,
		deps.RateCache,
		cfg.ExchangeRateCache.TTL,
		logger.With("service", "currency"),
	)
	app.Products = productsvc.NewProducts(deps.Uow, logger.With("service", "product"))
	app.AccountTypes = productsvc.NewAccountTypes(deps.Uow, logger.With("service", "account_type"))
	app.CardTypes = productsvc.NewCardTypes(deps.Uow, logger.With("service", "card_type"))

	app.AuthService = auth.New(deps.Uow, cfg.Auth.Jwt, logger.With("service", "auth"))
	app.UserService = user.New(deps.Uow, deps.Store, cfg.Storage.MaxSize, logger.With("service", "user"))
	app.ClientService = client.New(deps.Uow, logger.With("service", "client"))
	app.AccountService = account.New(
		deps.Uow,
		app.AccountTypes,
		app.NotificationService,
		app.CurrencyService,
		cfg.ExchangeRateApi.BaseCurrency,
		logger.With("service", "account"),
	)
	app.CardService = card.New(deps.Uow, app.CardTypes, app.NotificationService, logger.With("service", "card"))
	app.MovementService = movement.New(deps.Uow, app.NotificationService, logger.With("service", "movement"))
	return app
}
