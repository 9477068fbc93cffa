package initializer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/backoffice/infra/cache"
	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/infra/notifier"
	"github.com/amirasaad/backoffice/infra/provider/exchangerateapi"
	"github.com/amirasaad/backoffice/infra/repository"
	"github.com/amirasaad/backoffice/infra/storage"
	"github.com/amirasaad/backoffice/internal/migrations"
	"github.com/amirasaad/backoffice/pkg/app"
	pkgcache "github.com/amirasaad/backoffice/pkg/cache"
	"github.com/amirasaad/backoffice/pkg/config"
	pkgnotifier "github.com/amirasaad/backoffice/pkg/notifier"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	pkgstorage "github.com/amirasaad/backoffice/pkg/storage"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitializeDependencies initializes all the application dependencies.
// On error every connection opened so far is closed.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger
	defer func() {
		if err != nil {
			_ = deps.Close()
			deps = nil
		}
	}()

	utils.SetPasswordCost(cfg.Auth.PasswordCost)

	db, err := OpenDatabase(cfg, logger)
	if err != nil {
		return deps, err
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		deps.Closers = append(deps.Closers, sqlDB)
	}
	deps.Uow = repository.NewUoW(db)

	var redisClient *redis.Client
	if needsRedis(cfg) {
		redisClient, err = NewRedisClient(cfg.Redis)
		if err != nil {
			return deps, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Closers = append(deps.Closers, redisClient)
	}

	deps.RateCache, err = newRateCache(cfg.ExchangeRateCache, redisClient, logger)
	if err != nil {
		return deps, err
	}
	deps.Sender, err = newSender(cfg.Notification, redisClient, logger)
	if err != nil {
		return deps, err
	}
	if closer, ok := deps.Sender.(*notifier.Kafka); ok {
		deps.Closers = append(deps.Closers, closer)
	}
	deps.Store, err = newStore(cfg.Storage, logger)
	if err != nil {
		return deps, err
	}
	deps.RateProvider = newRateProvider(cfg.ExchangeRateApi, logger)

	logger.Info("Dependencies initialized",
		"db_driver", cfg.DB.Driver,
		"notification_driver", deps.Sender.Name(),
		"storage_driver", cfg.Storage.Driver,
		"exchange_cache", cfg.ExchangeRateCache.Driver,
		"exchange_provider", deps.RateProvider.Name(),
	)
	return deps, nil
}

// OpenDatabase connects to the configured database and prepares the
// schema: embedded migrations for postgres, GORM auto-migration when
// requested.
func OpenDatabase(cfg *config.App, logger *slog.Logger) (_ *gorm.DB, err error) {
	db, err := database.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = sqlDB.Close()
		}
	}()

	if cfg.DB.Migrate && cfg.DB.Driver != "sqlite" {
		if err := migrations.Up(sqlDB, logger); err != nil {
			return nil, err
		}
	}
	if cfg.DB.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
		logger.Info("Schema auto-migrated", "driver", cfg.DB.Driver)
	}
	return db, nil
}

// NewRedisClient parses the redis URL, applies the pool settings and
// checks the connection.
func NewRedisClient(cfg *config.Redis) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func needsRedis(cfg *config.App) bool {
	return cfg.ExchangeRateCache.Driver == "redis" || cfg.Notification.Driver == "redis"
}

func newRateCache(cfg *config.ExchangeRateCache, client redis.UniversalClient, logger *slog.Logger) (pkgcache.RateCache, error) {
	switch cfg.Driver {
	case "", "memory":
		return cache.NewMemoryRateCache(), nil
	case "redis":
		return cache.NewRedisRateCache(client, cfg.Prefix, logger), nil
	}
	return nil, fmt.Errorf("unsupported exchange rate cache driver: %s", cfg.Driver)
}

func newSender(cfg *config.Notification, client redis.UniversalClient, logger *slog.Logger) (pkgnotifier.Sender, error) {
	switch cfg.Driver {
	case "", "memory":
		return notifier.NewMemory(logger), nil
	case "redis":
		return notifier.NewRedisStream(client, cfg.Stream, cfg.MaxLen, logger), nil
	case "kafka":
		k, err := notifier.NewKafka(cfg.Kafka, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka notifier: %w", err)
		}
		return k, nil
	}
	return nil, fmt.Errorf("unsupported notification driver: %s", cfg.Driver)
}

func newStore(cfg *config.Storage, logger *slog.Logger) (pkgstorage.Store, error) {
	switch cfg.Driver {
	case "", "local":
		return storage.NewLocal(cfg.Dir, cfg.PublicURL, logger)
	case "s3":
		return storage.NewS3(context.Background(), cfg, logger)
	}
	return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
}

func newRateProvider(cfg *config.ExchangeRateApi, logger *slog.Logger) exchange.Provider {
	if cfg.ApiKey == "" {
		logger.Warn("EXCHANGE_RATE_API_KEY is not set, using fixed rates")
		return exchangerateapi.NewFixed()
	}
	return exchangerateapi.New(cfg, logger)
}
