package initializer

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirasaad/backoffice/infra/cache"
	"github.com/amirasaad/backoffice/infra/notifier"
	"github.com/amirasaad/backoffice/infra/provider/exchangerateapi"
	"github.com/amirasaad/backoffice/infra/storage"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.App {
	t.Helper()
	dir := t.TempDir()
	return &config.App{
		Env: "test",
		Log: &config.Log{Format: "text", TimeFormat: time.RFC3339},
		DB: &config.DB{
			Driver:          "sqlite",
			Url:             "file:" + filepath.Join(dir, "backoffice.db"),
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     true,
		},
		Auth:              &config.Auth{Jwt: &config.Jwt{Secret: "secret", Expiry: time.Hour}, PasswordCost: 4},
		Redis:             &config.Redis{URL: "redis://localhost:6379/0", DialTimeout: time.Second},
		Notification:      &config.Notification{Driver: "memory", Kafka: &config.Kafka{Brokers: []string{"localhost:9092"}, Topic: "t"}},
		ExchangeRateApi:   &config.ExchangeRateApi{BaseCurrency: "EUR"},
		ExchangeRateCache: &config.ExchangeRateCache{Driver: "memory", TTL: time.Minute},
		Storage:           &config.Storage{Driver: "local", Dir: filepath.Join(dir, "uploads"), PublicURL: "/uploads"},
	}
}

func TestInitializeDependencies_Sqlite(t *testing.T) {
	cfg := testConfig(t)

	deps, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.NotNil(t, deps.Uow)
	assert.NotNil(t, deps.Logger)
	assert.IsType(t, &cache.MemoryRateCache{}, deps.RateCache)
	assert.IsType(t, &notifier.Memory{}, deps.Sender)
	assert.IsType(t, &storage.Local{}, deps.Store)
	assert.Equal(t, "fixed", deps.RateProvider.Name())
	assert.Len(t, deps.Closers, 1)
}

func TestInitializeDependencies_BadDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "ftp"

	deps, err := InitializeDependencies(cfg)
	assert.Nil(t, deps)
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestInitializeDependencies_MissingDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.Url = ""

	_, err := InitializeDependencies(cfg)
	assert.ErrorContains(t, err, "DATABASE_URL is not set")
}

func TestDriverSelection(t *testing.T) {
	log := discard()

	_, err := newRateCache(&config.ExchangeRateCache{Driver: "memcached"}, nil, log)
	assert.ErrorContains(t, err, "unsupported exchange rate cache driver")

	_, err = newSender(&config.Notification{Driver: "smtp"}, nil, log)
	assert.ErrorContains(t, err, "unsupported notification driver")

	sender, err := newSender(&config.Notification{
		Driver: "kafka",
		Kafka:  &config.Kafka{Brokers: []string{"localhost:9092"}, Topic: "notifications"},
	}, nil, log)
	require.NoError(t, err)
	assert.Equal(t, "kafka", sender.Name())

	_, err = newSender(&config.Notification{Driver: "kafka", Kafka: &config.Kafka{}}, nil, log)
	assert.Error(t, err)

	p := newRateProvider(&config.ExchangeRateApi{ApiKey: "key", ApiUrl: "http://localhost", HTTPTimeout: time.Second}, log)
	assert.IsType(t, &exchangerateapi.Client{}, p)
	assert.IsType(t, &exchangerateapi.Fixed{}, newRateProvider(&config.ExchangeRateApi{}, log))
}

func TestNeedsRedis(t *testing.T) {
	cfg := testConfig(t)
	assert.False(t, needsRedis(cfg))
	cfg.Notification.Driver = "redis"
	assert.True(t, needsRedis(cfg))
}

func TestOpenDatabase_SchemaFailure(t *testing.T) {
	cfg := testConfig(t)
	log := discard()

	db, err := OpenDatabase(cfg, log)
	require.NoError(t, err)
	require.NoError(t, db.Exec("DROP INDEX idx_users_username_lower").Error)
	for i, name := range []string{"dup", "DUP"} {
		require.NoError(t, db.Exec(
			`INSERT INTO users (id, public_id, username, email, password, role, is_deleted, created_at, updated_at)
			 VALUES (?, ?, ?, ?, 'x', 'USER', false, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			uuid.NewString(), fmt.Sprintf("01J00000000000000000000%03d", i), name, fmt.Sprintf("%d@example.com", i),
		).Error)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = OpenDatabase(cfg, log)
	assert.ErrorContains(t, err, "failed to auto-migrate schema")

	cfg.DB.AutoMigrate = false
	db, err = OpenDatabase(cfg, log)
	require.NoError(t, err, "a failed open leaves the file usable")
	sqlDB, err = db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
