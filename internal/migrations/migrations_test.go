//go:build integration

package migrations_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/backoffice/infra/repository"
	"github.com/amirasaad/backoffice/internal/fixtures"
	"github.com/amirasaad/backoffice/internal/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	container, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db
}

func TestUpDown(t *testing.T) {
	db := startPostgres(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, migrations.Up(sqlDB, log))
	// a second run is a no-op
	require.NoError(t, migrations.Up(sqlDB, log))

	for _, table := range []string{"users", "clients", "products", "account_types", "card_types", "accounts", "cards", "movements", "notifications"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
	require.True(t, db.Migrator().HasIndex("users", "idx_users_username_lower"))
	require.True(t, db.Migrator().HasIndex("cards", "idx_cards_active_account"))

	// the repositories work against the migrated schema
	uow := repository.NewUoW(db)
	fixtures.SeedCatalog(t, uow)
	actor, _ := fixtures.SeedCustomer(t, uow, "alice", "12345678Z")
	require.NotEqual(t, uuid.Nil, actor.ID)

	require.NoError(t, migrations.Down(sqlDB))
	require.False(t, db.Migrator().HasTable("users"))
}
