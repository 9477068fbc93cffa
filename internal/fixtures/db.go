// Package fixtures provides shared test helpers: an isolated in-memory
// store, collaborator mocks and seed data.
package fixtures

import (
	"fmt"
	"testing"

	"github.com/amirasaad/backoffice/infra/repository"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with the full
// schema. Each call gets its own database.
func NewTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

// NewTestUoW returns a unit of work over a fresh test database.
func NewTestUoW(tb testing.TB) (*repository.UoW, *gorm.DB) {
	tb.Helper()
	db := NewTestDB(tb)
	return repository.NewUoW(db), db
}

// ActorOf loads the actor for a user created through a service, which
// only hands out public ids.
func ActorOf(tb testing.TB, db *gorm.DB, publicID string) user.Actor {
	tb.Helper()
	var row struct {
		ID   uuid.UUID
		Role string
	}
	if err := db.Table("users").Select("id, role").Where("public_id = ?", publicID).Take(&row).Error; err != nil {
		tb.Fatalf("load actor %s: %v", publicID, err)
	}
	return user.Actor{ID: row.ID, Role: user.Role(row.Role)}
}

// Admin returns an admin actor that owns nothing.
func Admin() user.Actor {
	return user.Actor{ID: uuid.New(), Role: user.RoleAdmin}
}
