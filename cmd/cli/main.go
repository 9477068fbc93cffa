// Command cli runs back office maintenance tasks: schema migrations,
// catalog seeding and admin bootstrap.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/backoffice/infra/initializer"
	"github.com/amirasaad/backoffice/internal/fixtures/catalog"
	"github.com/amirasaad/backoffice/internal/migrations"
	"github.com/amirasaad/backoffice/pkg/app"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/fatih/color"
)

const usage = `Usage: cli <command> [arguments]

Commands:
  migrate up|down                  apply or roll back the SQL schema
  seed [catalog.csv]               create the default catalog entries
  create-admin <username> <email>  create an administrator (password read from stdin)`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "error:", err) //nolint:errcheck
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, usage) //nolint:errcheck
		return nil
	}
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	ctx := context.Background()

	switch args[0] {
	case "migrate":
		direction := "up"
		if len(args) > 1 {
			direction = args[1]
		}
		return migrate(cfg, direction, out)
	case "seed":
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		entries, err := catalog.Load(path)
		if err != nil {
			return err
		}
		return withApp(cfg, func(a *app.App) error {
			_, err := seedCatalog(ctx, catalogsOf(a), entries, out)
			return err
		})
	case "create-admin":
		if len(args) < 3 {
			return fmt.Errorf("usage: create-admin <username> <email>")
		}
		password, err := readPassword(stdin, out)
		if err != nil {
			return err
		}
		return withApp(cfg, func(a *app.App) error {
			return createAdmin(ctx, a.Deps.Uow, args[1], args[2], password, out)
		})
	}
	return fmt.Errorf("unknown command %q\n%s", args[0], usage)
}

func migrate(cfg *config.App, direction string, out io.Writer) error {
	cfg.DB.Migrate = false
	cfg.DB.AutoMigrate = false
	logger := slog.Default()
	db, err := initializer.OpenDatabase(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close() //nolint:errcheck

	switch direction {
	case "up":
		err = migrations.Up(sqlDB, logger)
	case "down":
		err = migrations.Down(sqlDB)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
	if err != nil {
		return err
	}
	success.Fprintf(out, "migrations %s applied\n", direction) //nolint:errcheck
	return nil
}

func withApp(cfg *config.App, fn func(a *app.App) error) error {
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close() //nolint:errcheck
	return fn(app.New(deps, cfg))
}
