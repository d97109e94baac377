package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migrations are written during development.
const DefaultDir = "pkg/migrate/migrations"

const embeddedDir = "migrations"

// Migrations carries the SQL files so binaries do not depend on the working directory.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Dialect maps a configured database driver to the goose dialect name.
func Dialect(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return "postgres"
	}
}

// use points goose at dir on disk, or at the embedded set when dir is empty.
// The returned func restores the default filesystem.
func use(dialect, dir string) (string, func(), error) {
	if err := goose.SetDialect(dialect); err != nil {
		return "", nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if dir == "" {
		goose.SetBaseFS(Migrations)
		return embeddedDir, func() { goose.SetBaseFS(nil) }, nil
	}
	goose.SetBaseFS(nil)
	return dir, func() {}, nil
}

// Run executes a goose command such as up, down or status.
func Run(ctx context.Context, db *sql.DB, dialect, dir, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	source, reset, err := use(dialect, dir)
	if err != nil {
		return err
	}
	defer reset()

	if err := goose.RunContext(ctx, command, db, source, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// UpEmbedded applies every embedded migration to a Postgres database.
func UpEmbedded(ctx context.Context, db *sql.DB) error {
	return Run(ctx, db, "postgres", "", "up")
}

// MigrateToVersion moves the schema up or down to target (YYYYMMDDHHMMSS).
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect, dir, target string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	version, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", target, err)
	}
	source, reset, err := use(dialect, dir)
	if err != nil {
		return err
	}
	defer reset()

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	switch {
	case current < version:
		err = goose.UpToContext(ctx, db, source, version)
	case current > version:
		err = goose.DownToContext(ctx, db, source, version)
	}
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, version, err)
	}
	return nil
}
