package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where the storefront schema migrations live.
const DefaultDir = "pkg/migrate/migrations"

// Run dispatches a goose command against an open connection.
func Run(ctx context.Context, conn *sql.DB, dir, command string, args ...string) error {
	if conn == nil {
		return fmt.Errorf("database connection is required")
	}
	if dir == "" {
		return fmt.Errorf("migrations directory is required")
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("selecting goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, conn, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion walks the schema up or down until it sits at the
// requested version.
func MigrateToVersion(ctx context.Context, conn *sql.DB, dir, raw string) error {
	if conn == nil {
		return fmt.Errorf("database connection is required")
	}

	target, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing target version %q: %w", raw, err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("selecting goose dialect: %w", err)
	}

	current, err := goose.GetDBVersion(conn)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	switch {
	case current < target:
		err = goose.UpToContext(ctx, conn, dir, target)
	case current > target:
		err = goose.DownToContext(ctx, conn, dir, target)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrating %d to %d: %w", current, target, err)
	}
	return nil
}
