package source

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate applies all pending schema migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	dir, err := setupGoose(driver, logger)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func MigrationVersion(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	if _, err := setupGoose(driver, nil); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

func setupGoose(driver string, logger *slog.Logger) (string, error) {
	var dialect, dir string
	switch driver {
	case DriverPostgres:
		dialect, dir = "postgres", "migrations/postgres"
	case DriverSQLite:
		dialect, dir = "sqlite", "migrations/sqlite"
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set dialect: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	goose.SetLogger(gooseLogger{logger})
	return dir, nil
}

// gooseLogger forwards goose progress output to slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Info(fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Error(fmt.Sprintf(format, v...))
}
