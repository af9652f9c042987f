package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// MigrationsDir is the directory of Migrations holding the SQL files.
const MigrationsDir = "migrations"

// Migrations holds the embedded goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Supported migration commands.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// slogGooseLogger adapts goose's logger to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level and does not exit; the command's error is
// returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate runs a goose command against db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "migrations"), slog.String("command", command))

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(Migrations)
	goose.SetLogger(&slogGooseLogger{logger: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	start := time.Now()
	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, MigrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, db, MigrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, MigrationsDir)
	case MigrateVersion:
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			log.Info("current schema version", slog.Int64("version", version))
		}
	default:
		return fmt.Errorf("unknown migration command: %s (expected up, down, status or version)", command)
	}

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command executed successfully", slog.Duration("duration", time.Since(start)))
	return nil
}
