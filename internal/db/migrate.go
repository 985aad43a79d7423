package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"cendra-go/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate applies the embedded goose migrations that are not applied yet.
func Migrate(ctx context.Context, gormDB *gorm.DB, log logger.Logger) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	log.Info("db: migrations applied", "version", version)
	return nil
}

type gooseLogger struct {
	log logger.Logger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Critical("db.migrate: " + fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug("db.migrate: " + fmt.Sprintf(format, v...))
}
