package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/okr-dashboard/internal"
)

const migrationsTable = "schema_migrations"

// Open connects gorm to the configured driver and applies the pool limits.
func Open(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	case internal.DriverSQLite, "":
		dialector = sqlite.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gdb, nil
}

func dialect(driver string) string {
	if driver == internal.DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func prepareGoose(driver string) error {
	goose.SetBaseFS(Migrations)
	goose.SetTableName(migrationsTable)
	goose.SetLogger(goose.NopLogger())
	return goose.SetDialect(dialect(driver))
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, sqlDB *sql.DB, driver string) error {
	if err := prepareGoose(driver); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, sqlDB *sql.DB, driver string) error {
	if err := prepareGoose(driver); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.DownContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// Version reports the current schema version.
func Version(ctx context.Context, sqlDB *sql.DB, driver string) (int64, error) {
	if err := prepareGoose(driver); err != nil {
		return 0, fmt.Errorf("goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}
