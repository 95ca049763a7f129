package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/okr-dashboard/db"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations under db/migrations",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "to print the current schema version")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig(os.Stderr)

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("migrate: %v\n", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("migrate: %v\n", err)
	}
	defer sqlDB.Close()

	switch {
	case migrateStatus:
	case migrateRollback:
		if err := db.Rollback(ctx, sqlDB, cfg.Database.Driver); err != nil {
			log.Fatalf("migrate rollback: %v", err)
		}
	default:
		if err := db.Migrate(ctx, sqlDB, cfg.Database.Driver); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
	}

	version, err := db.Version(ctx, sqlDB, cfg.Database.Driver)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	fmt.Println("schema version:", version)
	return nil
}
