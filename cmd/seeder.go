package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/okr-dashboard/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the demo organization",
	Long:  `Seed the database with the demo organization and OKR tree from the configured YAML dataset.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := mustLoadConfig(os.Stderr)

		gdb, sqlDB, err := initDB(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		ds, err := seed.Load(cfg.Seed.Path)
		if err != nil {
			log.Fatalf("failed to load seed dataset: %v", err)
		}

		if err := ds.Apply(ctx, gdb, clearData); err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}

		if clearData {
			fmt.Println("Cleared existing organization and OKR data")
		}
		fmt.Printf("Seed dataset applied: %d users, %d objectives\n", len(ds.Users), len(ds.Objectives))
		emails := make([]string, 0, len(ds.Users))
		for email := range ds.Credentials() {
			emails = append(emails, email)
		}
		sort.Strings(emails)
		for _, email := range emails {
			fmt.Println("  login:", email)
		}
	},
}
