package cmd

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/objective"
)

var (
	exportOutput string
	exportFilter objective.Filter
	exportStatus string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export objectives as CSV",
	Long:  `Export the objectives visible to a user as CSV, to stdout or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		deps, err := initializeDependencies(ctx, mustLoadConfig(os.Stderr))
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.close()

		var w io.Writer = os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				log.Fatalf("create %s: %v", exportOutput, err)
			}
			defer f.Close()
			w = f
		}

		actor := resolveActor(deps.Organization.Snapshot())
		exportFilter.Status = okr.ObjectiveStatus(exportStatus)
		if err := deps.Objective.Export(ctx, actor, exportFilter, w); err != nil {
			log.Fatalf("export: %v", err)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file, - for stdout")
	exportCmd.Flags().StringVar(&actingAs, "as", "", "user id to act as (defaults to the directory root)")
	exportCmd.Flags().StringVar(&exportFilter.Search, "search", "", "match objective titles")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "objective status")
	exportCmd.Flags().StringVar(&exportFilter.Department, "department", "", "department, or all")
	exportCmd.Flags().StringVar(&exportFilter.OwnerID, "owner", "", "owner user id")
}
