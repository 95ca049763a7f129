package cmd

import (
	"context"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/okr-dashboard/internal/core/org"
)

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Inspect the organization directory",
}

var (
	chartView string
	actingAs  string
)

var orgChartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the org chart as seen by a user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		deps, err := initializeDependencies(ctx, mustLoadConfig(os.Stderr))
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.close()

		actor := resolveActor(deps.Organization.Snapshot())
		chart, err := deps.Organization.Chart(ctx, actor, org.View(chartView))
		if err != nil {
			log.Fatalf("org chart: %v", err)
		}

		dir := deps.Organization.Snapshot()
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetTitle("%s view for %s", chart.View, actor.Name)
		tw.AppendHeader(table.Row{"ID", "Name", "Role", "Department", "Manager", "Reports"})
		for _, m := range chart.Members {
			manager := "-"
			if mgr, ok := dir.FindUser(m.ManagerID); ok {
				manager = mgr.Name
			}
			tw.AppendRow(table.Row{m.ID, m.Name, m.Role, m.Department, manager, len(dir.DirectReports(m.ID))})
		}
		tw.Render()
	},
}

var orgAncestorsCmd = &cobra.Command{
	Use:   "ancestors [user-id]",
	Short: "Print the management chain above a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		deps, err := initializeDependencies(ctx, mustLoadConfig(os.Stderr))
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.close()

		chain, err := deps.Organization.Ancestors(ctx, args[0])
		if err != nil {
			log.Fatalf("ancestors of %s: %v", args[0], err)
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Level", "ID", "Name", "Role"})
		for i, u := range chain {
			tw.AppendRow(table.Row{i + 1, u.ID, u.Name, u.Role})
		}
		tw.Render()
	},
}

// resolveActor returns the --as user, or the directory root when unset.
func resolveActor(dir *org.Directory) *org.User {
	if actingAs == "" {
		root, ok := dir.Root()
		if !ok {
			log.Fatal("directory has no root user")
		}
		return &root
	}
	u, ok := dir.FindUser(actingAs)
	if !ok {
		log.Fatalf("unknown user %q", actingAs)
	}
	return &u
}

func init() {
	orgCmd.PersistentFlags().StringVar(&actingAs, "as", "", "user id to act as (defaults to the directory root)")
	orgChartCmd.Flags().StringVar(&chartView, "view", string(org.ViewAll), "chart view: all, my or company")

	orgCmd.AddCommand(orgChartCmd)
	orgCmd.AddCommand(orgAncestorsCmd)
}
