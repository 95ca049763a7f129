package cmd

import (
	"context"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/okr-dashboard/internal/objective"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Print the permission matrix for every user",
	Long:  `Print what each user in the directory may do: actor-level capabilities and how many objectives, key results and milestones they may act on.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := mustLoadConfig(os.Stderr)

		deps, err := initializeDependencies(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.close()

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"ID", "Name", "Role", "Admin", "Dashboard", "Manage Org", "Create", "Request", "Delete", "Add Milestone", "Update Milestone"})

		for _, u := range deps.Organization.Snapshot().Users() {
			actor := u
			caps := permission.CapabilitiesOf(deps.Checker, &actor)

			views, err := deps.Objective.List(ctx, &actor, objective.Filter{})
			if err != nil {
				log.Fatalf("list objectives for %s: %v", u.ID, err)
			}
			var deletable, addable, updatable int
			for _, v := range views {
				if v.CanDelete {
					deletable++
				}
				for _, kr := range v.KeyResults {
					if kr.CanAddMilestone {
						addable++
					}
					for _, m := range kr.Milestones {
						if m.CanUpdate {
							updatable++
						}
					}
				}
			}

			tw.AppendRow(table.Row{
				u.ID, u.Name, u.Role, mark(u.IsAdmin),
				mark(caps.ViewDashboard), mark(caps.ManageOrganization),
				mark(caps.CreateObjective), mark(caps.RequestObjective),
				deletable, addable, updatable,
			})
		}
		tw.Render()
	},
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "-"
}
