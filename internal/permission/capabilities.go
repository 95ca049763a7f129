package permission

import "github.com/frahmantamala/okr-dashboard/internal/core/org"

// Capabilities are the actor-level affordances a dashboard renders before any
// specific objective is selected.
type Capabilities struct {
	ViewDashboard      bool `json:"view_dashboard"`
	ManageOrganization bool `json:"manage_organization"`
	CreateObjective    bool `json:"create_objective"`
	RequestObjective   bool `json:"request_objective"`
}

func CapabilitiesOf(c Checker, actor *org.User) Capabilities {
	return Capabilities{
		ViewDashboard:      c.CanViewDashboard(actor),
		ManageOrganization: c.CanManageOrganization(actor),
		CreateObjective:    c.CanCreateObjective(actor),
		RequestObjective:   c.CanRequestObjective(actor),
	}
}
