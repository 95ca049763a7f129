package permission

import (
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
)

// Directory is the slice of the org directory the engine consults.
// *org.Directory satisfies it.
type Directory interface {
	IsManagerOf(candidateManagerID, subjectID string) bool
	Root() (org.User, bool)
}

// Checker answers "may actor do X to Y". A nil actor is the unauthenticated
// caller; a nil entity is an absent target. Both yield false, never an error.
type Checker interface {
	CanViewDashboard(actor *org.User) bool
	CanManageOrganization(actor *org.User) bool
	CanCreateObjective(actor *org.User) bool
	CanRequestObjective(actor *org.User) bool
	CanDeleteObjective(actor *org.User, objective *okr.Objective, dir Directory) bool
	CanAddMilestone(actor *org.User, keyResult *okr.KeyResult) bool
	CanUpdateMilestone(actor *org.User, milestone *okr.Milestone, keyResult *okr.KeyResult, dir Directory) bool
}

// Engine is the stateless Checker. Every decision depends only on its
// arguments.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

var _ Checker = (*Engine)(nil)

func (e *Engine) CanViewDashboard(actor *org.User) bool {
	return actor != nil
}

func (e *Engine) CanManageOrganization(actor *org.User) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin || actor.Role == org.RoleCEO || actor.Role == org.RoleHR
}

func (e *Engine) CanCreateObjective(actor *org.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == org.RoleCEO || actor.IsAdmin
}

// CanRequestObjective is role-exact: only managers request. CEOs and admins
// create directly; plain users have no path.
func (e *Engine) CanRequestObjective(actor *org.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == org.RoleManager
}

// CanDeleteObjective grants CEOs and administrators, except that an
// administrator may never delete an objective owned by the root user. When
// the root cannot be resolved every owner counts as a possible root.
func (e *Engine) CanDeleteObjective(actor *org.User, objective *okr.Objective, dir Directory) bool {
	if actor == nil || objective == nil {
		return false
	}
	if actor.IsAdmin && mayBeRootOwned(objective.OwnerID, dir) {
		return false
	}
	return actor.Role == org.RoleCEO || actor.IsAdmin
}

// CanAddMilestone is ownership-exact with no hierarchy fallback.
func (e *Engine) CanAddMilestone(actor *org.User, keyResult *okr.KeyResult) bool {
	if actor == nil || keyResult == nil {
		return false
	}
	return actor.ID == keyResult.OwnerID
}

// CanUpdateMilestone grants the key result owner, the owner's direct manager
// when that manager holds the manager role, and any CEO or administrator. The
// milestone's current status plays no part.
func (e *Engine) CanUpdateMilestone(actor *org.User, milestone *okr.Milestone, keyResult *okr.KeyResult, dir Directory) bool {
	if actor == nil || milestone == nil || keyResult == nil {
		return false
	}
	if actor.ID == keyResult.OwnerID {
		return true
	}
	if actor.Role == org.RoleManager && dir != nil && dir.IsManagerOf(actor.ID, keyResult.OwnerID) {
		return true
	}
	return actor.Role == org.RoleCEO || actor.IsAdmin
}

func mayBeRootOwned(ownerID string, dir Directory) bool {
	if dir == nil {
		return true
	}
	root, ok := dir.Root()
	return !ok || root.ID == ownerID
}
