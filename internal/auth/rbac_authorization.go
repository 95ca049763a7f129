package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/okr-dashboard/internal/permission"
	"github.com/frahmantamala/okr-dashboard/internal/transport/middleware"
)

// Authorization gates routes on actor-level decisions. Entity-level
// decisions (delete, milestone changes) need the target and are checked in
// the services.
type Authorization struct {
	checker permission.Checker
	logger  *slog.Logger
}

func NewAuthorization(checker permission.Checker, logger *slog.Logger) *Authorization {
	return &Authorization{checker: checker, logger: logger}
}

func (a *Authorization) RequireDashboard() func(http.Handler) http.Handler {
	return middleware.RequireActor("view_dashboard", a.checker.CanViewDashboard, a.logger)
}

func (a *Authorization) RequireCreateObjective() func(http.Handler) http.Handler {
	return middleware.RequireActor("create_objective", a.checker.CanCreateObjective, a.logger)
}

func (a *Authorization) RequireRequestObjective() func(http.Handler) http.Handler {
	return middleware.RequireActor("request_objective", a.checker.CanRequestObjective, a.logger)
}

func (a *Authorization) RequireManageOrganization() func(http.Handler) http.Handler {
	return middleware.RequireActor("manage_organization", a.checker.CanManageOrganization, a.logger)
}
