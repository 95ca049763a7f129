package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/transport"
	"github.com/frahmantamala/okr-dashboard/pkg/logger"
)

// ActorCheck is an actor-level decision such as permission.Checker's
// CanCreateObjective.
type ActorCheck func(actor *org.User) bool

var errAuthenticationRequired = internal.NewUnauthorizedError("Authentication required", internal.ErrCodeInvalidToken)

// RequireActor rejects anonymous requests with 401 and actors failing
// allowed with 403. Denials are logged with the decision name.
func RequireActor(decision string, allowed ActorCheck, lg *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := internal.ActorFromContext(r.Context())
			if actor == nil {
				logger.FromOr(r.Context(), lg).WarnContext(r.Context(), "authorization check failed: no actor in context",
					"decision", decision)
				base.WriteAppError(w, errAuthenticationRequired)
				return
			}

			if !allowed(actor) {
				logger.FromOr(r.Context(), lg).WarnContext(r.Context(), "access denied",
					"decision", decision,
					"actor_id", actor.ID,
					"role", actor.Role,
					"is_admin", actor.IsAdmin)
				base.WriteAppError(w, internal.ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
