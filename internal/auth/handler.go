package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/transport"
	"github.com/frahmantamala/okr-dashboard/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Directory DirectorySource
}

func NewHandler(svc ServiceAPI, directory DirectorySource, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Directory:   directory,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	session, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), h.ExtractTokenFromHeader(r)); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	if actor == nil {
		h.HandleServiceError(w, r, errMissingToken)
		return
	}

	resp := MeResponse{
		User:         *actor,
		Capabilities: h.Service.Capabilities(actor),
	}
	if actor.HasManager() {
		if manager, ok := h.Directory.Snapshot().FindUser(actor.ManagerID); ok {
			resp.Manager = &manager
		}
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	if actor == nil {
		h.HandleServiceError(w, r, errMissingToken)
		return
	}

	h.WriteJSON(w, http.StatusOK, PermissionsResponse{
		UserID:       actor.ID,
		Capabilities: h.Service.Capabilities(actor),
	})
}

// AuthMiddleware resolves the bearer token to a directory user and stores it
// as the request actor.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, errMissingToken)
			return
		}

		actor, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "actor_id", actor.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
