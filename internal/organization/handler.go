package organization

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/transport"
)

type ServiceAPI interface {
	Chart(ctx context.Context, actor *org.User, view org.View) (*ChartResponse, error)
	User(ctx context.Context, id string) (*UserView, error)
	Ancestors(ctx context.Context, id string) ([]org.User, error)
	Reparent(ctx context.Context, actor *org.User, memberID string, dto ReparentDTO) (*org.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	chart, err := h.Service.Chart(r.Context(), actor, org.View(r.URL.Query().Get("view")))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, chart)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.User(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) GetAncestors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ancestors, err := h.Service.Ancestors(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, AncestorsResponse{UserID: id, Ancestors: ancestors})
}

func (h *Handler) UpdateManager(w http.ResponseWriter, r *http.Request) {
	var dto ReparentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	actor := internal.ActorFromContext(r.Context())
	user, err := h.Service.Reparent(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}
