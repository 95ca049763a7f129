package objective

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/transport"
)

const exportFilename = "okr-export.csv"

type ServiceAPI interface {
	List(ctx context.Context, actor *org.User, filter Filter) ([]ObjectiveView, error)
	Get(ctx context.Context, actor *org.User, id string) (*ObjectiveView, error)
	Create(ctx context.Context, actor *org.User, dto CreateObjectiveDTO) (*ObjectiveView, error)
	Request(ctx context.Context, actor *org.User, dto RequestObjectiveDTO) (*Request, error)
	ListRequests(ctx context.Context, actor *org.User) ([]Request, error)
	Delete(ctx context.Context, actor *org.User, id string) error
	AddMilestone(ctx context.Context, actor *org.User, keyResultID string, dto AddMilestoneDTO) (*okr.Milestone, error)
	UpdateMilestoneStatus(ctx context.Context, actor *org.User, keyResultID, milestoneID string, dto UpdateMilestoneStatusDTO) (*okr.Milestone, error)
	Summary(ctx context.Context, actor *org.User, department string) (*Summary, error)
	Export(ctx context.Context, actor *org.User, filter Filter, w io.Writer) error
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

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		Search:     q.Get("search"),
		Status:     okr.ObjectiveStatus(q.Get("status")),
		Department: q.Get("department"),
		OwnerID:    q.Get("owner"),
	}
}

func (h *Handler) ListObjectives(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	views, err := h.Service.List(r.Context(), actor, filterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) GetObjective(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	view, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) CreateObjective(w http.ResponseWriter, r *http.Request) {
	var dto CreateObjectiveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	actor := internal.ActorFromContext(r.Context())
	view, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) DeleteObjective(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	if err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RequestObjective(w http.ResponseWriter, r *http.Request) {
	var dto RequestObjectiveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	actor := internal.ActorFromContext(r.Context())
	req, err := h.Service.Request(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	requests, err := h.Service.ListRequests(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())
	summary, err := h.Service.Summary(r.Context(), actor, r.URL.Query().Get("department"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

// ExportObjectives renders the CSV into memory first so a failure can still
// be reported as a JSON error.
func (h *Handler) ExportObjectives(w http.ResponseWriter, r *http.Request) {
	actor := internal.ActorFromContext(r.Context())

	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), actor, filterFromQuery(r), &buf); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write export", "error", err)
	}
}

func (h *Handler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	var dto AddMilestoneDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	actor := internal.ActorFromContext(r.Context())
	m, err := h.Service.AddMilestone(r.Context(), actor, chi.URLParam(r, "krID"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateMilestoneStatus(w http.ResponseWriter, r *http.Request) {
	var dto UpdateMilestoneStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	actor := internal.ActorFromContext(r.Context())
	m, err := h.Service.UpdateMilestoneStatus(r.Context(), actor, chi.URLParam(r, "krID"), chi.URLParam(r, "milestoneID"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}
