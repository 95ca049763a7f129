package rest

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/okr-dashboard/api"
	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/auth"
	"github.com/frahmantamala/okr-dashboard/internal/objective"
	"github.com/frahmantamala/okr-dashboard/internal/organization"
	"github.com/frahmantamala/okr-dashboard/internal/transport"
	"github.com/frahmantamala/okr-dashboard/internal/transport/middleware"
	"github.com/frahmantamala/okr-dashboard/internal/transport/swagger"
)

// Handlers groups the domain handlers mounted under /api/v1.
type Handlers struct {
	Auth          *auth.Handler
	Authorization *auth.Authorization
	Objective     *objective.Handler
	Organization  *organization.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, dbComponent string, h Handlers, cfg internal.ServerConfig, logger *slog.Logger) error {
	healthHandler := NewHealthHandler(db, dbComponent)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if cfg.ValidateRequests {
		doc, err := middleware.LoadOpenAPI(context.Background(), api.OpenAPI)
		if err != nil {
			return err
		}
		validator, err := middleware.OpenAPIValidator(doc, logger)
		if err != nil {
			return err
		}
		router.Use(validator)
	}

	base := transport.NewBaseHandler(logger)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler(cfg.BaseURL))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/logout", h.Auth.Logout)
			pr.Get("/me", h.Auth.Me)
			pr.Get("/me/permissions", h.Auth.Permissions)

			pr.Group(func(dr chi.Router) {
				dr.Use(h.Authorization.RequireDashboard())

				dr.Route("/objectives", func(or chi.Router) {
					or.Get("/", h.Objective.ListObjectives)
					or.With(h.Authorization.RequireCreateObjective()).Post("/", h.Objective.CreateObjective)
					or.Get("/summary", h.Objective.GetSummary)
					or.Get("/export", h.Objective.ExportObjectives)
					or.Get("/requests", h.Objective.ListRequests)
					or.With(h.Authorization.RequireRequestObjective()).Post("/requests", h.Objective.RequestObjective)
					or.Get("/{id}", h.Objective.GetObjective)
					or.Delete("/{id}", h.Objective.DeleteObjective)
				})

				dr.Post("/key-results/{krID}/milestones", h.Objective.AddMilestone)
				dr.Patch("/key-results/{krID}/milestones/{milestoneID}", h.Objective.UpdateMilestoneStatus)

				dr.Route("/organization", func(gr chi.Router) {
					gr.Get("/chart", h.Organization.GetChart)
					gr.Get("/users/{id}", h.Organization.GetUser)
					gr.Get("/users/{id}/ancestors", h.Organization.GetAncestors)
					gr.With(h.Authorization.RequireManageOrganization()).Patch("/users/{id}/manager", h.Organization.UpdateManager)
				})
			})
		})
	})
	return nil
}
