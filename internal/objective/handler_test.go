package objective_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/objective"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
	"github.com/frahmantamala/okr-dashboard/pkg/logger"
)

var _ = Describe("Handler", func() {
	var (
		repo      *fakeRepository
		directory staticDirectory
		router    *chi.Mux
		actor     *org.User
	)

	BeforeEach(func() {
		repo = newFakeRepository()
		directory = demoDirectory()
		svc := objective.NewService(repo, permission.NewEngine(), directory, nil, logger.Discard())
		h := objective.NewHandler(svc, logger.Discard())

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithActor(r.Context(), actor)))
			})
		})
		router.Get("/objectives", h.ListObjectives)
		router.Post("/objectives", h.CreateObjective)
		router.Get("/objectives/summary", h.GetSummary)
		router.Get("/objectives/export", h.ExportObjectives)
		router.Get("/objectives/requests", h.ListRequests)
		router.Post("/objectives/requests", h.RequestObjective)
		router.Get("/objectives/{id}", h.GetObjective)
		router.Delete("/objectives/{id}", h.DeleteObjective)
		router.Post("/key-results/{krID}/milestones", h.AddMilestone)
		router.Patch("/key-results/{krID}/milestones/{milestoneID}", h.UpdateMilestoneStatus)
	})

	as := func(id string) {
		u, ok := directory.dir.FindUser(id)
		Expect(ok).To(BeTrue())
		actor = &u
	}

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body.Error.Code
	}

	It("should list objectives filtered by query parameters", func() {
		as("user-1")
		rec := do(http.MethodGet, "/objectives?status=achieved", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var views []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &views)).To(Succeed())
		Expect(views).To(HaveLen(1))
		Expect(views[0]["id"]).To(Equal("2"))
		Expect(views[0]["owner_name"]).To(Equal("Jane Doe"))
		Expect(views[0]["can_delete"]).To(BeFalse())
	})

	It("should reject an unknown status filter", func() {
		as("user-1")
		rec := do(http.MethodGet, "/objectives?status=done", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should render a missing objective as 404", func() {
		as("user-1")
		rec := do(http.MethodGet, "/objectives/99", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeObjectiveNotFound)))
	})

	It("should create an objective for the CEO", func() {
		as("ceo-1")
		rec := do(http.MethodPost, "/objectives", `{"title":"Expand","start_date":"2025-07-01","end_date":"2025-12-31","target":100}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(repo.graph.Objectives).To(HaveLen(4))
	})

	It("should forbid a manager from creating", func() {
		as("manager-1")
		rec := do(http.MethodPost, "/objectives", `{"title":"Expand","start_date":"2025-07-01","end_date":"2025-12-31"}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodePermissionDenied)))
	})

	It("should reject unknown fields in the body", func() {
		as("ceo-1")
		rec := do(http.MethodPost, "/objectives", `{"title":"Expand","priority":"high"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should accept a manager's objective request", func() {
		as("manager-1")
		rec := do(http.MethodPost, "/objectives/requests", `{"title":"Improve NPS"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodGet, "/objectives/requests", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var requests []objective.Request
		Expect(json.Unmarshal(rec.Body.Bytes(), &requests)).To(Succeed())
		Expect(requests).To(HaveLen(1))
	})

	It("should delete with 204 and deny the administrator on the root's objective", func() {
		repo.graph.Objectives = append(repo.graph.Objectives, &okr.Objective{ID: "9", OwnerID: "ceo-1"})
		as("hr-1")
		Expect(do(http.MethodDelete, "/objectives/9", "").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodDelete, "/objectives/1", "").Code).To(Equal(http.StatusNoContent))
	})

	It("should add a milestone for the key result owner", func() {
		as("user-1")
		rec := do(http.MethodPost, "/key-results/kr1/milestones", `{"title":"Retargeting"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var m okr.Milestone
		Expect(json.Unmarshal(rec.Body.Bytes(), &m)).To(Succeed())
		Expect(m.Status).To(Equal(okr.MilestoneToDo))
	})

	It("should update a milestone status for the owner's manager", func() {
		as("manager-1")
		rec := do(http.MethodPatch, "/key-results/kr2/milestones/m2", `{"status":"Done"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		as("user-1")
		rec = do(http.MethodPatch, "/key-results/kr2/milestones/m2", `{"status":"To-Do"}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should return the report summary", func() {
		as("user-1")
		rec := do(http.MethodGet, "/objectives/summary?department=all", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var summary objective.Summary
		Expect(json.Unmarshal(rec.Body.Bytes(), &summary)).To(Succeed())
		Expect(summary.TotalObjectives).To(Equal(3))
		Expect(summary.StatusCounts[objective.BucketAtRisk]).To(Equal(1))
	})

	It("should export CSV as an attachment", func() {
		as("user-1")
		rec := do(http.MethodGet, "/objectives/export?department=Operations", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/csv"))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("okr-export.csv"))
		Expect(strings.Count(rec.Body.String(), "\n")).To(Equal(2))
		Expect(rec.Body.String()).To(HavePrefix("Objective Title,Owner,Status"))
	})
})
