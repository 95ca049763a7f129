package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/okr-dashboard/internal/auth"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
	"github.com/frahmantamala/okr-dashboard/pkg/logger"
)

var _ = Describe("Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		creds, err := auth.NewStaticCredentials(demoLogins, "password", 4)
		Expect(err).NotTo(HaveOccurred())
		dir := &staticDirectory{dir: demoDirectory()}
		engine := permission.NewEngine()
		svc := auth.NewService(creds, auth.NewJWTTokenGenerator(testSecret, time.Hour), dir, engine, logger.Discard())
		h := auth.NewHandler(svc, dir, logger.Discard())
		authz := auth.NewAuthorization(engine, logger.Discard())

		router = chi.NewRouter()
		router.Post("/auth/login", h.Login)
		router.Post("/auth/logout", h.Logout)
		router.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/me", h.Me)
			r.Get("/me/permissions", h.Permissions)
			r.With(authz.RequireCreateObjective()).Post("/objectives", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
			})
		})
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email string) string {
		rec := do(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"password"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var session auth.Session
		Expect(json.Unmarshal(rec.Body.Bytes(), &session)).To(Succeed())
		return session.AccessToken
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

	It("should reject bad credentials with 401", func() {
		rec := do(http.MethodPost, "/auth/login", "", `{"email":"ceo@iqbas.org","password":"wrong"}`)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(errorCode(rec)).To(Equal("INVALID_CREDENTIALS"))
	})

	It("should reject a malformed body with 400", func() {
		rec := do(http.MethodPost, "/auth/login", "", `{"email":`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should describe the signed in actor and their manager", func() {
		token := login("user@iqbas.org")

		rec := do(http.MethodGet, "/me", token, "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var me auth.MeResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &me)).To(Succeed())
		Expect(me.User.ID).To(Equal("user-1"))
		Expect(me.Manager).NotTo(BeNil())
		Expect(me.Manager.ID).To(Equal("manager-1"))
		Expect(me.Capabilities).To(Equal(permission.Capabilities{ViewDashboard: true}))
	})

	It("should list capabilities for a manager", func() {
		token := login("manager@iqbas.org")

		rec := do(http.MethodGet, "/me/permissions", token, "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp auth.PermissionsResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Capabilities.RequestObjective).To(BeTrue())
		Expect(resp.Capabilities.CreateObjective).To(BeFalse())
	})

	It("should require a token on protected routes", func() {
		rec := do(http.MethodGet, "/me", "", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should gate routes on actor-level decisions", func() {
		Expect(do(http.MethodPost, "/objectives", login("manager@iqbas.org"), "{}").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodPost, "/objectives", login("hr@iqbas.org"), "{}").Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/objectives", login("ceo@iqbas.org"), "{}").Code).To(Equal(http.StatusCreated))
	})

	It("should invalidate the session on logout", func() {
		token := login("ceo@iqbas.org")

		Expect(do(http.MethodPost, "/auth/logout", token, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, "/me", token, "").Code).To(Equal(http.StatusUnauthorized))
	})
})
