package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"matrixadmin.app/panel/common/logger"
	"matrixadmin.app/panel/internal/http/middleware"
	"matrixadmin.app/panel/internal/model"
	"matrixadmin.app/panel/internal/service"
)

type mockAuthService struct {
	validateSessionFn func(ctx context.Context, sessionID int64) (*model.User, *model.Session, error)
}

func (m *mockAuthService) GetAuthorizationURL(state string) (string, error) {
	return "", nil
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error) {
	return nil, nil, service.ErrInvalidCode
}

func (m *mockAuthService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, *model.Session, error) {
	if m.validateSessionFn != nil {
		return m.validateSessionFn(ctx, sessionID)
	}
	return nil, nil, service.ErrSessionExpired
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID int64) error {
	return nil
}

func (m *mockAuthService) PurgeExpiredSessions(ctx context.Context) error {
	return nil
}

type mockAuthzService struct {
	isMatrixOwnerFn func(ctx context.Context, userID int64) (bool, error)
}

func (m *mockAuthzService) IsMatrixOwner(ctx context.Context, userID int64) (bool, error) {
	if m.isMatrixOwnerFn != nil {
		return m.isMatrixOwnerFn(ctx, userID)
	}
	return false, nil
}

func (m *mockAuthzService) IsMemberOfAny(ctx context.Context, userID int64) (bool, error) {
	return false, nil
}

var _ = Describe("Guard", func() {
	var (
		router *gin.Engine
		auth   *mockAuthService
		authz  *mockAuthzService
	)

	validSession := func() {
		auth.validateSessionFn = func(_ context.Context, sessionID int64) (*model.User, *model.Session, error) {
			Expect(sessionID).To(Equal(int64(42)))
			return &model.User{ID: 7, Email: "ops@matrix.example"}, &model.Session{ID: 42, UserID: 7}, nil
		}
	}

	request := func(path string, withCookie bool) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "42"})
		}
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		auth = &mockAuthService{}
		authz = &mockAuthzService{}
		router = gin.New()
		guard := middleware.NewGuard(auth, authz, false)
		router.Use(guard.Handler())
		ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
		router.GET("/", func(c *gin.Context) {
			user, admitted := middleware.CurrentUser(c)
			Expect(admitted).To(BeTrue())
			c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
		})
		router.GET("/auth", ok)
		router.GET("/auth/login", ok)
		router.GET("/auth/callback", ok)
		router.GET("/api/v1/companies", ok)
		router.GET("/healthz", ok)
	})

	It("redirects an unauthenticated request to the login page", func() {
		w := request("/", false)
		Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
		Expect(w.Header().Get("Location")).To(Equal("/auth"))
	})

	It("redirects an expired session to the login page and clears the cookie", func() {
		w := request("/", true)
		Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
		Expect(w.Header().Get("Location")).To(Equal("/auth"))
		Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring(middleware.SessionCookieName + "=;"))
	})

	It("admits a matrix owner", func() {
		validSession()
		authz.isMatrixOwnerFn = func(_ context.Context, userID int64) (bool, error) {
			Expect(userID).To(Equal(int64(7)))
			return true, nil
		}

		w := request("/", true)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("redirects a clean denial to the login page", func() {
		validSession()
		authz.isMatrixOwnerFn = func(_ context.Context, _ int64) (bool, error) {
			return false, nil
		}

		w := request("/", true)
		Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
		Expect(w.Header().Get("Location")).To(Equal("/auth"))
	})

	It("fails closed when the authorization check itself errors", func() {
		validSession()
		authz.isMatrixOwnerFn = func(_ context.Context, _ int64) (bool, error) {
			return false, errors.New("db down")
		}

		w := request("/", true)
		Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
		Expect(w.Header().Get("Location")).To(Equal("/auth"))
	})

	It("sends an authenticated user away from the login page", func() {
		validSession()

		w := request("/auth", true)
		Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
		Expect(w.Header().Get("Location")).To(Equal("/"))
	})

	It("keeps an authenticated user out of the login flow", func() {
		validSession()

		w := request("/auth/login", true)
		Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
		Expect(w.Header().Get("Location")).To(Equal("/"))
	})

	It("shows the login page to anonymous visitors", func() {
		w := request("/auth", false)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("lets anonymous visitors start the login flow", func() {
		w := request("/auth/login", false)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("tags the request context with the admitted user and session", func() {
		validSession()
		authz.isMatrixOwnerFn = func(_ context.Context, _ int64) (bool, error) {
			return true, nil
		}
		var fields logger.LogFields
		router.GET("/tagged", func(c *gin.Context) {
			fields = logger.GetLogFields(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := request("/tagged", true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(fields.UserID).To(HaveValue(Equal(int64(7))))
		Expect(fields.SessionID).To(HaveValue(Equal(int64(42))))
	})

	It("lets the callback through without a session", func() {
		w := request("/auth/callback", false)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("answers API requests with JSON instead of a redirect", func() {
		w := request("/api/v1/companies", false)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	})

	It("answers denied API requests with 403", func() {
		validSession()
		authz.isMatrixOwnerFn = func(_ context.Context, _ int64) (bool, error) {
			return false, nil
		}

		w := request("/api/v1/companies", true)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("never guards health checks", func() {
		w := request("/healthz", false)
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
