package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-engine/internal/user"
)

func newGateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := user.NewService(user.NewMemoryRepository(), NewBcryptHasher())
	manager := NewManager(users, nil)

	router := gin.New()
	router.Use(sessions.Sessions(SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	router.Use(manager.Gate())

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/login", ok)
	router.GET("/signup", ok)
	router.POST("/user", ok)
	router.GET("/static/app.js", ok)
	router.GET("/private", ok)

	return router
}

func TestGateAllowsPublicPaths(t *testing.T) {
	router := newGateRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/login"},
		{http.MethodGet, "/signup"},
		{http.MethodPost, "/user"},
		{http.MethodGet, "/static/app.js"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s %s: expected pass-through, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestGateRedirectsProtectedPathWithoutSession(t *testing.T) {
	router := newGateRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestIsPublicPath(t *testing.T) {
	for _, path := range []string{"/login", "/signup", "/user", "/api/token", "/health", "/static/css/site.css"} {
		if !isPublicPath(path) {
			t.Fatalf("expected %s to be public", path)
		}
	}
	for _, path := range []string{"/articles", "/api/articles", "/", "/staticfile"} {
		if isPublicPath(path) {
			t.Fatalf("expected %s to be protected", path)
		}
	}
}
