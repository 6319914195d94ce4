package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-engine/internal/user"
)

// newTestRouter はメモリ上のユーザーストアと保護ルートを持つルーターを組み立てます。
func newTestRouter(t *testing.T) (*gin.Engine, *user.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := user.NewService(user.NewMemoryRepository(), NewBcryptHasher())
	manager := NewManager(users, nil)

	router := gin.New()
	router.Use(sessions.Sessions(SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	router.Use(manager.Gate())

	router.POST("/login", manager.Login)
	router.POST("/logout", manager.Logout)
	router.GET("/private", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserKey))
	})

	return router, users
}

func postLogin(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	router, users := newTestRouter(t)
	if _, err := users.Register(context.Background(), "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	rec := postLogin(router, "a@x.com", "pw1")

	if rec.Code != http.StatusFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/articles" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	// 確立したセッションで保護ルートへ到達できる
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected protected route to be served, got %d", rec.Code)
	}
	if rec.Body.String() != "a@x.com" {
		t.Fatalf("unexpected context user: %q", rec.Body.String())
	}
}

func TestLoginWrongPasswordDoesNotEstablishSession(t *testing.T) {
	router, users := newTestRouter(t)
	if _, err := users.Register(context.Background(), "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	rec := postLogin(router, "a@x.com", "wrong")

	if rec.Code != http.StatusFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}

	// 失敗後は保護ルートに到達できない
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
}

func TestLoginUnknownEmailRedirectsWithoutDetail(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postLogin(router, "nobody@x.com", "pw1")

	// 未登録メールもパスワード不一致と同じレスポンスになる
	if rec.Code != http.StatusFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	router, users := newTestRouter(t)
	if _, err := users.Register(context.Background(), "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	loginRec := postLogin(router, "a@x.com", "pw1")
	cookies := loginRec.Result().Cookies()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("logout attempt %d: unexpected status %d", i+1, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Fatalf("logout attempt %d: unexpected redirect target %s", i+1, loc)
		}
	}
}

// requestWithCookies は保護ルートへセッションクッキー付きでアクセスします。
func requestWithCookies(router *gin.Engine, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGateRejectsIdleSession(t *testing.T) {
	orig := idleTimeout
	idleTimeout = 50 * time.Millisecond
	t.Cleanup(func() { idleTimeout = orig })

	router, users := newTestRouter(t)
	if _, err := users.Register(context.Background(), "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	cookies := postLogin(router, "a@x.com", "pw1").Result().Cookies()

	// アイドル期限内はアクセスできる
	if rec := requestWithCookies(router, cookies); rec.Code != http.StatusOK {
		t.Fatalf("expected access before idle timeout, got %d", rec.Code)
	}

	time.Sleep(120 * time.Millisecond)

	rec := requestWithCookies(router, cookies)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect after idle timeout, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestGateRejectsSessionPastAbsoluteLifetime(t *testing.T) {
	orig := maxSessionLifetime
	maxSessionLifetime = 50 * time.Millisecond
	t.Cleanup(func() { maxSessionLifetime = orig })

	router, users := newTestRouter(t)
	if _, err := users.Register(context.Background(), "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	cookies := postLogin(router, "a@x.com", "pw1").Result().Cookies()

	time.Sleep(120 * time.Millisecond)

	// アイドル期限内でも絶対期限を超えたセッションは拒否される
	rec := requestWithCookies(router, cookies)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect after absolute lifetime, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestGateChallengeDeletesSessionCookie(t *testing.T) {
	orig := idleTimeout
	idleTimeout = 50 * time.Millisecond
	t.Cleanup(func() { idleTimeout = orig })

	router, users := newTestRouter(t)
	if _, err := users.Register(context.Background(), "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	cookies := postLogin(router, "a@x.com", "pw1").Result().Cookies()

	time.Sleep(120 * time.Millisecond)

	// 期限切れセッションの破棄時はクッキーも削除指示される
	rec := requestWithCookies(router, cookies)
	var deleted bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			deleted = true
		}
	}
	if !deleted {
		t.Fatal("expected session cookie to be expired on challenge")
	}
}

func TestLoginRateLimitLocksAfterRepeatedFailures(t *testing.T) {
	router, users := newTestRouter(t)
	if _, err := users.Register(context.Background(), "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	for i := 0; i < maxLoginAttempts; i++ {
		postLogin(router, "a@x.com", "wrong")
	}

	rec := postLogin(router, "a@x.com", "pw1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected lockout, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}
