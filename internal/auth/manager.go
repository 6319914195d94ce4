// Package auth は認証・認可機能を提供します。
package auth

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	sessionstore "github.com/yourusername/blog-engine/internal/session"
	"github.com/yourusername/blog-engine/internal/user"
)

const (
	SessionCookieName    = "blog_session"
	sessionKeyUser       = "auth_user"
	sessionKeyIssuedAt   = "issued_at"
	sessionKeyLastActive = "last_activity"

	// LoginPath は未認証リクエストのリダイレクト先です。
	LoginPath = "/login"
	// DefaultSuccessPath はログイン成功後のリダイレクト先です。
	DefaultSuccessPath = "/articles"

	refreshTokenCookie = "refresh_token"
)

var (
	maxSessionLifetime = 12 * time.Hour
	idleTimeout        = 30 * time.Minute
	loginWindow        = 15 * time.Minute
	lockDuration       = 10 * time.Minute
	maxLoginAttempts   = 5
)

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func SessionMaxAgeSeconds() int {
	return int(maxSessionLifetime.Seconds())
}

// ContextUserKey は、ハンドラー間でログイン済みユーザーのメールアドレスを共有するためのキーです。
const ContextUserKey = "auth.user"

// RefreshTokenIssuer はログイン成功時のリフレッシュトークン発行を提供します。
type RefreshTokenIssuer interface {
	Mint(ctx context.Context, userID int64) (string, error)
}

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	users    *user.Service
	issuer   RefreshTokenIssuer
	lock     sync.Mutex
	attempts map[string]*attemptState
}

// NewManager は認証マネージャーを作成します。issuer は省略可能です。
func NewManager(users *user.Service, issuer RefreshTokenIssuer) *Manager {
	return &Manager{
		users:    users,
		issuer:   issuer,
		attempts: make(map[string]*attemptState),
	}
}

type loginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginPage は GET /login のハンドラーです。
func (m *Manager) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// Login は POST /login のハンドラーです。
// 資格情報の検証に成功した場合のみセッションを確立します。
// 失敗理由（未登録かパスワード不一致か）はレスポンスでは区別しません。
func (m *Manager) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, LoginPath)
		return
	}

	ip := c.ClientIP()
	if retryAfter := m.checkLock(ip); retryAfter > 0 {
		// Retry-After は秒数またはHTTP-Date形式が推奨されているため秒数で返す
		c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
		c.String(http.StatusTooManyRequests, "一定時間後に再度お試しください")
		return
	}

	u, err := m.users.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		m.recordFailure(ip)
		log.Printf("login rejected: %v", err)
		c.Redirect(http.StatusFound, LoginPath)
		return
	}

	m.resetAttempts(ip)

	session := sessions.Default(c)
	now := time.Now()
	// セッション固定化を防ぐため、ログイン前の値を捨ててIDを付け替える
	session.Clear()
	session.Set(sessionstore.RotateIDKey, true)
	session.Set(sessionKeyUser, u.Email)
	session.Set(sessionKeyIssuedAt, now.Unix())
	session.Set(sessionKeyLastActive, now.Unix())

	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "セッションの保存に失敗しました")
		return
	}

	m.issueRefreshToken(c, u.ID)

	c.Redirect(http.StatusFound, DefaultSuccessPath)
}

// Logout は POST /logout のハンドラーです。
// セッションを無条件に破棄します（二重ログアウトはエラーになりません）。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "セッションの削除に失敗しました")
		return
	}

	c.SetCookie(refreshTokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, LoginPath)
}

func (m *Manager) issueRefreshToken(c *gin.Context, userID int64) {
	if m.issuer == nil {
		return
	}
	token, err := m.issuer.Mint(c.Request.Context(), userID)
	if err != nil {
		// トークン発行の失敗でログイン自体は妨げない
		log.Printf("failed to mint refresh token: %v", err)
		return
	}
	c.SetCookie(refreshTokenCookie, token, SessionMaxAgeSeconds(), "/", "", false, true)
}

func (m *Manager) checkLock(ip string) time.Duration {
	m.lock.Lock()
	defer m.lock.Unlock()

	state, ok := m.attempts[ip]
	if !ok {
		return 0
	}
	now := time.Now()
	if now.After(state.lockedUntil) {
		return 0
	}
	return time.Until(state.lockedUntil)
}

func (m *Manager) recordFailure(ip string) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := time.Now()
	state, ok := m.attempts[ip]
	if !ok || now.Sub(state.firstAttempt) > loginWindow {
		state = &attemptState{firstAttempt: now}
		m.attempts[ip] = state
	}

	state.count++
	if state.count >= maxLoginAttempts {
		state.lockedUntil = now.Add(lockDuration)
		state.count = maxLoginAttempts
	}

	remaining := maxLoginAttempts - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (m *Manager) resetAttempts(ip string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.attempts, ip)
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}
