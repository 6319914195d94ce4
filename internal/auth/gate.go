package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// 認証なしで到達できるパス。ログイン・登録系と静的アセットのみです。
var publicPaths = map[string]bool{
	LoginPath:    true,
	"/signup":    true,
	"/user":      true,
	"/api/token": true,
	"/health":    true,
}

const staticPrefix = "/static/"

// isPublicPath は公開パスの許可リストとの一致を判定します。
func isPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	return strings.HasPrefix(path, staticPrefix)
}

// Gate はすべての受信リクエストを検査するミドルウェアを返します。
// 公開パスは無条件に通過し、それ以外は有効なセッションがなければ
// ログインページへリダイレクトします。状態はリクエストごとに
// セッションストアから導出されます。
func (m *Manager) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		email, ok := session.Get(sessionKeyUser).(string)
		if !ok || email == "" {
			m.challenge(c, session)
			return
		}

		now := time.Now()
		issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
		lastActive := readUnix(session.Get(sessionKeyLastActive))

		// 絶対期限・アイドル期限のどちらかを超えたセッションは破棄する
		if issuedAt.IsZero() || now.Sub(issuedAt) > maxSessionLifetime {
			m.challenge(c, session)
			return
		}
		if lastActive.IsZero() || now.Sub(lastActive) > idleTimeout {
			m.challenge(c, session)
			return
		}

		session.Set(sessionKeyLastActive, now.Unix())
		_ = session.Save()
		c.Set(ContextUserKey, email)
		c.Next()
	}
}

// challenge はセッションを破棄してログインページへリダイレクトします。
// 要求されたリソースは提供しません。MaxAgeを負にして保存することで、
// ストア側のレコードとクッキーの両方を削除します。
func (m *Manager) challenge(c *gin.Context, session sessions.Session) {
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = session.Save()
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}
