package main

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/blog-engine/internal/article"
	"github.com/yourusername/blog-engine/internal/auth"
	"github.com/yourusername/blog-engine/internal/config"
	"github.com/yourusername/blog-engine/internal/session"
	"github.com/yourusername/blog-engine/internal/token"
	"github.com/yourusername/blog-engine/internal/user"
)

// dependencies は配線済みのサービス一式です。
type dependencies struct {
	authManager *auth.Manager
	articles    *article.Service
	users       *user.Service
	tokens      *token.Service
}

// buildDependencies はリポジトリとサービスを組み立てます。
func buildDependencies(cfg *config.Config, db *sql.DB) *dependencies {
	userRepo := user.NewSQLiteRepository(db)
	articleRepo := article.NewSQLiteRepository(db)
	tokenRepo := token.NewSQLiteRepository(db)

	users := user.NewService(userRepo, auth.NewBcryptHasher())
	tokens := token.NewService(tokenRepo, userRepo, cfg)

	return &dependencies{
		authManager: auth.NewManager(users, tokens),
		articles:    article.NewService(articleRepo),
		users:       users,
		tokens:      tokens,
	}
}

// buildSessionStore はセッションストアを作成します。
// SESSION_REDIS_URL が設定されていればRedisのサーバーサイドストア、
// 無ければ署名付きクッキーストアを使います。
func buildSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionRedisURL == "" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	opt, err := redis.ParseURL(cfg.SessionRedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	ttl := time.Duration(auth.SessionMaxAgeSeconds()) * time.Second
	return session.NewRedisStore(client, ttl, []byte(cfg.SessionSecret)), nil
}
