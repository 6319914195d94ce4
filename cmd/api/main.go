// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-engine/internal/article"
	"github.com/yourusername/blog-engine/internal/auth"
	"github.com/yourusername/blog-engine/internal/config"
	"github.com/yourusername/blog-engine/internal/store"
	"github.com/yourusername/blog-engine/internal/token"
	"github.com/yourusername/blog-engine/internal/user"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// データベースの初期化とマイグレーション
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := store.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// セッションストアの設定（Redisが設定されていればサーバーサイド保存）
	sessionStore, err := buildSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to build session store: %v", err)
	}
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   auth.SessionMaxAgeSeconds(),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, sessionStore))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
	}
	router.Use(cors.New(corsConfig))

	// テンプレートと静的アセット
	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/static", "./web/static")

	// 依存の組み立てとルーティングの設定
	deps := buildDependencies(cfg, db)
	setupRoutes(router, deps)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "blog-engine-api",
		"version": "0.1.0",
	})
}

// setupRoutes は認証ゲートと各エンドポイントの配線を行います。
func setupRoutes(router *gin.Engine, deps *dependencies) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	// すべてのリクエストは認証ゲートを通る。公開パスはゲート内の
	// 許可リストで素通しされる
	router.Use(deps.authManager.Gate())

	router.GET("/login", deps.authManager.LoginPage)
	router.POST("/login", deps.authManager.Login)
	router.POST("/logout", deps.authManager.Logout)

	router.GET("/signup", user.SignupPageHandler())
	router.POST("/signup", user.SignupHandler(deps.users))
	router.POST("/user", user.CreateHandler(deps.users))

	router.GET("/articles", article.ListPageHandler(deps.articles))

	api := router.Group("/api")
	{
		api.POST("/token", token.CreateAccessTokenHandler(deps.tokens))

		articles := api.Group("/articles")
		{
			articles.POST("", article.CreateHandler(deps.articles))
			articles.GET("", article.ListHandler(deps.articles))
			articles.GET("/:id", article.GetHandler(deps.articles))
			articles.PUT("/:id", article.UpdateHandler(deps.articles))
			articles.DELETE("/:id", article.DeleteHandler(deps.articles))
		}
	}
}
