package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-engine/internal/store"
)

type signupRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Nickname string `json:"nickname" form:"nickname"`
}

// SignupPageHandler は GET /signup のハンドラーを返します。
func SignupPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "signup.html", nil)
	}
}

// SignupHandler は POST /signup のハンドラーを返します。
// フォームからユーザーを登録し、ログインページへリダイレクトします。
func SignupHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBind(&req); err != nil {
			c.Redirect(http.StatusFound, "/signup")
			return
		}

		if _, err := svc.Register(c.Request.Context(), req.Email, req.Password, req.Nickname); err != nil {
			// 重複メールもここに落ちる。詳細は返さずフォームへ戻す
			c.Redirect(http.StatusFound, "/signup")
			return
		}

		c.Redirect(http.StatusFound, "/login")
	}
}

// CreateHandler は POST /user のハンドラーを返します。
// 認証不要の登録APIで、作成したユーザーのIDを返します。
func CreateHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "email と password を指定してください。",
			})
			return
		}

		id, err := svc.Register(c.Request.Context(), req.Email, req.Password, req.Nickname)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{
					"code":    "DUPLICATE_IDENTITY",
					"message": "同じメールアドレスまたは表示名が既に登録されています。",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "ユーザーの登録に失敗しました。",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}
