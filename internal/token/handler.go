package token

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Exchanger はリフレッシュトークンをアクセストークンへ交換するサービスが実装します。
type Exchanger interface {
	CreateAccessToken(ctx context.Context, refreshToken string) (string, error)
}

type createAccessTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// CreateAccessTokenHandler は POST /api/token のハンドラーを返します。
func CreateAccessTokenHandler(svc Exchanger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAccessTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "refreshToken を JSON で送ってください。",
			})
			return
		}

		accessToken, err := svc.CreateAccessToken(c.Request.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code":    "INVALID_REFRESH_TOKEN",
					"message": "リフレッシュトークンが無効です。",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "アクセストークンの発行に失敗しました。",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"accessToken": accessToken})
	}
}
