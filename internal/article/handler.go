package article

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-engine/internal/store"
)

// CRUDService は記事CRUDを提供するサービスが実装します。
type CRUDService interface {
	Create(ctx context.Context, title, content string) (*Article, error)
	List(ctx context.Context) ([]*Article, error)
	FindByID(ctx context.Context, id int64) (*Article, error)
	Update(ctx context.Context, id int64, title, content string) (*Article, error)
	Delete(ctx context.Context, id int64) error
}

type articleRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// articleResponse は取得系レスポンスの形式です。IDは含めません。
type articleResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func toResponse(a *Article) articleResponse {
	return articleResponse{Title: a.Title, Content: a.Content}
}

// CreateHandler は POST /api/articles のハンドラーを返します。
func CreateHandler(svc CRUDService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req articleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "title と content を JSON で送ってください。",
			})
			return
		}

		a, err := svc.Create(c.Request.Context(), req.Title, req.Content)
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":      a.ID,
			"title":   a.Title,
			"content": a.Content,
		})
	}
}

// ListHandler は GET /api/articles のハンドラーを返します。
func ListHandler(svc CRUDService) gin.HandlerFunc {
	return func(c *gin.Context) {
		articles, err := svc.List(c.Request.Context())
		if err != nil {
			respondWithError(c, err)
			return
		}

		responses := make([]articleResponse, 0, len(articles))
		for _, a := range articles {
			responses = append(responses, toResponse(a))
		}
		c.JSON(http.StatusOK, responses)
	}
}

// GetHandler は GET /api/articles/:id のハンドラーを返します。
func GetHandler(svc CRUDService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		a, err := svc.FindByID(c.Request.Context(), id)
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, toResponse(a))
	}
}

// UpdateHandler は PUT /api/articles/:id のハンドラーを返します。
func UpdateHandler(svc CRUDService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req articleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "title と content を JSON で送ってください。",
			})
			return
		}

		a, err := svc.Update(c.Request.Context(), id, req.Title, req.Content)
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":      a.ID,
			"title":   a.Title,
			"content": a.Content,
		})
	}
}

// DeleteHandler は DELETE /api/articles/:id のハンドラーを返します。
func DeleteHandler(svc CRUDService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondWithError(c, err)
			return
		}

		c.Status(http.StatusOK)
	}
}

// ListPageHandler は GET /articles のハンドラーを返します。
// ログイン後のランディングページとして記事一覧を描画します。
func ListPageHandler(svc CRUDService) gin.HandlerFunc {
	return func(c *gin.Context) {
		articles, err := svc.List(c.Request.Context())
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.HTML(http.StatusOK, "articles.html", gin.H{"articles": articles})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "id は数値で指定してください。",
		})
		return 0, false
	}
	return id, true
}

func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "ARTICLE_NOT_FOUND",
			"message": err.Error(),
		})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{
			"code":    "REQUEST_CANCELED",
			"message": "リクエストがキャンセルされました。",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "サーバー内部でエラーが発生しました。",
		})
	}
}
