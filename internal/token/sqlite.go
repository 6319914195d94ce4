package token

import (
	"context"
	"database/sql"

	"github.com/yourusername/blog-engine/internal/store"
)

// SQLiteRepository はSQLiteを使ったRepository実装です。
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository はSQLiteRepositoryを作成します。
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save はユーザーのリフレッシュトークンを保存します（既存があれば置換）。
func (r *SQLiteRepository) Save(ctx context.Context, userID int64, token string) error {
	query := `
		INSERT INTO refresh_tokens (user_id, refresh_token) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET refresh_token = excluded.refresh_token`

	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return store.MapError(err)
	}
	return nil
}

// FindByToken はトークン文字列でレコードを取得します。
func (r *SQLiteRepository) FindByToken(ctx context.Context, token string) (*RefreshToken, error) {
	query := `SELECT id, user_id, refresh_token FROM refresh_tokens WHERE refresh_token = ?`

	var rt RefreshToken
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&rt.ID, &rt.UserID, &rt.Token); err != nil {
		return nil, store.MapError(err)
	}
	return &rt, nil
}
