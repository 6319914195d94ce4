// Package token はリフレッシュトークンの管理とアクセストークンの発行を提供します。
// セキュリティゲートはセッション認証のままで、トークンはAPIクライアント向けの
// 補助的な資格情報です。
package token

import "context"

// RefreshToken はユーザーごとに1つ保持される不透明なトークンです。
type RefreshToken struct {
	ID     int64
	UserID int64
	Token  string
}

// Repository はリフレッシュトークンの永続化契約です。
type Repository interface {
	// Save はユーザーのトークンを保存します。既存のトークンは置き換えます。
	Save(ctx context.Context, userID int64, token string) error

	// FindByToken はトークン文字列でレコードを取得します。
	// 存在しない場合は store.ErrNotFound を返します。
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)
}
