package user

import "context"

// Repository はユーザーレコードの永続化契約です。
// メール重複はストア層のユニーク制約で弾き、事前チェックは行いません。
type Repository interface {
	Create(ctx context.Context, u *User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	UpdateNickname(ctx context.Context, id int64, nickname string) error
}
