// Package user はアイデンティティ（登録ユーザー）の管理を提供します。
package user

import "errors"

// User は登録ユーザーのレコードです。
// Password には常にハッシュ済みのダイジェストのみを保持します。
type User struct {
	ID       int64
	Email    string // ログイン識別子（ユニーク）
	Password string // bcryptダイジェスト
	Nickname string // 表示名（ユニーク、空なら未設定）
}

// New は必須項目を検証してUserを作成します。
func New(email, passwordHash, nickname string) (*User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}
	return &User{
		Email:    email,
		Password: passwordHash,
		Nickname: nickname,
	}, nil
}
