package user

import (
	"context"
	"database/sql"
	"fmt"

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

// Create はユーザーを保存してIDを返します。
// メールまたはニックネームの重複は store.ErrDuplicate になります。
func (r *SQLiteRepository) Create(ctx context.Context, u *User) (int64, error) {
	query := `INSERT INTO users (email, password, nickname) VALUES (?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, u.Email, u.Password, nullableNickname(u.Nickname))
	if err != nil {
		return 0, store.MapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	u.ID = id
	return id, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, password, nickname FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// FindByID はIDでユーザーを取得します。
func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, email, password, nickname FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// UpdateNickname は表示名を変更します。
func (r *SQLiteRepository) UpdateNickname(ctx context.Context, id int64, nickname string) error {
	query := `UPDATE users SET nickname = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, nullableNickname(nickname), id)
	if err != nil {
		return store.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*User, error) {
	var (
		u        User
		nickname sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &nickname); err != nil {
		return nil, store.MapError(err)
	}
	u.Nickname = nickname.String
	return &u, nil
}

// nullableNickname は空文字をNULLに変換します。
// ユニーク制約のもとで未設定ユーザーを複数許すためです。
func nullableNickname(nickname string) any {
	if nickname == "" {
		return nil
	}
	return nickname
}
