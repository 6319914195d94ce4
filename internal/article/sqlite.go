package article

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

// Create は記事を保存してIDを返します。
func (r *SQLiteRepository) Create(ctx context.Context, a *Article) (int64, error) {
	query := `INSERT INTO articles (title, content) VALUES (?, ?)`

	res, err := r.db.ExecContext(ctx, query, a.Title, a.Content)
	if err != nil {
		return 0, store.MapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	a.ID = id
	return id, nil
}

// FindAll は全記事を返します。順序はストア依存で保証しません。
func (r *SQLiteRepository) FindAll(ctx context.Context) ([]*Article, error) {
	query := `SELECT id, title, content FROM articles`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.MapError(err)
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content); err != nil {
			return nil, err
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

// FindByID はIDで記事を取得します。
func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*Article, error) {
	query := `SELECT id, title, content FROM articles WHERE id = ?`

	var a Article
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Title, &a.Content); err != nil {
		return nil, store.MapError(err)
	}
	return &a, nil
}

// Update はタイトルと本文をひとつのトランザクションで置き換えます。
// 取得と更新を原子的に行い、同一IDへの並行更新はトランザクション分離で
// 直列化されます（後勝ち）。
func (r *SQLiteRepository) Update(ctx context.Context, id int64, title, content string) (*Article, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var a Article
	query := `SELECT id, title, content FROM articles WHERE id = ?`
	if err := tx.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Title, &a.Content); err != nil {
		return nil, store.MapError(err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE articles SET title = ?, content = ? WHERE id = ?`, title, content, id); err != nil {
		return nil, store.MapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	a.Title = title
	a.Content = content
	return &a, nil
}

// DeleteByID は記事を削除します。対象が存在しなければ store.ErrNotFound を返します。
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
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
