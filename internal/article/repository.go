package article

import "context"

// Repository は記事レコードの永続化契約です。
// Update と Delete は対象IDが存在しない場合 store.ErrNotFound を返します
// （取得系と同じ厳格なポリシーに統一しています）。
type Repository interface {
	Create(ctx context.Context, a *Article) (int64, error)
	FindAll(ctx context.Context) ([]*Article, error)
	FindByID(ctx context.Context, id int64) (*Article, error)
	Update(ctx context.Context, id int64, title, content string) (*Article, error)
	DeleteByID(ctx context.Context, id int64) error
}
