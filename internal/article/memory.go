package article

import (
	"context"
	"sync"

	"github.com/yourusername/blog-engine/internal/store"
)

// MemoryRepository はマップを使ったRepository実装です。
// テストとローカル動作確認に使用します。
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	articles map[int64]*Article
}

// NewMemoryRepository はMemoryRepositoryを作成します。
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:   1,
		articles: make(map[int64]*Article),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, a *Article) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *a
	clone.ID = r.nextID
	r.nextID++
	r.articles[clone.ID] = &clone
	a.ID = clone.ID
	return clone.ID, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]*Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles := make([]*Article, 0, len(r.articles))
	for _, a := range r.articles {
		clone := *a
		articles = append(articles, &clone)
	}
	return articles, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, title, content string) (*Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.Title = title
	a.Content = content
	clone := *a
	return &clone, nil
}

func (r *MemoryRepository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}
