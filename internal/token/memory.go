package token

import (
	"context"
	"sync"

	"github.com/yourusername/blog-engine/internal/store"
)

// MemoryRepository はマップを使ったRepository実装です。
// テストとローカル動作確認に使用します。
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byUser map[int64]*RefreshToken
}

// NewMemoryRepository はMemoryRepositoryを作成します。
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		byUser: make(map[int64]*RefreshToken),
	}
}

func (r *MemoryRepository) Save(ctx context.Context, userID int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byUser[userID]; ok {
		existing.Token = token
		return nil
	}
	r.byUser[userID] = &RefreshToken{
		ID:     r.nextID,
		UserID: userID,
		Token:  token,
	}
	r.nextID++
	return nil
}

func (r *MemoryRepository) FindByToken(ctx context.Context, token string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rt := range r.byUser {
		if rt.Token == token {
			clone := *rt
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}
