package user

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
	users  map[int64]*User
}

// NewMemoryRepository はMemoryRepositoryを作成します。
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		users:  make(map[int64]*User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, u *User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return 0, store.ErrDuplicate
		}
		if u.Nickname != "" && existing.Nickname == u.Nickname {
			return 0, store.ErrDuplicate
		}
	}

	clone := *u
	clone.ID = r.nextID
	r.nextID++
	r.users[clone.ID] = &clone
	u.ID = clone.ID
	return clone.ID, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *MemoryRepository) UpdateNickname(ctx context.Context, id int64, nickname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if nickname != "" {
		for _, existing := range r.users {
			if existing.ID != id && existing.Nickname == nickname {
				return store.ErrDuplicate
			}
		}
	}
	u.Nickname = nickname
	return nil
}
