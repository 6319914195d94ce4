package article

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/blog-engine/internal/store"
)

// Service は記事CRUDのアプリケーションロジックです。
type Service struct {
	repo Repository
}

// NewService はServiceを作成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create は記事を作成します。
func (s *Service) Create(ctx context.Context, title, content string) (*Article, error) {
	a, err := New(title, content)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List は全記事を返します。
func (s *Service) List(ctx context.Context) ([]*Article, error) {
	return s.repo.FindAll(ctx)
}

// FindByID はIDで記事を取得します。
func (s *Service) FindByID(ctx context.Context, id int64) (*Article, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return a, nil
}

// Update はタイトルと本文を同時に置き換えます。部分更新はできません。
func (s *Service) Update(ctx context.Context, id int64, title, content string) (*Article, error) {
	if title == "" || content == "" {
		return nil, errors.New("title and content are required")
	}
	a, err := s.repo.Update(ctx, id, title, content)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return a, nil
}

// Delete はIDで記事を削除します。存在しないIDは取得系と同じく失敗します。
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return wrapNotFound(err, id)
	}
	return nil
}

// NotFoundError は対象の記事が存在しないことを表します。
// メッセージはクライアントへそのまま返されます。
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %d", e.ID)
}

// Is は errors.Is(err, store.ErrNotFound) での判定を可能にします。
func (e *NotFoundError) Is(target error) bool {
	return target == store.ErrNotFound
}

func wrapNotFound(err error, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	return err
}
