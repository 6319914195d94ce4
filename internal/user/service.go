package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/blog-engine/internal/store"
)

// PasswordHasher は平文パスワードの一方向変換を提供します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// ErrIdentityNotFound はメールアドレスに一致するユーザーが存在しないことを表します。
var ErrIdentityNotFound = errors.New("identity not found")

// Service はユーザー登録と参照を提供します。
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService はServiceを作成します。
func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Register はパスワードをハッシュ化してユーザーを登録し、IDを返します。
// 平文パスワードは保存もログ出力もしません。
func (s *Service) Register(ctx context.Context, email, password, nickname string) (int64, error) {
	if password == "" {
		return 0, errors.New("password is required")
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := New(email, digest, nickname)
	if err != nil {
		return 0, err
	}

	return s.repo.Create(ctx, u)
}

// LoadByEmail はメールアドレスでユーザーを取得します。
// 見つからない場合はエラーに照会したメールアドレスを含めます（ログ用途のみ）。
func (s *Service) LoadByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, email)
		}
		return nil, err
	}
	return u, nil
}

// VerifyCredentials はメールとパスワードを検証し、一致したユーザーを返します。
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (*User, error) {
	u, err := s.LoadByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, u.Password) {
		return nil, errors.New("password mismatch")
	}
	return u, nil
}

// Rename は表示名を変更します。
func (s *Service) Rename(ctx context.Context, id int64, nickname string) error {
	return s.repo.UpdateNickname(ctx, id, nickname)
}

// FindByID はIDでユーザーを取得します。
func (s *Service) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
