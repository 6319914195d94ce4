package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yourusername/blog-engine/internal/config"
	"github.com/yourusername/blog-engine/internal/store"
	"github.com/yourusername/blog-engine/internal/user"
)

// ErrInvalidToken はトークンが無効または不明であることを表します。
var ErrInvalidToken = errors.New("invalid token")

// Claims はアクセストークンの標準クレームにメールアドレスを加えたものです。
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Service はリフレッシュトークンの発行とアクセストークンへの交換を提供します。
type Service struct {
	repo     Repository
	users    user.Repository
	issuer   string
	secret   []byte
	validity time.Duration
}

// NewService はServiceを作成します。
func NewService(repo Repository, users user.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		issuer:   cfg.JWTIssuer,
		secret:   []byte(cfg.JWTSecretKey),
		validity: time.Duration(cfg.AccessTokenExpiry) * time.Minute,
	}
}

// Mint はユーザーの新しいリフレッシュトークンを発行して保存します。
// 既存のトークンは置き換えられます。
func (s *Service) Mint(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.repo.Save(ctx, userID, token); err != nil {
		return "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return token, nil
}

// CreateAccessToken はリフレッシュトークンを検証し、アクセストークンを発行します。
func (s *Service) CreateAccessToken(ctx context.Context, refreshToken string) (string, error) {
	rt, err := s.repo.FindByToken(ctx, refreshToken)
	if err != nil {
		// 未知のトークンのみ無効扱いにする。ストア障害は呼び出し側へそのまま返す
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: unexpected refresh token", ErrInvalidToken)
		}
		return "", fmt.Errorf("failed to load refresh token: %w", err)
	}

	u, err := s.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load token owner: %w", err)
	}

	return s.generate(u)
}

func (s *Service) generate(u *user.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		Email: u.Email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse はアクセストークンを検証してクレームを返します。
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
