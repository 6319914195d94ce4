package auth

import "golang.org/x/crypto/bcrypt"

// BcryptHasher はbcryptによるパスワードハッシュ化を提供します。
// ソルトは呼び出しごとに生成されるため、同じ平文でもダイジェストは毎回異なります。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はデフォルトコストのBcryptHasherを作成します。
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash は平文パスワードからダイジェストを生成します。
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify は平文パスワードがダイジェストに一致するか検証します。
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
