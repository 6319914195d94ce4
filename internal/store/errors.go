package store

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound はキーに対応するレコードが存在しないことを表します。
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate はユニーク制約違反を表します。
	ErrDuplicate = errors.New("duplicate key")
)

// MapError はドライバーのエラーをパッケージの番兵エラーへ変換します。
// SQLiteは型付きエラーを公開しないためメッセージで判定します。
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}
