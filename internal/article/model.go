// Package article はブログ記事のCRUDを提供します。
package article

import "errors"

// Article はブログ記事のレコードです。
type Article struct {
	ID      int64
	Title   string
	Content string
}

// New は必須項目を検証してArticleを作成します。
func New(title, content string) (*Article, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if content == "" {
		return nil, errors.New("content is required")
	}
	return &Article{Title: title, Content: content}, nil
}
