package article

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/blog-engine/internal/store"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository())
}

func TestServiceCreateThenFind(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "title", "content")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", found.Title)
	assert.Equal(t, "content", found.Content)
}

func TestServiceCreateRequiresFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "content")
	assert.Error(t, err)

	_, err = svc.Create(ctx, "title", "")
	assert.Error(t, err)
}

func TestServiceUpdateReplacesBothFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "title", "content")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, "newTitle", "newContent")
	require.NoError(t, err)
	assert.Equal(t, "newTitle", updated.Title)
	assert.Equal(t, "newContent", updated.Content)

	// 再取得しても新旧が混在しない
	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "newTitle", found.Title)
	assert.Equal(t, "newContent", found.Content)
}

func TestServiceUpdateAbsentIDFails(t *testing.T) {
	svc := newTestService()

	_, err := svc.Update(context.Background(), 99, "t", "c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Equal(t, "not found: 99", err.Error())
}

func TestServiceFindAbsentIDFails(t *testing.T) {
	svc := newTestService()

	_, err := svc.FindByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Equal(t, "not found: 42", err.Error())
}

func TestServiceDeleteRemovesExactlyOne(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "one", "1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "two", "2")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))

	remaining, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	// 削除済みIDの取得は常に失敗する
	_, err = svc.FindByID(ctx, first.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestServiceDeleteAbsentIDFails(t *testing.T) {
	svc := newTestService()

	err := svc.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Equal(t, "not found: 7", err.Error())
}
