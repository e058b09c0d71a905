package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCodeStore(t *testing.T) {
	s := NewMemoryCodeStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := s.Consume(ctx, "missing", "1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "a", "111111"))
	ok, _ = s.Consume(ctx, "a", "222222")
	assert.False(t, ok)
	ok, _ = s.Consume(ctx, "a", "111111")
	assert.True(t, ok)
	ok, _ = s.Consume(ctx, "a", "111111")
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "b", "333333"))
	now = now.Add(2 * time.Minute)
	ok, _ = s.Consume(ctx, "b", "333333")
	assert.False(t, ok)
	assert.Empty(t, s.codes)
}

func TestMemoryCodeStoreEvictsExpiredOnSave(t *testing.T) {
	s := NewMemoryCodeStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, k, "111111"))
	}
	require.Len(t, s.codes, 3)

	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Save(ctx, "d", "222222"))
	assert.Len(t, s.codes, 1)
	ok, err := s.Consume(ctx, "d", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNopProductCache(t *testing.T) {
	var c ProductCache = NopProductCache{}
	_, err := c.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Set(context.Background(), nil))
	assert.NoError(t, c.Delete(context.Background(), "x"))
}
