package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

type fakeSlugSource struct {
	taken   []string
	exclude string
	err     error
}

func (f *fakeSlugSource) TakenSlugs(_ context.Context, _ string, excludeID string) ([]string, error) {
	f.exclude = excludeID
	return f.taken, f.err
}

func TestNextFreeSlug(t *testing.T) {
	assert.Equal(t, "shoes", nextFreeSlug("shoes", nil))
	assert.Equal(t, "shoes-1", nextFreeSlug("shoes", []string{"shoes"}))
	assert.Equal(t, "shoes-3", nextFreeSlug("shoes", []string{"shoes", "shoes-1", "shoes-2"}))
	assert.Equal(t, "shoes-1", nextFreeSlug("shoes", []string{"shoes", "shoes-2"}))
	assert.Equal(t, "shoes", nextFreeSlug("shoes", []string{"shoes-1"}))
}

func TestSlugResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	src := &fakeSlugSource{taken: []string{"ao-thun-nam"}}
	got, err := NewSlugResolver(src).Resolve(ctx, "Áo Thun Nam", "", "self")
	require.NoError(t, err)
	assert.Equal(t, "ao-thun-nam-1", got)
	assert.Equal(t, "self", src.exclude)

	got, err = NewSlugResolver(&fakeSlugSource{}).Resolve(ctx, "Title", "  Custom Slug ", "")
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", got)

	got, err = NewSlugResolver(&fakeSlugSource{}).Resolve(ctx, "   ", "", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NewSlugResolver(&fakeSlugSource{}).Resolve(ctx, "!!!", "", "")
	require.NoError(t, err)
	assert.Len(t, got, 8)

	_, err = NewSlugResolver(&fakeSlugSource{err: errors.New("db down")}).Resolve(ctx, "x", "", "")
	assert.Error(t, err)
}

func TestSlugResolver_TruncatesLongTitles(t *testing.T) {
	ctx := context.Background()
	title := strings.Repeat("word ", 80)

	got, err := NewSlugResolver(&fakeSlugSource{}).Resolve(ctx, title, "", "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), maxSlugBaseLen)
	assert.False(t, strings.HasSuffix(got, "-"))

	taken := []string{got}
	for i := 1; i <= 1000; i++ {
		taken = append(taken, fmt.Sprintf("%s-%d", got, i))
	}
	next, err := NewSlugResolver(&fakeSlugSource{taken: taken}).Resolve(ctx, title, "", "")
	require.NoError(t, err)
	assert.Equal(t, got+"-1001", next)
	assert.LessOrEqual(t, len(next), maxSlugLen)
}

func TestTruncateSlug(t *testing.T) {
	assert.Equal(t, "short", truncateSlug("short", 10))
	assert.Equal(t, "abc", truncateSlug("abc-defgh", 4))
	assert.Equal(t, "abcd", truncateSlug("abcdefgh", 4))
}

func TestSlugResolver_CountsSoftDeletedRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryRepository(db)

	c := &model.Category{Name: "Shoes", Slug: "shoes", IsActive: true}
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Delete(ctx, c.ID))

	got, err := NewSlugResolver(repo).Resolve(ctx, "Shoes", "", "")
	require.NoError(t, err)
	assert.Equal(t, "shoes-1", got)
}
