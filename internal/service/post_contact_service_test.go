package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
)

func TestPostService(t *testing.T) {
	svc := NewPostService(repository.NewPostRepository(setupTestDB(t)))
	ctx := context.Background()

	p, err := svc.Create(ctx, "author-1", dto.CreatePostRequest{Title: "Summer Sale", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "summer-sale", p.Slug)
	require.NotNil(t, p.AuthorID)
	assert.Equal(t, "author-1", *p.AuthorID)

	dup, err := svc.Create(ctx, "", dto.CreatePostRequest{Title: "Summer Sale"})
	require.NoError(t, err)
	assert.Equal(t, "summer-sale-1", dup.Slug)
	assert.Nil(t, dup.AuthorID)

	got, err := svc.GetBySlug(ctx, "summer-sale")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	inactive := false
	_, err = svc.Update(ctx, dup.ID, dto.UpdatePostRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.GetBySlug(ctx, "summer-sale-1")
	assert.True(t, apperr.HasCode(err, apperr.CodePostNotFound))

	_, total, err := svc.List(ctx, dto.PostQuery{Search: "summer"}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodePostNotFound))
}

func TestContactService(t *testing.T) {
	svc := NewContactService(repository.NewContactRepository(setupTestDB(t)))
	ctx := context.Background()

	c, err := svc.Create(ctx, dto.CreateContactRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Subject:  "Booking",
		Message:  "Is the room available?",
	})
	require.NoError(t, err)

	rows, total, err := svc.List(ctx, dto.ContactQuery{Search: "jane"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, c.ID, rows[0].ID)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Booking", got.Subject)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeContactNotFound))
}
