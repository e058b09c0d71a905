package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

func fixedClock(s string) func() time.Time {
	ts, _ := time.Parse(time.RFC3339, s)
	return func() time.Time { return ts }
}

func TestCounterService_SyncHits(t *testing.T) {
	repo := repository.NewCounterRepository(setupTestDB(t))
	svc := NewCounterService(repo, nil).(*counterService)
	ctx := context.Background()

	svc.now = fixedClock("2025-01-01T10:00:00Z")
	require.NoError(t, svc.Hit(ctx, ""))
	require.NoError(t, svc.Hit(ctx, ""))
	svc.now = fixedClock("2025-01-02T10:00:00Z")
	require.NoError(t, svc.Hit(ctx, ""))
	require.NoError(t, svc.Hit(ctx, "landing"))

	stats, err := svc.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCounterName, stats.Name)
	assert.Equal(t, "2025-01-02", stats.Day)
	assert.Equal(t, int64(1), stats.Today)
	assert.Equal(t, int64(3), stats.Total)

	landing, err := svc.Stats(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), landing.Total)
}

func TestCounterRecorder_FlushesOnStop(t *testing.T) {
	repo := repository.NewCounterRepository(setupTestDB(t))
	recorder := NewCounterRecorder(repo, 128)
	stop := recorder.Start(2)
	svc := NewCounterService(repo, recorder).(*counterService)
	svc.now = fixedClock("2025-03-01T00:00:00Z")
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, svc.Hit(ctx, "visitor"))
	}
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	assert.Zero(t, recorder.QueueLen())
	stats, err := svc.Stats(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, int64(50), stats.Today)
	assert.Equal(t, int64(50), stats.Total)
}

func TestCounterService_FallsBackWhenQueueFull(t *testing.T) {
	repo := repository.NewCounterRepository(setupTestDB(t))
	recorder := NewCounterRecorder(repo, 1)
	svc := NewCounterService(repo, recorder).(*counterService)
	svc.now = fixedClock("2025-03-01T00:00:00Z")
	ctx := context.Background()

	require.NoError(t, svc.Hit(ctx, "visitor")) // 入队
	require.NoError(t, svc.Hit(ctx, "visitor")) // 队列已满，同步写入
	assert.Equal(t, 1, recorder.QueueLen())

	stats, err := svc.Stats(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Today)

	stop := recorder.Start(1)
	require.NoError(t, stop(ctx))
	stats, err = svc.Stats(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Today)
}
