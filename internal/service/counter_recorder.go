package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

type counterKey struct {
	name string
	day  string
}

// CounterRecorder 本地异步计数器：请求只入队，worker 批量合并后落库
type CounterRecorder struct {
	repo     repository.CounterRepository
	ch       chan counterKey
	maxBatch int
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewCounterRecorder(repo repository.CounterRepository, queueSize int) *CounterRecorder {
	if queueSize <= 0 {
		queueSize = 4096
	}
	return &CounterRecorder{
		repo:     repo,
		ch:       make(chan counterKey, queueSize),
		maxBatch: 256,
		stopCh:   make(chan struct{}),
	}
}

// Start 启动 worker，返回停止函数；停止时先排空队列
func (r *CounterRecorder) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.loop()
	}
	return func(ctx context.Context) error {
		r.stopOnce.Do(func() { close(r.stopCh) })
		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Enqueue 非阻塞入队，队列满时返回 false
func (r *CounterRecorder) Enqueue(name, day string) bool {
	select {
	case r.ch <- counterKey{name: name, day: day}:
		return true
	default:
		return false
	}
}

// QueueLen 返回当前队列长度（采样值）
func (r *CounterRecorder) QueueLen() int { return len(r.ch) }

func (r *CounterRecorder) loop() {
	defer r.wg.Done()
	for {
		select {
		case k := <-r.ch:
			r.flush(r.collect(k))
		case <-r.stopCh:
			for {
				select {
				case k := <-r.ch:
					r.flush(r.collect(k))
				default:
					return
				}
			}
		}
	}
}

// collect 合并当前已在队列中的同 key 计数
func (r *CounterRecorder) collect(first counterKey) map[counterKey]int64 {
	batch := map[counterKey]int64{first: 1}
	for i := 1; i < r.maxBatch; i++ {
		select {
		case k := <-r.ch:
			batch[k]++
		default:
			return batch
		}
	}
	return batch
}

func (r *CounterRecorder) flush(batch map[counterKey]int64) {
	for k, n := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.repo.Increment(ctx, k.name, k.day, n); err != nil {
			logger.Warn("counter flush failed",
				zap.String("name", k.name), zap.String("day", k.day), zap.Int64("n", n), zap.Error(err))
		}
		cancel()
	}
}
