package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

// OutboxRelay 轮询 outbox 并投递到 Publisher。
// 领取、投递、回写状态在同一事务内完成，进程崩溃时事件保持 pending 并在下次轮询重投（至少一次）。
type OutboxRelay struct {
	db           *gorm.DB
	outbox       repository.OutboxRepository
	publisher    Publisher
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewOutboxRelay(db *gorm.DB, outbox repository.OutboxRepository, publisher Publisher, batchSize, maxAttempts int, pollInterval time.Duration) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &OutboxRelay{
		db:           db,
		outbox:       outbox,
		publisher:    publisher,
		batchSize:    batchSize,
		maxAttempts:  maxAttempts,
		pollInterval: pollInterval,
	}
}

// Start 启动轮询；返回停止函数，等待当前批次结束
func (r *OutboxRelay) Start() func(context.Context) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.loop(stop)
	}()
	return func(ctx context.Context) error {
		close(stop)
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *OutboxRelay) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := r.ProcessOnce(context.Background()); err != nil {
				logger.Error("outbox relay failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce 处理一批待投递事件，返回成功投递数
func (r *OutboxRelay) ProcessOnce(ctx context.Context) (int, error) {
	sent := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := r.outbox.WithTx(tx)
		batch, err := repo.ClaimPending(ctx, r.batchSize)
		if err != nil {
			return err
		}
		for _, ev := range batch {
			if perr := r.publisher.Publish(ctx, ev); perr != nil {
				giveUp := ev.Attempts+1 >= r.maxAttempts
				logger.Warn("publish event failed",
					zap.String("event_id", ev.ID),
					zap.String("event_type", ev.EventType),
					zap.Int("attempts", ev.Attempts+1),
					zap.Bool("give_up", giveUp),
					zap.Error(perr),
				)
				if err := repo.MarkFailed(ctx, ev.ID, perr.Error(), giveUp); err != nil {
					return err
				}
				continue
			}
			if err := repo.MarkDone(ctx, ev.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	return sent, err
}
