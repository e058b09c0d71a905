package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

// OutboxRepository 事务外发盒仓储
type OutboxRepository interface {
	Add(ctx context.Context, ev *model.Outbox) error
	// ClaimPending 取出一批待投递事件；postgres 下使用 FOR UPDATE SKIP LOCKED 避免多实例重复领取
	ClaimPending(ctx context.Context, limit int) ([]model.Outbox, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, reason string, giveUp bool) error
	WithTx(tx *gorm.DB) OutboxRepository
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepository{db: db} }

func (r *outboxRepository) WithTx(tx *gorm.DB) OutboxRepository { return &outboxRepository{db: tx} }

func (r *outboxRepository) Add(ctx context.Context, ev *model.Outbox) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]model.Outbox, error) {
	var batch []model.Outbox
	if r.db.Dialector.Name() == "postgres" {
		err := r.db.WithContext(ctx).Raw(`
            SELECT *
            FROM outbox
            WHERE status = ?
            ORDER BY created_at
            LIMIT ?
            FOR UPDATE SKIP LOCKED
        `, model.OutboxPending, limit).Scan(&batch).Error
		return batch, err
	}
	err := r.db.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("created_at").
		Limit(limit).
		Find(&batch).Error
	return batch, err
}

func (r *outboxRepository) MarkDone(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxDone, "processed_at": now, "last_error": ""}).Error
}

// MarkFailed 记录失败次数；giveUp 为 true 时不再重试
func (r *outboxRepository) MarkFailed(ctx context.Context, id, reason string, giveUp bool) error {
	updates := map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": reason,
	}
	if giveUp {
		updates["status"] = model.OutboxFailed
		updates["processed_at"] = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Model(&model.Outbox{}).Where("id = ?", id).Updates(updates).Error
}
