package event

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

// Publisher 将 outbox 事件投递到外部系统
type Publisher interface {
	Publish(ctx context.Context, ev model.Outbox) error
	Close() error
}

// KafkaPublisher 基于 sarama 同步生产者，消息 key 为聚合 ID，保证同一订单的事件落在同一分区
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher 连接 brokers 创建同步生产者
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "shop-api"
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 5 * time.Second
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev model.Outbox) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.AggregateID),
		Value: sarama.StringEncoder(ev.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(ev.ID)},
			{Key: []byte("event_type"), Value: []byte(ev.EventType)},
		},
		Timestamp: ev.CreatedAt,
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send %s: %w", ev.EventType, err)
	}
	logger.Debug("event published",
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.EventType),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *KafkaPublisher) Close() error { return p.producer.Close() }

// LogPublisher 未启用 kafka 时仅记录日志
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev model.Outbox) error {
	logger.Info("event",
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.EventType),
		zap.String("aggregate_id", ev.AggregateID),
		zap.String("payload", ev.Payload),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
