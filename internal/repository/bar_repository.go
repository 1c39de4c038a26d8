package repository

import (
	"context"

	"MomentumLab/internal/domain/models"
	"MomentumLab/internal/domain/repository"
	pkgkafka "MomentumLab/pkg/kafka"
	"MomentumLab/pkg/util"
)

// KafkaBarPublisher implements BarPublisher on top of the shared Kafka
// producer. Bars are keyed by symbol so one instrument's history stays in
// partition order.
type KafkaBarPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaBarPublisher creates a Kafka-backed bar publisher.
func NewKafkaBarPublisher(producer *pkgkafka.Producer, topic string) repository.BarPublisher {
	return &KafkaBarPublisher{producer: producer, topic: topic}
}

func (p *KafkaBarPublisher) Publish(ctx context.Context, b *models.DailyBar) error {
	return p.producer.Publish(ctx, p.topic, []byte(b.Symbol), barEvent(b))
}

func (p *KafkaBarPublisher) PublishBatch(ctx context.Context, bars []*models.DailyBar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bars))
	for i, b := range bars {
		msgs[i] = pkgkafka.Message{Key: []byte(b.Symbol), Value: barEvent(b)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaBarPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func barEvent(b *models.DailyBar) models.BarEvent {
	return models.BarEvent{
		Symbol:   b.Symbol,
		Day:      util.FormatDay(b.Day),
		Close:    b.Close,
		AdjClose: b.AdjClose,
		Volume:   b.Volume,
		Source:   b.Source,
		EventID:  b.Symbol + "-" + util.FormatDay(b.Day),
	}
}
