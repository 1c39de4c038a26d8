package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MomentumLab/internal/domain/models"
	domrepo "MomentumLab/internal/domain/repository"
	pkgkafka "MomentumLab/pkg/kafka"
	"MomentumLab/pkg/util"
)

// KafkaBarsHandler consumes bar events from Kafka and writes them to the
// daily-bar store.
type KafkaBarsHandler struct {
	topic   string
	storage domrepo.BarStorage
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, storage domrepo.BarStorage, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.BarEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	day, ok := util.ParseDay(ev.Day)
	if !ok {
		h.metrics.RecordError("consumer_bad_day")
		return fmt.Errorf("bar event: bad day %q", ev.Day)
	}

	start := time.Now()
	err := h.storage.Store(ctx, &models.DailyBar{
		Symbol:   ev.Symbol,
		Day:      day,
		Close:    ev.Close,
		AdjClose: ev.AdjClose,
		Volume:   ev.Volume,
		Source:   ev.Source,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordBarStored("clickhouse", ev.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
