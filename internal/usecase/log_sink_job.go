package usecase

import (
	"context"
	"time"

	pkgcache "MomentumLab/pkg/cache"
	"MomentumLab/pkg/queue"
)

// LogSinkJobType matches the topic the logger's collector publishes on.
const LogSinkJobType = "logs.aggregated"

// LogSinkJob drains aggregated error-log batches from the queue and keeps
// the most recent batch readable for inspection.
type LogSinkJob struct {
	cache pkgcache.Service
}

func NewLogSinkJob(cache pkgcache.Service) *LogSinkJob {
	return &LogSinkJob{cache: cache}
}

func (j *LogSinkJob) Name() string { return "log-sink" }

func (j *LogSinkJob) Type() string { return LogSinkJobType }

func (j *LogSinkJob) Handle(ctx context.Context, payload interface{}) error {
	return j.cache.Set(ctx, pkgcache.GenerateKey("momentumlab:logs", "latest"), payload, 24*time.Hour)
}

var _ queue.Job = (*LogSinkJob)(nil)
