package usecase

import (
	"context"
	"fmt"
	"time"

	"MomentumLab/internal/domain/models"
	pkgcache "MomentumLab/pkg/cache"
	applogger "MomentumLab/pkg/logger"
	"MomentumLab/pkg/queue"
)

// BacktestJobType is the queue message type for asynchronous runs.
const BacktestJobType = "backtest.run"

// BacktestJobPayload is the enqueued form of a pending run.
type BacktestJobPayload struct {
	ID   string              `json:"id"`
	Spec models.BacktestSpec `json:"spec"`
}

// BacktestJob drains queued backtest runs: it executes the usecase and
// parks the JSON result in the cache for the HTTP layer to poll.
type BacktestJob struct {
	uc        *BacktestUseCase
	results   pkgcache.Service
	resultTTL time.Duration
	l         *applogger.Logger
}

func NewBacktestJob(uc *BacktestUseCase, results pkgcache.Service, resultTTL time.Duration, l *applogger.Logger) *BacktestJob {
	if resultTTL <= 0 {
		resultTTL = time.Hour
	}
	return &BacktestJob{uc: uc, results: results, resultTTL: resultTTL, l: l}
}

func (j *BacktestJob) Name() string { return "backtest-runner" }
func (j *BacktestJob) Type() string { return BacktestJobType }

func (j *BacktestJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[BacktestJobPayload](payload)
	if err != nil {
		return fmt.Errorf("backtest job payload: %w", err)
	}
	if p.ID == "" {
		return fmt.Errorf("backtest job: missing id")
	}

	j.store(ctx, &models.BacktestJobResult{ID: p.ID, Status: models.JobStatusRunning})

	result, err := j.uc.Run(ctx, p.Spec)
	now := time.Now().UTC()
	if err != nil {
		if j.l != nil {
			j.l.Error("backtest job failed", applogger.String("id", p.ID), applogger.Error(err))
		}
		j.store(ctx, &models.BacktestJobResult{
			ID:         p.ID,
			Status:     models.JobStatusFailed,
			Error:      err.Error(),
			FinishedAt: now,
		})
		// the failure is recorded for the poller; retrying a deterministic
		// run would fail the same way
		return nil
	}

	j.store(ctx, &models.BacktestJobResult{
		ID:         p.ID,
		Status:     models.JobStatusDone,
		Result:     result,
		FinishedAt: now,
	})
	return nil
}

// ResultKey is where a job's outcome lives in the cache.
func ResultKey(id string) string {
	return pkgcache.GenerateKey("momentumlab:results", id)
}

func (j *BacktestJob) store(ctx context.Context, r *models.BacktestJobResult) {
	if err := j.results.Set(ctx, ResultKey(r.ID), r, j.resultTTL); err != nil && j.l != nil {
		j.l.Warn("backtest job result store failed", applogger.String("id", r.ID), applogger.Error(err))
	}
}

var _ queue.Job = (*BacktestJob)(nil)
