package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers aggregates workers in start order.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Start starts every worker in order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops the workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

// syncWorker runs a [service.ClientSyncJob] at a fixed interval.
type syncWorker struct {
	job      service.ClientSyncJob
	interval time.Duration
}

// NewSyncWorker adapts job to [Worker]. A non-positive interval falls back
// to the job's default.
func NewSyncWorker(job service.ClientSyncJob, interval time.Duration) Worker {
	return &syncWorker{job: job, interval: interval}
}

func (s *syncWorker) Start(ctx context.Context) {
	s.job.Start(ctx, s.interval)
}

func (s *syncWorker) Stop() {
	s.job.Stop()
}
