package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

// DefaultSyncInterval is used when Start is given a non-positive interval.
const DefaultSyncInterval = 15 * time.Minute

type clientSyncJob struct {
	syncer syncer

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that calls s.Sync on a ticker.
// The job is idle until Start is called.
func NewClientSyncJob(s syncer) ClientSyncJob {
	return &clientSyncJob{syncer: s}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that calls Sync every interval. The
// goroutine exits when ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				// NotReady just means locked or logged out
				if err := j.syncer.Sync(jobCtx); err != nil && !errors.Is(err, ErrNotReady) {
					logger.FromContext(jobCtx).Warn().Err(err).Str("func", "clientSyncJob.Start").Msg("periodic sync failed")
				}
			}
		}
	}()
}

// Stop implements ClientSyncJob. Safe to call when the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
