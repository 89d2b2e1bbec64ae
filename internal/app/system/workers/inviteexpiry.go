// internal/app/system/workers/inviteexpiry.go
package workers

import (
	"context"
	"sync"
	"time"

	invitestore "github.com/placementhub/placementhub/internal/app/store/invites"
	"go.uber.org/zap"
)

// InviteExpiry is a background worker that transitions pending invites
// past their deadline to the expired status. The sweep keeps the
// pending-uniqueness index from blocking re-invites indefinitely.
type InviteExpiry struct {
	invites  *invitestore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewInviteExpiry creates the worker. interval is how often the sweep runs.
func NewInviteExpiry(invites *invitestore.Store, logger *zap.Logger, interval time.Duration) *InviteExpiry {
	return &InviteExpiry{
		invites:  invites,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *InviteExpiry) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("invite expiry worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *InviteExpiry) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("invite expiry worker stopped")
}

func (w *InviteExpiry) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *InviteExpiry) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.invites.ExpirePending(ctx)
	if err != nil {
		w.log.Error("invite expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("expired stale invites", zap.Int64("count", count))
	}
}
