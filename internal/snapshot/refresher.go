package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher reloads a Store on a cron schedule, e.g. "@every 5m".
type Refresher struct {
	cron   *cron.Cron
	store  *Store
	spec   string
	logger *slog.Logger
}

func NewRefresher(store *Store, spec string, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		store:  store,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the reload job and starts the scheduler.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		snap, err := r.store.Reload(ctx)
		if err != nil {
			r.logger.Error("scheduled snapshot reload failed", "error", err)
			return
		}
		r.logger.Info("scheduled snapshot reload", "version", snap.Version)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	r.logger.Info("snapshot refresher started", "spec", r.spec)
	return nil
}

// Stop halts the scheduler and waits for a running reload to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("snapshot refresher stopped")
}
