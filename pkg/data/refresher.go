package data

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/savid/radioinfo/internal/metrics"
	"github.com/savid/radioinfo/pkg/schedule"
	"github.com/sirupsen/logrus"
)

// Updater produces a complete snapshot for a reference time.
type Updater interface {
	Update(ctx context.Context, now time.Time) (*Snapshot, error)
}

// RunResult is delivered once an asynchronous update finishes.
type RunResult struct {
	Snapshot *Snapshot
	Err      error
}

// Refresher runs updates on a cron schedule and on demand, one at a time,
// and publishes each completed snapshot to the store.
type Refresher struct {
	store    *Store
	updater  Updater
	spec     string
	logger   *logrus.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	running  atomic.Bool
	mu       sync.Mutex
	onUpdate []func(*Snapshot)
}

// NewRefresher creates a refresher. spec is a standard cron expression or
// descriptor such as "@hourly".
func NewRefresher(store *Store, updater Updater, spec string, logger *logrus.Logger, m *metrics.Metrics) *Refresher {
	return &Refresher{
		store:   store,
		updater: updater,
		spec:    spec,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// OnUpdate registers fn to be called after each snapshot swap.
func (r *Refresher) OnUpdate(fn func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onUpdate = append(r.onUpdate, fn)
}

// Start runs an update immediately, then on every cron tick, until ctx is
// cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(schedule.Location))
	if _, err := c.AddFunc(r.spec, func() { r.tick(ctx) }); err != nil {
		return err
	}

	r.tick(ctx)
	c.Start()
	r.logger.WithField("schedule", r.spec).Info("Refresh manager started")

	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("Refresh manager shutting down")
	return nil
}

func (r *Refresher) tick(ctx context.Context) {
	if _, err := r.Go(ctx); errors.Is(err, ErrRunInProgress) {
		r.metrics.ObserveRun(metrics.RunSkipped, 0)
		r.logger.Warn("Skipping scheduled refresh, previous run still active")
	}
}

// Go starts an update in the background and returns a channel that yields
// its result. It fails with ErrRunInProgress if an update is already running.
func (r *Refresher) Go(ctx context.Context) (<-chan RunResult, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}

	done := make(chan RunResult, 1)
	go func() {
		defer close(done)
		done <- r.refresh(ctx)
	}()

	return done, nil
}

// Trigger runs an update and waits for it.
func (r *Refresher) Trigger(ctx context.Context) (*Snapshot, error) {
	done, err := r.Go(ctx)
	if err != nil {
		return nil, err
	}

	res := <-done
	return res.Snapshot, res.Err
}

// Running reports whether an update is in flight.
func (r *Refresher) Running() bool {
	return r.running.Load()
}

func (r *Refresher) refresh(ctx context.Context) RunResult {
	defer r.running.Store(false)

	start := time.Now()
	r.logger.Info("Starting schedule refresh")

	snapshot, err := r.updater.Update(ctx, r.now())
	if err != nil {
		r.metrics.ObserveRun(metrics.RunFailure, time.Since(start))
		r.logger.WithError(err).Error("Failed to refresh schedules, keeping previous data")
		return RunResult{Err: err}
	}

	r.store.Set(snapshot)
	r.metrics.ObserveRun(metrics.RunSuccess, time.Since(start))
	r.metrics.ObserveSnapshot(snapshot.Result.ProgramCount(), len(snapshot.Result.NotFound), snapshot.UpdatedAt)

	r.mu.Lock()
	subscribers := append([]func(*Snapshot){}, r.onUpdate...)
	r.mu.Unlock()
	for _, fn := range subscribers {
		fn(snapshot)
	}

	r.logger.WithFields(logrus.Fields{
		"run_id":   snapshot.RunID,
		"duration": time.Since(start).String(),
	}).Info("Schedule refresh completed successfully")

	return RunResult{Snapshot: snapshot}
}
