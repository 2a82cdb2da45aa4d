package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/clock"
)

type Runner interface {
	Run(ctx context.Context) (*Result, error)
}

// Trigger runs the pipeline on a fixed interval until ctx is done.
type Trigger struct {
	runner   Runner
	clock    clock.Clock
	interval time.Duration
	log      *slog.Logger
}

func NewTrigger(runner Runner, clk clock.Clock, interval time.Duration, log *slog.Logger) *Trigger {
	if log == nil {
		log = slog.Default()
	}
	return &Trigger{runner: runner, clock: clk, interval: interval, log: log}
}

func (t *Trigger) Start(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	t.log.Info("notification trigger started", "interval", t.interval)

	for {
		select {
		case <-ctx.Done():
			t.log.Info("notification trigger stopped")
			return
		case <-ticker.C:
			t.fire(ctx)
		}
	}
}

// Go runs Start in the background. The returned stop cancels it and
// blocks until any in-flight tick has returned.
func (t *Trigger) Go(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t.Start(ctx)
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

func (t *Trigger) fire(ctx context.Context) {
	_, err := t.runner.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrTickInProgress):
		t.log.Info("tick skipped, previous run still in progress")
	default:
		t.log.Error("notification tick failed", "error", err)
	}
}
