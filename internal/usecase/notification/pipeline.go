package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/room-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/lock"
)

// ErrTickInProgress is returned when a tick is already running here or,
// with a distributed lock, on another instance.
var ErrTickInProgress = errors.New("notification tick already in progress")

const tickLockKey = "notification-tick"

var tracer = otel.Tracer("github.com/BruksfildServices01/room-scheduler/notification")

type Result struct {
	RunID            string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	RemindersCreated int       `json:"reminders_created"`
	Processed        int       `json:"processed"`
	Sent             int       `json:"sent"`
	Retrying         int       `json:"retrying"`
	Failed           int       `json:"failed"`
	Errors           int       `json:"errors"`
}

// Reporter archives a finished tick.
type Reporter interface {
	PutJSON(ctx context.Context, at time.Time, name string, v any) (string, error)
}

type PipelineOptions struct {
	Locker   lock.Locker
	LockTTL  time.Duration
	Reporter Reporter
	Log      *slog.Logger
}

// Pipeline is one tick of the notification engine: reminders, drain,
// dispatch. Runs never overlap.
type Pipeline struct {
	scheduler  *Scheduler
	dispatcher *Dispatcher
	clock      clock.Clock
	opts       PipelineOptions
	log        *slog.Logger

	mu sync.Mutex
}

func NewPipeline(
	scheduler *Scheduler,
	dispatcher *Dispatcher,
	clk clock.Clock,
	opts PipelineOptions,
) *Pipeline {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	return &Pipeline{
		scheduler:  scheduler,
		dispatcher: dispatcher,
		clock:      clk,
		opts:       opts,
		log:        log,
	}
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if !p.mu.TryLock() {
		return nil, ErrTickInProgress
	}
	defer p.mu.Unlock()

	if p.opts.Locker != nil {
		release, ok, err := p.opts.Locker.Acquire(ctx, tickLockKey, p.opts.LockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrTickInProgress
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				p.log.Warn("release tick lock failed", "error", err)
			}
		}()
	}

	ctx, span := tracer.Start(ctx, "notification.tick")
	defer span.End()

	now := p.clock.Now()
	res := &Result{RunID: uuid.NewString(), StartedAt: now}
	log := p.log.With("run_id", res.RunID)

	created, err := p.scheduler.GenerateReminders(ctx, now)
	res.RemindersCreated = created
	if err != nil {
		res.Errors++
		log.Error("reminder generation incomplete", "error", err)
	}

	due, err := p.scheduler.DueNotifications(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "drain failed")
		return nil, err
	}

	for i := range due {
		outcome, err := p.dispatcher.Dispatch(ctx, &due[i], now)
		res.Processed++
		if err != nil {
			res.Errors++
			log.Error("dispatch failed", "notification_id", due[i].ID, "error", err)
			continue
		}
		switch outcome {
		case domain.OutcomeSent:
			res.Sent++
		case domain.OutcomeRetrying:
			res.Retrying++
		case domain.OutcomeFailed:
			res.Failed++
		}
	}

	res.FinishedAt = p.clock.Now()

	span.SetAttributes(
		attribute.String("run_id", res.RunID),
		attribute.Int("reminders_created", res.RemindersCreated),
		attribute.Int("processed", res.Processed),
		attribute.Int("sent", res.Sent),
		attribute.Int("failed", res.Failed),
	)

	log.Info("notification tick finished",
		"reminders_created", res.RemindersCreated,
		"processed", res.Processed,
		"sent", res.Sent,
		"retrying", res.Retrying,
		"failed", res.Failed,
	)

	if p.opts.Reporter != nil {
		if key, err := p.opts.Reporter.PutJSON(ctx, now, res.RunID, res); err != nil {
			log.Warn("archive tick report failed", "error", err)
		} else {
			log.Debug("tick report archived", "key", key)
		}
	}

	return res, nil
}
