// Package app wires the long-lived collaborators shared by the API
// server and the standalone notifier.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/room-scheduler/internal/archive"
	"github.com/BruksfildServices01/room-scheduler/internal/audit"
	"github.com/BruksfildServices01/room-scheduler/internal/channel"
	"github.com/BruksfildServices01/room-scheduler/internal/clock"
	"github.com/BruksfildServices01/room-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/room-scheduler/internal/db"
	notificationDomain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/events"
	infraRepo "github.com/BruksfildServices01/room-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/room-scheduler/internal/lock"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/obs"
	"github.com/BruksfildServices01/room-scheduler/internal/routes"
	"github.com/BruksfildServices01/room-scheduler/internal/timezone"
	ucNotification "github.com/BruksfildServices01/room-scheduler/internal/usecase/notification"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Catalog  *lookup.Catalog
	Clock    clock.Clock
	Audit    *audit.Dispatcher
	Events   events.Publisher
	Pipeline *ucNotification.Pipeline
	Log      *slog.Logger

	closers []func(context.Context) error
}

// New opens the store, seeds lookups and builds the notification
// pipeline. Optional integrations stay off when unconfigured.
func New(ctx context.Context, cfg *config.Config, serviceName string, log *slog.Logger) (_ *App, err error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{Config: cfg, Clock: clock.Real(), Log: log, Events: events.Noop{}}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	shutdownTracer, err := obs.InitTracer(ctx, serviceName, cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdownTracer)

	// --------------------------------------------------
	// Store + lookups
	// --------------------------------------------------
	gdb, err := dbpkg.Open(cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	a.DB = gdb
	if sqlDB, err := gdb.DB(); err == nil {
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
	}

	if err := dbpkg.Migrate(gdb); err != nil {
		return nil, err
	}
	if err := lookup.Seed(ctx, gdb); err != nil {
		return nil, err
	}
	if a.Catalog, err = lookup.Load(ctx, gdb); err != nil {
		return nil, err
	}

	a.Audit = audit.NewDispatcher(audit.New(gdb), log)
	a.closers = append(a.closers, func(context.Context) error {
		a.Audit.Close()
		return nil
	})

	// --------------------------------------------------
	// Domain events
	// --------------------------------------------------
	if cfg.RabbitURL != "" {
		pub, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			return nil, err
		}
		a.Events = pub
		a.closers = append(a.closers, func(context.Context) error { return pub.Close() })
	}

	// --------------------------------------------------
	// Notification pipeline
	// --------------------------------------------------
	senders, err := buildSenders(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	repo := infraRepo.NewNotificationGormRepository(gdb)
	scheduler := ucNotification.NewScheduler(repo, a.Catalog, ucNotification.SchedulerConfig{
		Buffer:     cfg.ReminderBuffer,
		BatchSize:  cfg.BatchSize,
		MaxRetries: cfg.MaxRetries,
		Location:   timezone.Location(cfg.Timezone),
	}, log)
	dispatcher := ucNotification.NewDispatcher(repo, a.Catalog, senders, ucNotification.DispatcherConfig{
		MarkRecipientsDeliveredOnAttempt: cfg.MarkRecipientsDeliveredOnAttempt,
		Concurrency:                      cfg.DeliveryConcurrency,
	}, log)

	opts := ucNotification.PipelineOptions{Log: log}
	if cfg.RedisURL != "" {
		rdb, err := lock.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		opts.Locker = lock.NewRedisLocker(rdb, serviceName+":")
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	}
	if cfg.ReportBucket != "" {
		awsCfg := channel.AWSConfig(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		opts.Reporter = archive.NewS3Archiver(archive.NewS3Client(awsCfg), cfg.ReportBucket, "notification-ticks")
	}

	a.Pipeline = ucNotification.NewPipeline(scheduler, dispatcher, a.Clock, opts)
	return a, nil
}

func buildSenders(ctx context.Context, cfg *config.Config, log *slog.Logger) (channel.Registry, error) {
	senders := channel.Registry{
		notificationDomain.MethodInApp: channel.InApp{},
	}

	if cfg.SESFrom != "" {
		awsCfg := channel.AWSConfig(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		senders[notificationDomain.MethodEmail] = channel.NewEmailSender(channel.NewSESClient(awsCfg), cfg.SESFrom)
	} else {
		log.Info("email channel disabled", "reason", "SES_FROM not set")
	}

	fcm, err := channel.NewFCMClient(ctx, cfg.FCMServiceAccount)
	if err != nil {
		return nil, fmt.Errorf("push channel: %w", err)
	}
	if fcm != nil {
		senders[notificationDomain.MethodPush] = channel.NewPushSender(fcm)
	} else {
		log.Info("push channel disabled", "reason", "FCM_SERVICE_ACCOUNT not set")
	}

	return senders, nil
}

// RouteDeps hands the singletons to the HTTP layer.
func (a *App) RouteDeps() routes.Deps {
	return routes.Deps{
		DB:       a.DB,
		Config:   a.Config,
		Catalog:  a.Catalog,
		Clock:    a.Clock,
		Audit:    a.Audit,
		Events:   a.Events,
		Pipeline: a.Pipeline,
		Log:      a.Log,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
