// Command notifier runs the notification pipeline without the HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/BruksfildServices01/room-scheduler/internal/app"
	"github.com/BruksfildServices01/room-scheduler/internal/config"
	ucNotification "github.com/BruksfildServices01/room-scheduler/internal/usecase/notification"
)

func main() {
	once := pflag.Bool("once", false, "run a single tick and exit")
	pflag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(*once, log); err != nil {
		log.Error("notifier stopped", "error", err)
		os.Exit(1)
	}
}

func run(once bool, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, "room-scheduler-notifier", log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	if once {
		res, err := a.Pipeline.Run(ctx)
		if err != nil {
			return err
		}
		log.Info("tick done",
			"run_id", res.RunID,
			"reminders", res.RemindersCreated,
			"processed", res.Processed,
			"sent", res.Sent,
			"retrying", res.Retrying,
			"failed", res.Failed,
		)
		return nil
	}

	log.Info("notifier running", "interval", cfg.TickInterval)
	ucNotification.NewTrigger(a.Pipeline, a.Clock, cfg.TickInterval, log).Start(ctx)
	return nil
}
