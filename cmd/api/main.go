package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/BruksfildServices01/room-scheduler/internal/app"
	"github.com/BruksfildServices01/room-scheduler/internal/config"
	"github.com/BruksfildServices01/room-scheduler/internal/routes"
	ucNotification "github.com/BruksfildServices01/room-scheduler/internal/usecase/notification"
)

func main() {
	noCron := pflag.Bool("no-cron", false, "do not run the in-process notification ticker")
	pflag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(*noCron, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(noCron bool, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, "room-scheduler-api", log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	// Registered after the Close defer so ticks drain before the stores shut.
	if !noCron {
		stopTicks := ucNotification.NewTrigger(a.Pipeline, a.Clock, cfg.TickInterval, log).Go(ctx)
		defer stopTicks()
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, a.RouteDeps())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.Addr(), "cron", !noCron)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
