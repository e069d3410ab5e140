package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"lifeline/internal/app"
	"lifeline/internal/platform/config"
	"lifeline/internal/platform/httpserver"
	"lifeline/internal/platform/logger"
)

// main wires the engine, serves the ops endpoints and runs background
// workers until SIGINT or SIGTERM. Domain operations are consumed in process
// by presentation layers; none are exposed here.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("lifeline stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := httpserver.New(cfg.Server.Addr, engine.OpsHandler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting lifeline ops server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("ops server stopped")
		return nil
	})
	return g.Wait()
}
