package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/lookout/pkg/cli/config"
	controller "github.com/m-mizutani/lookout/pkg/controller/http"
	"github.com/m-mizutani/lookout/pkg/controller/scheduler"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		pipeCfg   pipelineConfig
	)

	flags := append(pipeCfg.flags(), serverCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the daily scheduler and the HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			p, err := newPipeline(ctx, &pipeCfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := p.Close(); err != nil {
					logger.Error("Failed to close state store", "error", err)
				}
			}()

			sched, err := scheduler.New(pipeCfg.watch.RunAt, p.Job)
			if err != nil {
				return err
			}

			server, err := controller.NewServer(
				ctx,
				p.Job,
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			logger.Info("Starting lookout server",
				slog.String("addr", serverCfg.Addr),
				slog.String("run_at", pipeCfg.watch.RunAt),
			)

			// Scheduler: first run fires immediately, then daily
			schedCtx, cancelSched := context.WithCancel(ctx)
			defer cancelSched()
			go func() {
				if err := sched.Run(schedCtx); err != nil {
					logger.Error("Scheduler stopped", slog.Any("error", err))
				}
			}()

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			cancelSched()

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
