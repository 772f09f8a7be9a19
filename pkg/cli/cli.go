package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/lookout/pkg/cli/config"
	"github.com/m-mizutani/lookout/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
	)
	var logger *slog.Logger

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "lookout",
		Usage:   "Watch GitHub repositories for new releases and report them",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdRun(),
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
