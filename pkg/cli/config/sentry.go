package config

import (
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/lookout/pkg/domain/types"
)

// Sentry holds error tracking configuration
type Sentry struct {
	DSN string
	Env string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN (error tracking disabled when empty)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("LOOKOUT_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Value:       "production",
			Destination: &c.Env,
			Sources:     cli.EnvVars("LOOKOUT_SENTRY_ENV"),
		},
	}
}

// Configure initializes the Sentry SDK. A no-op when no DSN is set.
func (c *Sentry) Configure() error {
	if c.DSN == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     types.ServiceName + "@" + types.Version,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry")
	}

	return nil
}
