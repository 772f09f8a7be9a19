package config

import "github.com/urfave/cli/v3"

// Watch holds polling configuration
type Watch struct {
	RunAt       string
	Concurrency int
	Watchlist   string
}

// Flags returns CLI flags for polling configuration
func (c *Watch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "run-at",
			Usage:       "Daily wall-clock time (HH:MM) for the scheduled run",
			Value:       "08:00",
			Destination: &c.RunAt,
			Sources:     cli.EnvVars("LOOKOUT_RUN_AT"),
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "How many repositories are polled in parallel",
			Value:       4,
			Destination: &c.Concurrency,
			Sources:     cli.EnvVars("LOOKOUT_CONCURRENCY"),
		},
		&cli.StringFlag{
			Name:        "watchlist",
			Usage:       "TOML watchlist file; replaces the GitHub watched-repository list",
			Destination: &c.Watchlist,
			Sources:     cli.EnvVars("LOOKOUT_WATCHLIST"),
		},
	}
}
