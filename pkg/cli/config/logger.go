package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level  string
	Format string
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("LOOKOUT_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json, text)",
			Value:       "console",
			Destination: &c.Format,
			Sources:     cli.EnvVars("LOOKOUT_LOG_FORMAT"),
		},
	}
}

// Configure configures and returns a logger. Attribute values that look like
// credentials are redacted before they reach any handler.
func (c *Logger) Configure() (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, goerr.New("invalid log level", goerr.V("level", c.Level))
	}

	redact := masq.New(
		masq.WithContain("token"),
		masq.WithContain("api_key"),
		masq.WithContain("webhook"),
	)

	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "console":
		handler = clog.New(
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
			clog.WithSource(level == slog.LevelDebug),
		)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	case "text":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	default:
		return nil, goerr.New("invalid log format", goerr.V("format", c.Format))
	}

	return slog.New(handler), nil
}
