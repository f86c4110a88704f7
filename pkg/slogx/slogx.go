// Package slogx configures the process-wide structured logger and carries
// request-scoped loggers through context.
package slogx

import (
	"log/slog"
	"os"
	"strings"
)

// Config selects handler, level, and the service attributes stamped on
// every record.
type Config struct {
	Service string // logical service name, e.g. "modelrunner"
	Version string // build version
	Env     string // "dev", "staging", "prod"
	Level   string // "debug", "info", "warn", "error"; default info
	Format  string // "text" for local runs; anything else means JSON
}

// New builds the service logger, installs it as the slog default, and
// returns it. JSON is the default format since that is what log shippers
// ingest; raw secrets must never be passed as attributes.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		// Source locations help local debugging but bloat shipped logs.
		AddSource: cfg.Env == "dev",
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)

	slog.SetDefault(logger)
	return logger
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
