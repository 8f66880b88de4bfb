package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/atelierhq/atelier-api/internal/config"
)

// Setup builds the application logger: a JSON handler on stdout at the
// configured level, installed as the slog default so package-level slog
// calls route through it.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	return logger, nil
}

// parseLevel maps the configured level name, case-insensitively, to a slog
// level. Unknown names fall back to info with a warning on stderr, since the
// real logger does not exist yet.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Warn(
			"invalid log level configured, using default",
			"configured_level", name,
			"default_level", "info")
		return slog.LevelInfo
	}
}
