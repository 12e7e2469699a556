// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"

	"github.com/hrpulse/notify-relay/internal/platform/correlation"
)

// Init initializes the default slog logger.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func Init(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	// Correlation IDs ride the request context; the handler surfaces them on
	// every record logged under that context.
	slog.SetDefault(slog.New(correlation.NewHandler(handler)))
}
