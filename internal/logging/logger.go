// Package logging configures structured logging with log/slog and ties
// log entries to echo request IDs for per-request correlation.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
)

// Setup configures the global slog logger.
//
// Level values: "debug", "info", "warn", "error" (default: "info").
// Format values: "text", "json" (default: "text"). Use json in
// production for machine parsing.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// ForRequest returns a logger enriched with the request ID assigned by
// echo's RequestID middleware, so all entries for one request correlate.
func ForRequest(c echo.Context) *slog.Logger {
	logger := slog.Default()
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		logger = logger.With("request_id", id)
	}
	return logger
}
