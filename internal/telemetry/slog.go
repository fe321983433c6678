package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogger configures the global slog default logger based on the supplied format, level
// and output strings read from application configuration.
//
// format: "json"  → JSONHandler (machine readable; useful when the run is captured by CI)
//
//	anything else → TextHandler (human readable)
//
// level: "debug", "info", "warn", "error" (case-insensitive); defaults to "info".
//
// output: "stdout" writes next to the console report; anything else goes to stderr.
//
// The configured logger is installed as the default so the API client and the probes can
// call slog.Debug/Info without carrying a *slog.Logger around.
func SetupLogger(format, level, output string) {
	var w io.Writer = os.Stderr
	if strings.ToLower(output) == "stdout" {
		w = os.Stdout
	}
	slog.SetDefault(NewLogger(w, format, level))
	slog.Debug("logger initialised", "format", format, "level", level, "output", output)
}

// NewLogger builds a logger writing to w with the same format/level rules as SetupLogger.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	lvl := ParseLevel(level)

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug, // include file:line only when debugging
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a configuration level string to a slog.Level.
func ParseLevel(level string) slog.Level {
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
