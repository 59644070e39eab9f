package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var std = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init installs a JSON logger writing to w at the given level
// ("debug", "info", "warn", "error"; default info).
func Init(w io.Writer, level string) {
	std = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
	slog.SetDefault(std)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func L() *slog.Logger { return std }

func Info(msg string, args ...any)  { std.Info(msg, args...) }
func Warn(msg string, args ...any)  { std.Warn(msg, args...) }
func Error(msg string, args ...any) { std.Error(msg, args...) }
func Debug(msg string, args ...any) { std.Debug(msg, args...) }

func Fatal(msg string, args ...any) {
	std.Error(msg, args...)
	os.Exit(1)
}
