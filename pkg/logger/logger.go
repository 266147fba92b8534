// Package logger provides a structured JSON logger shared by every service
// in the system. Entries carry an action tag so log streams can be filtered
// by lifecycle step (e.g. "order_created", "webhook_verify_failed").
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	sl *slog.Logger
}

// New builds a logger writing JSON to stdout at the given level
// (DEBUG, INFO, WARN or ERROR).
func New(level string) (Logger, error) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO", "":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		return Logger{}, fmt.Errorf("unknown log level: %s", level)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return Logger{sl: slog.New(h)}, nil
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() Logger {
	return Logger{sl: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Action tags subsequent entries with an action name.
func (l Logger) Action(action string) Logger {
	return l.With("action", action)
}

func (l Logger) With(args ...any) Logger {
	return Logger{sl: l.logger().With(args...)}
}

func (l Logger) WithGroup(name string) Logger {
	return Logger{sl: l.logger().WithGroup(name)}
}

func (l Logger) Debug(msg string, args ...any) {
	l.logger().Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.logger().Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.logger().Warn(msg, args...)
}

func (l Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.logger().Error(msg, args...)
}

func (l Logger) logger() *slog.Logger {
	if l.sl == nil {
		return slog.Default()
	}
	return l.sl
}
