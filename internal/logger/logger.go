package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger is a thin wrapper around slog that carries the package, file, and
// function context through call chains. Err/Error/ErrMsg log AND return an
// error so call sites can do `return log.Err(...)` in one line.
type Logger struct {
	slog     *slog.Logger
	pkg      string
	file     string
	function string
}

func Init(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func New(pkg string) Logger {
	return Logger{slog: slog.Default(), pkg: pkg}
}

func (l Logger) File(file string) Logger {
	l.file = file
	return l
}

func (l Logger) Function(function string) Logger {
	l.function = function
	return l
}

func (l Logger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+6)
	out = append(out, "package", l.pkg)
	if l.file != "" {
		out = append(out, "file", l.file)
	}
	if l.function != "" {
		out = append(out, "function", l.function)
	}
	return append(out, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, l.attrs(args)...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, l.attrs(args)...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, l.attrs(args)...)
}

// Error logs msg at error level and returns it as an error.
func (l Logger) Error(msg string, args ...any) error {
	l.slog.Error(msg, l.attrs(args)...)
	return errors.New(msg)
}

// Err logs msg with the wrapped cause and returns the wrapped error.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.slog.Error(msg, l.attrs(append(args, "error", err))...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs an error without returning one, for fire-and-forget paths.
func (l Logger) Er(msg string, err error, args ...any) {
	l.slog.Error(msg, l.attrs(append(args, "error", err))...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	l.slog.Error(msg, l.attrs(args)...)
}

func (l Logger) ErrMsg(msg string, args ...any) error {
	l.slog.Error(msg, l.attrs(args)...)
	return errors.New(msg)
}
