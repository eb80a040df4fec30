package telemetry

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, "info", "json")
)

// Setup configures the process-wide logger. format is "json" or "console".
func Setup(level, format string) {
	SetOutputWithFormat(os.Stdout, level, format)
}

// SetOutput redirects JSON log lines to w. Intended for tests.
func SetOutput(w io.Writer) {
	SetOutputWithFormat(w, "debug", "json")
}

// SetOutputWithFormat replaces the logger writing to w.
func SetOutputWithFormat(w io.Writer, level, format string) {
	l := newLogger(w, level, format)
	mu.Lock()
	logger = l
	mu.Unlock()
}

func newLogger(w io.Writer, level, format string) zerolog.Logger {
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05Z07:00"

	if strings.EqualFold(strings.TrimSpace(format), "console") {
		w = zerolog.ConsoleWriter{Out: w}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	l := current()
	l.Debug().Fields(fields).Msg(msg)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	l := current()
	l.Info().Fields(fields).Msg(msg)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	l := current()
	l.Warn().Fields(fields).Msg(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	l := current()
	l.Error().Fields(fields).Msg(msg)
}
