// Package logging provides the zerolog-backed Logger used by the CLI and by
// NewClientFromEnv. Library users can pass any types.Logger instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	ServiceName string
	Level       zerolog.Level
	// Format is "json" (default) or "console"
	Format string
	Output io.Writer
}

// ZerologLogger implements types.Logger on top of zerolog
type ZerologLogger struct {
	base zerolog.Logger
}

// New creates a logger
func New(opts Options) *ZerologLogger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	if opts.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	base := zerolog.New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(opts.Level)

	return &ZerologLogger{base: base}
}

// ParseLevel turns a config string into a level, defaulting to info
func ParseLevel(value string) zerolog.Level {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(value); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

func (l *ZerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	write(l.base.Debug(), msg, keysAndValues)
}

func (l *ZerologLogger) Info(msg string, keysAndValues ...interface{}) {
	write(l.base.Info(), msg, keysAndValues)
}

func (l *ZerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	write(l.base.Warn(), msg, keysAndValues)
}

func (l *ZerologLogger) Error(msg string, keysAndValues ...interface{}) {
	write(l.base.Error(), msg, keysAndValues)
}

// With returns a child logger that always carries the given pairs
func (l *ZerologLogger) With(keysAndValues ...interface{}) *ZerologLogger {
	return &ZerologLogger{base: l.base.With().Fields(pairs(keysAndValues)).Logger()}
}

func write(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	if event == nil {
		return
	}
	event.Fields(pairs(keysAndValues)).Msg(msg)
}

// pairs turns a flat key/value list into a field map. A trailing key without
// a value is logged under "!BADKEY".
func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			fields["!BADKEY"] = key
			break
		}
		value := keysAndValues[i+1]
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		fields[key] = value
	}
	return fields
}
