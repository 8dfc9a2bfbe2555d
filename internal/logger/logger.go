package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger. format is "json" (default) or "console".
func Init(level, format string) {
	var out io.Writer = os.Stdout
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// SetOutput replaces the destination of the global logger, keeping its level.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).Level(log.GetLevel()).With().Timestamp().Logger()
}

// SetLevel changes the minimum level of the global logger.
func SetLevel(level zerolog.Level) {
	log = log.Level(level)
}

// Logger returns the underlying zerolog logger.
func Logger() *zerolog.Logger {
	return &log
}

func Info(msg string, kv ...any) {
	withFields(log.Info(), kv).Msg(msg)
}

func Infof(format string, v ...any) {
	log.Info().Msg(fmt.Sprintf(format, v...))
}

func Warn(msg string, kv ...any) {
	withFields(log.Warn(), kv).Msg(msg)
}

func Error(msg string, kv ...any) {
	withFields(log.Error(), kv).Msg(msg)
}

func Errorf(format string, v ...any) {
	log.Error().Msg(fmt.Sprintf(format, v...))
}

func Debug(msg string, kv ...any) {
	withFields(log.Debug(), kv).Msg(msg)
}

func Debugf(format string, v ...any) {
	log.Debug().Msg(fmt.Sprintf(format, v...))
}

func Fatal(msg string, kv ...any) {
	withFields(log.Fatal(), kv).Msg(msg)
}

func Fatalf(format string, v ...any) {
	log.Fatal().Msg(fmt.Sprintf(format, v...))
}

// withFields attaches alternating key/value pairs. A trailing key without a
// value is logged under "extra".
func withFields(e *zerolog.Event, kv []any) *zerolog.Event {
	if len(kv) == 0 {
		return e
	}
	if len(kv)%2 != 0 {
		e = e.Interface("extra", kv[len(kv)-1])
		kv = kv[:len(kv)-1]
	}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if err, isErr := kv[i+1].(error); isErr {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}

// WithError returns a child logger carrying err.
func WithError(err error) zerolog.Logger {
	return log.With().Err(err).Logger()
}

// WithFields returns a child logger carrying the given fields.
func WithFields(fields map[string]any) zerolog.Logger {
	return log.With().Fields(fields).Logger()
}
