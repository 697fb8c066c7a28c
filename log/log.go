// Package log provides a process-wide structured logger built on zerolog.
// It gives every other package in this module a single place to configure
// output level, format, and destination instead of reaching for fmt.Println
// or the standard library log package.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Config controls optional aspects of the logger not covered by the level
// and output arguments to Init.
type Config struct {
	// TimeFormat overrides the default RFC3339 timestamp format.
	TimeFormat string
	// NoColor disables ANSI color codes in console output.
	NoColor bool
}

var (
	logger zerolog.Logger

	// panicOnInvalidChars makes the Infof/Infow/Debugf/Debugw/Warnf/Warnw/
	// Errorf functions panic if a log message contains a non-UTF8 byte; it
	// is read on every call, and Error does not check it. It exists mainly
	// so tests can flip it without needing a second Init signature.
	panicOnInvalidChars = false

	// logTestWriter and logTestWriterName let tests redirect log output
	// without going through a real file or stderr.
	logTestWriter     io.Writer = io.Discard
	logTestWriterName           = "test"
)

func init() {
	Init("info", "stderr", nil)
}

// Init (re)configures the process-wide logger. level is one of "debug",
// "info", "warn", "error"; output is "stderr", "stdout", a file path, or the
// sentinel name used internally by tests.
func Init(level, output string, cfg *Config) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer
	switch output {
	case "stderr", "":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	case logTestWriterName:
		w = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			w = os.Stderr
		} else {
			w = f
		}
	}

	timeFormat := time.RFC3339
	noColor := false
	if cfg != nil {
		if cfg.TimeFormat != "" {
			timeFormat = cfg.TimeFormat
		}
		noColor = cfg.NoColor
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat, NoColor: noColor}
	logger = zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}

func checkValid(msg string) {
	if panicOnInvalidChars && !utf8.ValidString(msg) {
		panic(fmt.Sprintf("log message contains invalid utf8: %q", msg))
	}
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Info().Msg(msg)
}

// Infow logs a message at info level with structured key/value pairs.
func Infow(msg string, keyvals ...any) {
	checkValid(msg)
	withFields(logger.Info(), keyvals...).Msg(msg)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Debug().Msg(msg)
}

// Debugw logs a message at debug level with structured key/value pairs.
func Debugw(msg string, keyvals ...any) {
	checkValid(msg)
	withFields(logger.Debug(), keyvals...).Msg(msg)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Warn().Msg(msg)
}

// Warnw logs a message at warn level with structured key/value pairs.
func Warnw(msg string, keyvals ...any) {
	checkValid(msg)
	withFields(logger.Warn(), keyvals...).Msg(msg)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Error().Msg(msg)
}

// Error logs an error value at error level.
func Error(err error) {
	if err == nil {
		return
	}
	logger.Error().Msg(err.Error())
}

// withFields attaches an even-length key/value list to an in-flight event.
func withFields(ev *zerolog.Event, keyvals ...any) *zerolog.Event {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	return ev
}
