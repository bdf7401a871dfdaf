package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Logger is an alias used by services for dependency injection.
type Logger = zerolog.Logger

// Options controls where a service logs to.
type Options struct {
	Level       string
	Console     bool   // human-readable output instead of JSON lines
	GraylogAddr string // GELF UDP endpoint, empty to disable
}

// New returns a JSON logger on stdout tagged with the service name.
func New(service string) Logger {
	return build(service, os.Stdout, zerolog.InfoLevel)
}

// NewWithWriter is New with a caller-supplied sink and level.
func NewWithWriter(service string, w io.Writer, level string) Logger {
	return build(service, w, ParseLevel(level))
}

// Configure builds a service logger from options. The returned closer
// releases the Graylog connection when one was opened.
func Configure(service string, opts Options) (Logger, io.Closer, error) {
	var out io.Writer = os.Stdout
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if opts.GraylogAddr != "" {
		gw, err := gelf.NewWriter(opts.GraylogAddr)
		if err != nil {
			return New(service), closer, fmt.Errorf("graylog writer %s: %w", opts.GraylogAddr, err)
		}
		out = zerolog.MultiLevelWriter(out, gw)
		closer = gw
	}
	return build(service, out, ParseLevel(opts.Level)), closer, nil
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func build(service string, w io.Writer, level zerolog.Level) Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", service).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
