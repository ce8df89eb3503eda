// Package logger builds the process-wide zerolog logger.
//
// Init runs once at startup; the returned logger is passed explicitly to the
// components that need it.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is one of trace, debug, info, warn (or warning), error. Empty means info.
	Level string
	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is attached to every entry as the "service" field.
	Service string
}

var (
	once     sync.Once
	instance zerolog.Logger
)

// Init builds the logger on the first call and returns that same logger on
// every later call. An unknown level falls back to info.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		instance = build(opts)
	})
	return instance
}

// Reset forgets the logger built by Init. Tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}

// ParseLevel accepts the LOG_LEVEL values the service supports. Levels that
// would silence errors (fatal, panic, disabled) are rejected.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl > zerolog.ErrorLevel || lvl == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("unsupported log level %q", s)
	}
	return lvl, nil
}
