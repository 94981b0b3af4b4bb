// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.elastic.co/ecszerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatECS     = "ecs"
)

type Options struct {
	App    string
	Env    string
	Level  string
	Format string
	// Out defaults to stdout.
	Out io.Writer
}

// New returns a logger for opts. An empty format picks console output in
// development and JSON elsewhere; "ecs" emits Elastic Common Schema JSON.
func New(opts Options) (zerolog.Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	format := opts.Format
	if format == "" {
		format = FormatJSON
		if opts.Env == "development" {
			format = FormatConsole
		}
	}

	var logger zerolog.Logger
	switch format {
	case FormatConsole:
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"})
	case FormatJSON:
		logger = zerolog.New(out)
	case FormatECS:
		logger = ecszerolog.New(out)
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}

	ctx := logger.Level(level).With().Timestamp()
	if opts.App != "" {
		ctx = ctx.Str("app", opts.App)
	}
	return ctx.Logger(), nil
}
