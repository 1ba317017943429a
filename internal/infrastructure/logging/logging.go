// Package logging configures the structured logger shared by all commands.
//
// The serve command speaks MCP on stdout, so log output goes to stderr and,
// when enabled, to a file in the data directory. Never stdout.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Debug lowers the level from info to debug.
	Debug bool

	// FilePath, when non-empty, duplicates output to the named file. The
	// parent directory is created if absent.
	FilePath string

	// ConsoleOut defaults to os.Stderr.
	ConsoleOut io.Writer
}

// New builds a zerolog logger with a human-readable console writer and an
// optional file sink. The returned closer is non-nil only when a file was
// opened.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	out := opts.ConsoleOut
	if out == nil {
		out = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}}

	var closer io.Closer
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return zerolog.Nop(), nil, err
		}

		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		writers = append(writers, f)
		closer = f
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()

	return logger, closer, nil
}
