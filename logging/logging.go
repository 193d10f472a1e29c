// Package logging - construction of the structured loggers used across memimg.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Prefix is printed before every line of the CLI logger.
const Prefix = "memimg"

var (
	once     sync.Once
	fallback *log.Logger
)

// New returns a logger writing to w at the given level.
//
// Arguments:
//   - w: The destination, usually os.Stderr.
//   - level: One of debug, info, warn, error, fatal. Empty means info.
//
// Returns:
//   - *log.Logger: The logger.
//   - error: If level is not recognised.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		var err error
		if lvl, err = log.ParseLevel(level); err != nil {
			return nil, errors.Wrapf(err, "log level %q", level)
		}
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          Prefix,
		Level:           lvl,
	})
	return l, nil
}

// Default returns a process-wide info logger on stderr.
func Default() *log.Logger {
	once.Do(func() {
		fallback, _ = New(os.Stderr, "")
	})
	return fallback
}

// Discard returns a logger that drops everything. Packages use it when the caller
// passes a nil logger.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
