package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nvr-ai/go-memimg/logging"
)

// StatusTimeLayout prefixes every status line, e.g. "14:03.27 : Image saved".
const StatusTimeLayout = "15:04.05"

// Status keeps the latest user-facing message and mirrors every message into a
// logger at the matching level.
type Status struct {
	log *log.Logger
	now func() time.Time

	mu    sync.Mutex
	line  string
	level log.Level
}

// NewStatus returns a Status. A nil logger discards the mirrored output.
func NewStatus(logger *log.Logger) *Status {
	return &Status{log: logging.OrDiscard(logger), now: time.Now}
}

// Info records an informational message.
func (s *Status) Info(format string, args ...any) {
	s.set(log.InfoLevel, fmt.Sprintf(format, args...))
}

// Warn records a warning.
func (s *Status) Warn(format string, args ...any) {
	s.set(log.WarnLevel, fmt.Sprintf(format, args...))
}

// Error records an error message.
func (s *Status) Error(err error) {
	s.set(log.ErrorLevel, err.Error())
}

func (s *Status) set(level log.Level, msg string) {
	line := s.now().Format(StatusTimeLayout) + " : " + msg

	s.mu.Lock()
	s.line, s.level = line, level
	s.mu.Unlock()

	s.log.Log(level, msg)
}

// Line returns the latest status line and its level.
func (s *Status) Line() (string, log.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line, s.level
}
