// Package saver - writes images to disk on a background goroutine so the caller
// can keep reading and converting while an encode runs.
//
// At most one save runs at a time. Each save works on its own snapshot of the
// image, so replacing the displayed image while a save is running is safe.
package saver

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/codec"
	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/images"
	"github.com/nvr-ai/go-memimg/logging"
)

// Result is the outcome of a finished save.
type Result struct {
	// Path is the file that was written or attempted.
	Path string
	// Err is nil on success, otherwise a *common.PathError.
	Err error
	// Elapsed is the time spent encoding and writing.
	Elapsed time.Duration
}

// Task is a handle to one background save. It completes exactly once.
type Task struct {
	id     uuid.UUID
	path   string
	done   chan struct{}
	result Result
}

// ID returns the identifier of the save, used to correlate log lines.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// Path returns the destination file.
func (t *Task) Path() string {
	return t.path
}

// Done reports whether the save has finished. It never blocks.
func (t *Task) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome and true once the save has finished.
func (t *Task) Result() (Result, bool) {
	if !t.Done() {
		return Result{}, false
	}
	return t.result, true
}

// Wait blocks until the save finishes or ctx is done. Cancelling ctx stops the
// wait only; the save keeps running.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Saver runs background saves, one at a time.
type Saver struct {
	log *log.Logger

	mu      sync.Mutex
	current *Task
}

// New returns a Saver. A nil logger discards log output.
func New(logger *log.Logger) *Saver {
	return &Saver{log: logging.OrDiscard(logger)}
}

// Start snapshots img and begins writing it to path on a new goroutine.
//
// Arguments:
//   - img: The image to save. It is cloned before Start returns.
//   - path: The destination file.
//   - enc: The encoder; nil selects one from the path extension.
//
// Returns:
//   - *Task: The handle of the new save.
//   - error: ErrSaveInProgress if the previous save has not finished.
func (s *Saver) Start(img *images.Image, path string, enc codec.Encoder) (*Task, error) {
	if img == nil {
		return nil, errors.Wrap(common.ErrPreconditionViolation, "nil image")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.Done() {
		return nil, errors.Wrapf(common.ErrSaveInProgress, "still writing %s", s.current.path)
	}

	t := &Task{
		id:   uuid.New(),
		path: path,
		done: make(chan struct{}),
	}
	s.current = t

	snapshot := img.Clone()
	logger := s.log.With("task", t.id.String(), "path", path)
	logger.Debug("save started", "width", snapshot.Width, "height", snapshot.Height, "layout", snapshot.Layout)

	go func() {
		start := time.Now()
		err := snapshot.Save(path, enc)
		t.result = Result{Path: path, Err: err, Elapsed: time.Since(start)}
		if err != nil {
			logger.Error("save failed", "err", err)
		} else {
			logger.Info("saved", "elapsed", t.result.Elapsed)
		}
		close(t.done)
	}()

	return t, nil
}

// Current returns the most recent task, or nil if nothing was started.
func (s *Saver) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Busy reports whether a save is running.
func (s *Saver) Busy() bool {
	t := s.Current()
	return t != nil && !t.Done()
}
