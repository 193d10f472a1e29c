// Package common - error kinds shared by the read, convert and save stages.
package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Callers match them with errors.Is; every stage wraps one of these
// with context using errors.Wrap so the kind survives.
var (
	// ErrMalformedAddress is returned when an address string is not valid hexadecimal.
	ErrMalformedAddress = errors.New("malformed address")
	// ErrReadFailure is returned when the memory source could not deliver the requested bytes.
	ErrReadFailure = errors.New("read failure")
	// ErrPreconditionViolation marks a broken internal contract, such as a buffer whose
	// length does not match the requested format and dimensions. It is not user-recoverable.
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrCodecFailure is returned when the image encoder rejects or fails to write an image.
	ErrCodecFailure = errors.New("codec failure")
	// ErrIoFailure is returned for filesystem errors outside the encoder, like directory creation.
	ErrIoFailure = errors.New("io failure")

	// ErrUnknownFormat is returned when a pixel format name is not in the catalog.
	ErrUnknownFormat = errors.New("unknown pixel format")
	// ErrNotSupported is returned by capabilities that are unavailable on this platform.
	ErrNotSupported = errors.New("not supported on this platform")
	// ErrSaveInProgress is returned when a save is requested while another one is still running.
	ErrSaveInProgress = errors.New("save already in progress")
)

// PathError records a save failure together with the path that was attempted.
type PathError struct {
	// Kind is ErrCodecFailure or ErrIoFailure.
	Kind error
	// Op is the step that failed ("mkdir", "create", "encode", "close").
	Op string
	// Path is the file or directory that was being written.
	Path string
	// Err is the underlying error.
	Err error
}

// NewPathError builds a PathError of the given kind.
func NewPathError(kind error, op, path string, err error) *PathError {
	return &PathError{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *PathError) Is(target error) bool {
	return target == e.Kind
}
