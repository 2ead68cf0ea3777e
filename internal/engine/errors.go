package engine

import "errors"

var (
	// ErrNotFound is returned for an unknown platform name.
	ErrNotFound = errors.New("engine: not found")

	// ErrAlreadyExists is returned by a duplicate platform registration.
	ErrAlreadyExists = errors.New("engine: already exists")

	// ErrNotAvailable is returned by an operation against a platform
	// stub whose provider could not be located.
	ErrNotAvailable = errors.New("engine: provider not available")

	// ErrTaskCancelled is the control-flow signal CancelCheck raises
	// once cancellation has been armed.
	ErrTaskCancelled = errors.New("engine: task cancelled")

	// ErrTimeout is returned by TaskHandle.Result when the wait bound
	// elapses before the task finishes.
	ErrTimeout = errors.New("engine: result timeout")

	// ErrReadError marks a structurally malformed state document.
	ErrReadError = errors.New("engine: malformed state document")

	// ErrIOError wraps a failure from the underlying resource backend.
	ErrIOError = errors.New("engine: io error")

	// ErrInvalidLayout is returned by Emerge when a layout references a
	// container, volume, or platform that does not exist.
	ErrInvalidLayout = errors.New("engine: invalid layout")
)
