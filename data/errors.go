package data

import "errors"

// Sentinel errors for the byte-block and reader/writer layer. Callers should
// compare against these with errors.Is; call sites typically wrap them with
// github.com/pkg/errors.Wrapf to attach file paths or cursor positions.
var (
	// ErrCapacityExceeded is returned when a block is asked to grow past
	// its allocated raw capacity.
	ErrCapacityExceeded = errors.New("data: capacity exceeded")

	// ErrIoOpen is returned when a file cannot be opened for reading.
	ErrIoOpen = errors.New("data: failed to open file")

	// ErrIoRead is returned when a file read fails.
	ErrIoRead = errors.New("data: failed to read file")

	// ErrIoWrite is returned when a file write fails.
	ErrIoWrite = errors.New("data: failed to write file")

	// ErrCursorOutOfRange is returned by SetPosition when the requested
	// position falls outside [0, size].
	ErrCursorOutOfRange = errors.New("data: cursor out of range")

	// ErrStackEmpty is returned by RestorePosition when the position
	// stack has nothing saved.
	ErrStackEmpty = errors.New("data: position stack is empty")
)
