package engine

import "errors"

var (
	// ErrAlreadySearching is returned by Send when a "go" command is sent
	// while a previous search is still in flight.
	ErrAlreadySearching = errors.New("engine already searching")
	// ErrStdoutClosed is returned by Recv when the engine process has
	// closed its stdout, usually because it exited or crashed.
	ErrStdoutClosed = errors.New("engine stdout closed")
)
