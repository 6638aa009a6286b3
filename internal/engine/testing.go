package engine

import "io"

// NewSupervisorForTest wraps an already-connected stdin/stdout pair as a
// Supervisor without spawning a child process, for driving the session
// event loop against a scripted engine in tests.
func NewSupervisorForTest(stdin io.WriteCloser, stdout io.Reader) *Supervisor {
	return newSupervisor(stdin, stdout, nil)
}
