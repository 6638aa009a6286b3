package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/relayfish/remote-uci/internal/uci"
	"github.com/seekerror/logw"
)

// Supervisor owns a single UCI engine child process and tracks the small
// amount of state needed to know whether the engine is idle: outstanding
// uciok/readyok acknowledgements and whether a search is in flight.
//
// A Supervisor is not safe for concurrent use. Callers serialize access to
// it (see the session package), mirroring the fact that a UCI engine itself
// only ever expects one conversation at a time on stdin/stdout.
type Supervisor struct {
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	closer io.Closer

	pendingUciok   uint64
	pendingReadyok uint64
	searching      bool

	mu      sync.Mutex // guards options, so Options() may be called from any goroutine
	options map[string]optionEntry
}

type optionEntry struct {
	name   uci.OptionName
	schema uci.OptionSchema
}

func newSupervisor(stdin io.WriteCloser, stdout io.Reader, closer io.Closer) *Supervisor {
	return &Supervisor{
		stdin:   stdin,
		stdout:  bufio.NewScanner(stdout),
		closer:  closer,
		options: make(map[string]optionEntry),
	}
}

// Send writes a single UCI command to the engine's stdin, tracking
// pending-acknowledgement state. A Setoption is rejected in three ways: a
// name off the safe allowlist is logged and dropped; a name not in the
// engine's current options table is logged and dropped; and a value that
// fails the advertised schema's validation is reported as an error rather
// than forwarded.
func (s *Supervisor) Send(ctx context.Context, id uint64, cmd uci.InputCommand) error {
	if so, ok := cmd.(uci.Setoption); ok {
		if !uci.IsSafeOption(so.Name) {
			logw.Warningf(ctx, "%d << dropped unsafe setoption: %v", id, so.Name)
			return nil
		}

		s.mu.Lock()
		entry, known := s.options[so.Name.Fold()]
		s.mu.Unlock()
		if !known {
			logw.Warningf(ctx, "%d << dropped setoption for unknown option: %v", id, so.Name)
			return nil
		}

		if value, ok := so.Value.V(); ok {
			if _, err := entry.schema.Validate(value); err != nil {
				return fmt.Errorf("setoption %v: %w", so.Name, err)
			}
		}
	}

	switch c := cmd.(type) {
	case uci.Uci:
		s.pendingUciok++
		s.mu.Lock()
		s.options = make(map[string]optionEntry)
		s.mu.Unlock()
	case uci.Isready:
		s.pendingReadyok++
	case uci.Go:
		if s.searching {
			return ErrAlreadySearching
		}
		s.searching = true
		_ = c
	}

	line := cmd.Encode()
	logw.Infof(ctx, "%d << %v", id, line)

	if _, err := io.WriteString(s.stdin, line+"\r\n"); err != nil {
		return fmt.Errorf("write engine stdin: %w", err)
	}
	return nil
}

// Recv reads and classifies a single line from the engine's stdout,
// updating pending-acknowledgement state as a side effect. The raw line
// is returned alongside the parsed command (which is nil when the line
// does not parse as a recognized OutputCommand).
func (s *Supervisor) Recv(ctx context.Context, id uint64) (uci.OutputCommand, string, error) {
	if !s.stdout.Scan() {
		if err := s.stdout.Err(); err != nil {
			return nil, "", fmt.Errorf("read engine stdout: %w", err)
		}
		return nil, "", ErrStdoutClosed
	}
	line := strings.TrimRight(s.stdout.Text(), "\r")

	cmd, err := uci.DecodeOut(line)
	if err != nil {
		logw.Warningf(ctx, "%d >> unparseable: %v (%v)", id, line, err)
		return nil, line, nil
	}

	if _, ok := cmd.(uci.Info); ok {
		logw.Debugf(ctx, "%d >> %v", id, line)
	} else {
		logw.Infof(ctx, "%d >> %v", id, line)
	}

	switch cmd.(type) {
	case uci.Uciok:
		s.pendingUciok = saturatingSub(s.pendingUciok, 1)
	case uci.Readyok:
		s.pendingReadyok = saturatingSub(s.pendingReadyok, 1)
	case uci.Bestmove:
		s.searching = false
	}

	if opt, ok := cmd.(uci.Option); ok {
		s.mu.Lock()
		s.options[opt.Name.Fold()] = optionEntry{name: opt.Name, schema: opt.Schema}
		s.mu.Unlock()
	}

	return cmd, line, nil
}

// IsSearching reports whether a "go" command is outstanding.
func (s *Supervisor) IsSearching() bool {
	return s.searching
}

// IsIdle reports whether the engine has no outstanding uciok/readyok and
// is not mid-search.
func (s *Supervisor) IsIdle() bool {
	return s.pendingUciok == 0 && s.pendingReadyok == 0 && !s.searching
}

// EnsureIdle drains the engine until IsIdle holds, issuing stop/isready to
// interrupt an in-flight search along the way.
func (s *Supervisor) EnsureIdle(ctx context.Context, id uint64) error {
	for !s.IsIdle() {
		if s.searching && s.pendingReadyok < 1 {
			if err := s.Send(ctx, id, uci.Stop{}); err != nil {
				return err
			}
			if err := s.Send(ctx, id, uci.Isready{}); err != nil {
				return err
			}
		}
		if _, _, err := s.Recv(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// EnsureNewgame brings the engine to idle, announces a new game, and waits
// for the engine to settle again.
func (s *Supervisor) EnsureNewgame(ctx context.Context, id uint64) error {
	if err := s.EnsureIdle(ctx, id); err != nil {
		return err
	}
	if err := s.Send(ctx, id, uci.Ucinewgame{}); err != nil {
		return err
	}
	if err := s.Send(ctx, id, uci.Isready{}); err != nil {
		return err
	}
	return s.EnsureIdle(ctx, id)
}

// Options returns a snapshot of the options the engine advertised during
// the uci/uciok handshake, keyed by their canonical folded name.
func (s *Supervisor) Options() map[string]uci.OptionSchema {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]uci.OptionSchema, len(s.options))
	for k, v := range s.options {
		out[k] = v.schema
	}
	return out
}

// Close releases the underlying process resources.
func (s *Supervisor) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
