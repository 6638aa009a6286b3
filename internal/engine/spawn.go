package engine

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/relayfish/remote-uci/internal/uci"
	"github.com/seekerror/logw"
)

// Info summarizes what the engine reported during the uci/uciok
// handshake: its advertised name, the hard ceilings on Threads/Hash it
// is willing to accept, and any UCI_Variant values it supports. Zero
// values mean the engine did not advertise that option.
type Info struct {
	Name       string
	MaxThreads int64
	MaxHash    int64
	Variants   []string
}

// Spawn starts the engine binary at path and performs the uci/uciok
// handshake, returning a ready Supervisor and the discovered Info.
func Spawn(ctx context.Context, path string, args ...string) (*Supervisor, Info, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, Info{}, fmt.Errorf("engine stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, Info{}, fmt.Errorf("engine stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, Info{}, fmt.Errorf("start engine process: %w", err)
	}
	logw.Infof(ctx, "started engine process: %v (pid %d)", path, cmd.Process.Pid)

	s := newSupervisor(stdin, stdout, processCloser{cmd})

	info, err := s.handshake(ctx)
	if err != nil {
		_ = s.Close()
		return nil, Info{}, err
	}
	return s, info, nil
}

type processCloser struct {
	cmd *exec.Cmd
}

func (c processCloser) Close() error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Kill()
}

// handshake sends "uci" and collects id/option lines until uciok, folding
// the recognized subset (name, Threads/Hash ranges, UCI_Variant list)
// into an Info.
func (s *Supervisor) handshake(ctx context.Context) (Info, error) {
	var info Info

	if err := s.Send(ctx, 0, uci.Uci{}); err != nil {
		return Info{}, err
	}

	for !s.IsIdle() {
		cmd, _, err := s.Recv(ctx, 0)
		if err != nil {
			return Info{}, err
		}

		switch c := cmd.(type) {
		case uci.IdName:
			info.Name = c.Name
		case uci.Option:
			switch {
			case c.Name.Equal(uci.NewOptionName("Hash")):
				if spin, ok := c.Schema.(uci.SpinSchema); ok {
					info.MaxHash = spin.Max
				}
			case c.Name.Equal(uci.NewOptionName("Threads")):
				if spin, ok := c.Schema.(uci.SpinSchema); ok {
					info.MaxThreads = spin.Max
				}
			case c.Name.Equal(uci.NewOptionName("UCI_Variant")):
				if combo, ok := c.Schema.(uci.ComboSchema); ok {
					info.Variants = combo.Var
				}
			}
		}
	}

	logw.Infof(ctx, "engine info: name=%q maxThreads=%s maxHash=%s variants=%v",
		info.Name, formatLimit(info.MaxThreads), formatLimit(info.MaxHash), info.Variants)
	return info, nil
}

func formatLimit(n int64) string {
	if n == 0 {
		return "unset"
	}
	return strconv.FormatInt(n, 10)
}
