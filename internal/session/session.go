package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relayfish/remote-uci/internal/engine"
	"github.com/relayfish/remote-uci/internal/uci"
	"github.com/relayfish/remote-uci/internal/validate"
	"github.com/seekerror/logw"
)

const (
	heartbeatInterval = 10 * time.Second
)

// ErrBinaryUnsupported is returned when a client sends a binary websocket
// frame; the protocol is text-only.
var ErrBinaryUnsupported = errors.New("binary messages not supported")

// Handle runs the event loop for a single websocket connection against
// the shared engine until the connection closes or a protocol error
// occurs. It never returns an error the caller needs to report past
// logging: on any failure it does its best to leave the engine idle and
// closes the socket.
func Handle(ctx context.Context, shared *SharedEngine, conn *websocket.Conn) {
	h := &handler{shared: shared, conn: conn}
	if err := h.run(ctx); err != nil {
		logw.Errorf(ctx, "session: %v", err)
	}
	if h.held {
		_ = h.engine.EnsureIdle(ctx, uint64(h.id))
		h.shared.Release()
		h.held = false
	}
	_ = conn.WriteMessage(websocket.CloseMessage, nil)
}

type handler struct {
	shared *SharedEngine
	conn   *websocket.Conn

	id     ID
	held   bool // whether this handler currently owns the shared engine
	engine *engine.Supervisor
}

type socketEvent struct {
	messageType int
	data        []byte
	err         error
}

type engineEvent struct {
	cmd  uci.OutputCommand
	line string
	err  error
}

func (h *handler) run(ctx context.Context) error {
	pongCh := make(chan struct{}, 1)
	h.conn.SetPongHandler(func(string) error {
		select {
		case pongCh <- struct{}{}:
		default:
		}
		return nil
	})

	socketCh := make(chan socketEvent, 1)
	go h.readSocket(socketCh)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	var engineCh chan engineEvent
	missedPong := false

	for {
		// If another, newer conversation wants the engine, try to end this
		// one: ask it to stop, and release as soon as it goes idle.
		if h.held && !h.shared.IsCurrent(h.id) {
			logw.Warningf(ctx, "%d: trying to end session ...", h.id)
			if h.engine.IsSearching() {
				if err := h.engine.Send(ctx, uint64(h.id), uci.Stop{}); err != nil {
					return err
				}
			}
			if h.engine.IsIdle() {
				logw.Warningf(ctx, "%d: session ended", h.id)
				h.shared.Release()
				h.held = false
				h.engine = nil
				engineCh = nil
			}
		}

		if h.held && engineCh == nil {
			engineCh = h.recvEngineAsync(ctx)
		}

		select {
		case evt := <-socketCh:
			if done, err := h.handleSocket(ctx, evt); done {
				if h.held {
					_ = h.engine.EnsureIdle(ctx, uint64(h.id))
					h.shared.Release()
					h.held = false
				}
				return err
			}

		case evt := <-engineCh:
			engineCh = nil
			if evt.err != nil {
				return evt.err
			}
			if err := h.conn.WriteMessage(websocket.TextMessage, []byte(evt.line)); err != nil {
				return fmt.Errorf("write engine output: %w", err)
			}

		case <-h.shared.Notify():
			// Just a wakeup: loop around and re-check IsCurrent above.

		case <-ticker.C:
			if missedPong {
				logw.Errorf(ctx, "%d: ping timeout", h.id)
				if h.held {
					_ = h.engine.EnsureIdle(ctx, uint64(h.id))
					h.shared.Release()
					h.held = false
				}
				return nil
			}
			if err := h.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("write ping: %w", err)
			}
			missedPong = true

		case <-pongCh:
			missedPong = false
		}
	}
}

// handleSocket processes one socket event. It returns done=true when the
// session loop should stop (clean close, error, or unsupported frame).
func (h *handler) handleSocket(ctx context.Context, evt socketEvent) (bool, error) {
	if evt.err != nil {
		if websocket.IsCloseError(evt.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return true, nil
		}
		return true, fmt.Errorf("read socket: %w", evt.err)
	}

	switch evt.messageType {
	case websocket.TextMessage:
		return h.handleLine(ctx, string(evt.data))
	case websocket.BinaryMessage:
		return true, ErrBinaryUnsupported
	default:
		return false, nil
	}
}

func (h *handler) handleLine(ctx context.Context, text string) (bool, error) {
	cmd, err := uci.DecodeIn(text)
	if err != nil {
		return true, fmt.Errorf("decode client command: %w", err)
	}
	if cmd == nil {
		return false, nil
	}

	if !h.held {
		if _, ok := cmd.(uci.Stop); ok {
			// No need to start a new conversation just to send a stop.
			return false, nil
		}

		id, sup := h.shared.Begin()
		logw.Warningf(ctx, "%d: starting or restarting session ...", id)
		h.id = id
		h.engine = sup
		h.held = true

		if err := h.engine.EnsureNewgame(ctx, uint64(id)); err != nil {
			h.shared.Release()
			h.held = false
			return true, err
		}
		logw.Warningf(ctx, "%d: new session started", id)
	}

	if pos, ok := cmd.(uci.Position); ok {
		warnIfMalformedPosition(ctx, h.id, pos)
	}

	if err := h.engine.Send(ctx, uint64(h.id), cmd); err != nil {
		return true, err
	}
	return false, nil
}

// warnIfMalformedPosition logs a diagnostic when a client's "position"
// command carries a syntactically invalid FEN or move list. The engine
// remains the sole authority on legality: the command is still forwarded.
func warnIfMalformedPosition(ctx context.Context, id ID, pos uci.Position) {
	if fen, ok := pos.FEN.V(); ok {
		if msg := validate.FEN(fen); msg != "" {
			logw.Warningf(ctx, "%d: %v", id, msg)
		}
	}
	if msg := validate.Moves(pos.Moves); msg != "" {
		logw.Warningf(ctx, "%d: %v", id, msg)
	}
}

func (h *handler) readSocket(out chan<- socketEvent) {
	for {
		mt, data, err := h.conn.ReadMessage()
		out <- socketEvent{messageType: mt, data: data, err: err}
		if err != nil {
			return
		}
	}
}

// recvEngineAsync fires off exactly one Supervisor.Recv call on a
// throwaway goroutine and returns a channel that receives its result.
// The engine is owned exclusively by whichever session currently holds
// the lock, so at most one of these is ever in flight at a time.
func (h *handler) recvEngineAsync(ctx context.Context) chan engineEvent {
	ch := make(chan engineEvent, 1)
	sup, id := h.engine, h.id
	go func() {
		cmd, line, err := sup.Recv(ctx, uint64(id))
		ch <- engineEvent{cmd: cmd, line: line, err: err}
	}()
	return ch
}
