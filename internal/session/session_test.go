package session_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relayfish/remote-uci/internal/engine"
	"github.com/relayfish/remote-uci/internal/session"
	"github.com/stretchr/testify/require"
)

// scriptedEngine spins up a Supervisor whose stdout is a fixed canned
// script and whose stdin is discarded; good enough to drive the session
// event loop without a real child process.
func scriptedEngine(t *testing.T, script string) *session.SharedEngine {
	t.Helper()
	sup := engine.NewSupervisorForTest(nopWriteCloser{}, strings.NewReader(script))
	return session.NewSharedEngine(sup)
}

// nopWriteCloser discards everything written to it.
type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }

func newTestServer(t *testing.T, shared *session.SharedEngine) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		session.Handle(r.Context(), shared, conn)
	}))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	return srv, wsURL
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestSessionForwardsEngineOutput(t *testing.T) {
	// The first readyok answers the isready that EnsureNewgame sends when
	// the session starts; the second answers the client's own isready.
	shared := scriptedEngine(t, "readyok\nreadyok\n")
	srv, url := newTestServer(t, shared)
	defer srv.Close()

	conn := dial(t, url)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("isready")))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "readyok", string(msg))
}

func TestSessionStopShortcutDoesNotStartSession(t *testing.T) {
	shared := scriptedEngine(t, "")
	srv, url := newTestServer(t, shared)
	defer srv.Close()

	conn := dial(t, url)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("stop")))

	// No session should have been started, so the counter stays at zero.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, session.ID(0), shared.Current())
}

func TestSessionRejectsBinaryFrame(t *testing.T) {
	shared := scriptedEngine(t, "")
	srv, url := newTestServer(t, shared)
	defer srv.Close()

	conn := dial(t, url)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}
