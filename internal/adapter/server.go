package adapter

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/relayfish/remote-uci/internal/session"
	"github.com/seekerror/logw"
)

// Server holds everything needed to answer the adapter's HTTP surface:
// the registration redirect, the websocket upgrade, and a health probe.
type Server struct {
	shared  *session.SharedEngine
	secret  session.Secret
	regInfo func() RegistrationInfo

	upgrader websocket.Upgrader
}

// NewServer builds the HTTP handler. regInfo is called fresh on every
// redirect, so values it computes at call time (such as a MaxHash derived
// from the host's free memory) are current.
func NewServer(shared *session.SharedEngine, secret session.Secret, regInfo func() RegistrationInfo) *Server {
	return &Server{
		shared:  shared,
		secret:  secret,
		regInfo: regInfo,
	}
}

// Handler returns the composed HTTP router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRegistrationRedirect).Methods(http.MethodGet)
	r.HandleFunc("/socket", s.handleSocket).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

func (s *Server) handleRegistrationRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RegistrationURL(s.regInfo()), http.StatusFound)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("secret") || !q.Has("session") {
		http.Error(w, "missing query parameter", http.StatusBadRequest)
		return
	}
	if !s.secret.Equal(session.Secret(q.Get("secret"))) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Warningf(r.Context(), "websocket upgrade failed: %v", err)
		return
	}

	go session.Handle(context.Background(), s.shared, conn)
}
