package session_test

import (
	"testing"

	"github.com/relayfish/remote-uci/internal/session"
)

func TestSecretEqual(t *testing.T) {
	s := session.Secret("deadbeefcafef00d")

	if !s.Equal(session.Secret("deadbeefcafef00d")) {
		t.Errorf("identical secrets should be equal")
	}
	if s.Equal(session.Secret("deadbeefcafef00e")) {
		t.Errorf("differing secrets should not be equal")
	}
	if s.Equal(session.Secret("short")) {
		t.Errorf("different-length secrets should not be equal")
	}
	if session.Secret("").Equal(session.Secret("")) != true {
		t.Errorf("two empty secrets should be equal")
	}
}
