package adapter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relayfish/remote-uci/internal/adapter"
)

func TestLoadSecretGeneratesWhenFileAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")

	s, err := adapter.LoadSecret(path)
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if len(s) != 32 {
		t.Errorf("generated secret length = %d, want 32 hex chars", len(s))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("secret file not written: %v", err)
	}
	if string(b) != string(s) {
		t.Errorf("secret file contents %q != returned secret %q", b, s)
	}
}

func TestLoadSecretReusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("myverylongsecret"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := adapter.LoadSecret(path)
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if string(s) != "myverylongsecret" {
		t.Errorf("got %q, want reused file contents", s)
	}
}

func TestLoadSecretIgnoresTooShortExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("short"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := adapter.LoadSecret(path)
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if string(s) == "short" {
		t.Errorf("too-short existing secret should not be reused")
	}
}

func TestLoadSecretNoFile(t *testing.T) {
	s, err := adapter.LoadSecret("")
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if len(s) != 32 {
		t.Errorf("generated secret length = %d, want 32", len(s))
	}
}
