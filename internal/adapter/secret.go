package adapter

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/relayfish/remote-uci/internal/session"
)

// minReusableSecretLen is the shortest existing secret-file contents we'll
// reuse as-is; anything shorter is treated as not having been set up yet.
const minReusableSecretLen = 8

// LoadSecret returns the pre-shared secret clients must present. If path
// is non-empty and already holds at least minReusableSecretLen characters,
// those are reused verbatim. Otherwise a fresh 128-bit random hex secret is
// generated and, if path is non-empty, written there for future runs.
func LoadSecret(path string) (session.Secret, error) {
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			s := strings.TrimSpace(string(b))
			if len(s) >= minReusableSecretLen {
				return session.Secret(s), nil
			}
		}
	}

	s, err := randomHexSecret(16)
	if err != nil {
		return "", err
	}

	if path != "" {
		if err := os.WriteFile(path, []byte(s), 0o600); err != nil {
			return "", fmt.Errorf("write secret file %s: %w", path, err)
		}
	}
	return session.Secret(s), nil
}

func randomHexSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
