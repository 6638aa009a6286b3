// Package adapter wires the engine supervisor and session multiplexer up
// to an HTTP/websocket server: the part of the system that spec.md treats
// as external collaborators (process spawn, secret handling, registration
// URL, CLI surface).
package adapter

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config collects every external input the adapter needs, layered from an
// optional TOML file with command-line flags overriding it.
type Config struct {
	// EnginePath is the chess engine binary to spawn. If EngineVariants is
	// also set, EnginePath is used only as the fallback when none of the
	// variant binaries match the host's CPU features.
	EnginePath string `toml:"engine_path"`
	// EngineArgs are extra arguments passed to the engine binary.
	EngineArgs []string `toml:"engine_args"`
	// EngineVariants maps a CPU-feature-tier name (see DefaultVariantOrder)
	// to the path of a binary built for that tier, for engine installs that
	// ship multiple SIMD-specialized builds (as Stockfish's Makefile does).
	EngineVariants map[string]string `toml:"engine_variants"`

	// Bind is the address the HTTP/websocket server listens on.
	Bind string `toml:"bind"`
	// PublicAddr overrides the host used to build the registration URL;
	// defaults to Bind when empty.
	PublicAddr string `toml:"public_addr"`
	// TLS, if true, uses "wss"/"https" in the registration URL.
	TLS bool `toml:"tls"`

	// Name overrides the engine display name sent to the registration URL.
	Name string `toml:"name"`
	// MaxThreadsCap and MaxHashCap bound the derived thread/hash limits;
	// zero means no additional cap beyond what the engine/host allow.
	MaxThreadsCap int64 `toml:"max_threads_cap"`
	MaxHashCap    int64 `toml:"max_hash_cap"`

	// SecretFile, if set, is read (or created, if absent) to hold the
	// pre-shared secret. Empty means generate a fresh per-run secret.
	SecretFile string `toml:"secret_file"`

	// OfficialStockfish is propagated verbatim to the registration URL.
	OfficialStockfish bool `toml:"official_stockfish"`
}

// DefaultBind is the conventional loopback bind address for the adapter.
const DefaultBind = "127.0.0.1:9670"

// LoadConfig reads an optional TOML config file. A missing path is not an
// error: it returns a Config with Bind defaulted and everything else zero,
// for the caller to fill in from flags.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Bind: DefaultBind}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Bind == "" {
		cfg.Bind = DefaultBind
	}
	return cfg, nil
}
