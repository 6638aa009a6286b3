package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/relayfish/remote-uci/internal/adapter"
	"github.com/relayfish/remote-uci/internal/engine"
	"github.com/relayfish/remote-uci/internal/session"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

var (
	configPath = flag.String("config", "", "Path to an optional TOML config file")

	enginePath = flag.String("engine", "", "Path to the UCI engine binary (required)")
	engineArgs = flag.String("engine-args", "", "Space-separated extra arguments passed to the engine binary")

	bind       = flag.String("bind", "", "Address to listen on (default 127.0.0.1:9670)")
	publicAddr = flag.String("public-addr", "", "Host:port to advertise in the registration URL, if different from -bind")
	tlsFlag    = flag.Bool("tls", false, "Advertise the registration URL with wss/https")

	name              = flag.String("name", "", "Engine display name override for the registration URL")
	maxThreadsCap     = flag.Int64("max-threads", 0, "Cap on advertised max threads (0 = no additional cap)")
	maxHashCap        = flag.Int64("max-hash", 0, "Cap on advertised max hash in MiB (0 = no additional cap)")
	secretFile        = flag.String("secret-file", "", "Path to a file holding the pre-shared secret (created if absent)")
	officialStockfish = flag.Bool("official-stockfish", false, "Propagate officialStockfish=true to the registration URL")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: remote-uci [options]

remote-uci exposes a locally spawned UCI chess engine as an authenticated
websocket endpoint for a remote browser client.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := adapter.LoadConfig(*configPath)
	if err != nil {
		logw.Exitf(ctx, "failed to load config: %v", err)
	}
	applyFlagOverrides(&cfg)

	if cfg.EnginePath == "" {
		flag.Usage()
		logw.Exitf(ctx, "missing -engine")
	}

	enginePath := cfg.EnginePath
	if len(cfg.EngineVariants) > 0 {
		variant := adapter.BestVariant(adapter.DefaultVariantRequirements, adapter.DefaultVariantOrder)
		if path, ok := cfg.EngineVariants[variant]; ok && path != "" {
			logw.Infof(ctx, "selected engine variant %q for host CPU", variant)
			enginePath = path
		} else {
			logw.Infof(ctx, "no matching engine variant for host CPU, falling back to %v", cfg.EnginePath)
		}
	}

	logw.Infof(ctx, "remote-uci %v starting, engine=%v", version, enginePath)

	sup, info, err := engine.Spawn(ctx, enginePath, cfg.EngineArgs...)
	if err != nil {
		logw.Exitf(ctx, "failed to spawn engine: %v", err)
	}
	defer sup.Close()

	secret, err := adapter.LoadSecret(cfg.SecretFile)
	if err != nil {
		logw.Exitf(ctx, "failed to load secret: %v", err)
	}

	shared := session.NewSharedEngine(sup)

	displayName := cfg.Name
	if displayName == "" {
		displayName = info.Name
	}
	host := cfg.PublicAddr
	if host == "" {
		host = cfg.Bind
		if host == "" {
			host = adapter.DefaultBind
		}
	}

	regInfo := func() adapter.RegistrationInfo {
		return adapter.RegistrationInfo{
			Host:              host,
			TLS:               cfg.TLS,
			Secret:            secret,
			Name:              displayName,
			MaxThreads:        adapter.DerivedThreads(info.MaxThreads, cfg.MaxThreadsCap),
			MaxHash:           adapter.DerivedHash(info.MaxHash, cfg.MaxHashCap, adapter.AvailableMemoryKiB()),
			Variants:          info.Variants,
			OfficialStockfish: cfg.OfficialStockfish,
		}
	}

	srv := adapter.NewServer(shared, secret, regInfo)
	httpSrv := &http.Server{
		Addr:    cfg.Bind,
		Handler: srv.Handler(),
	}

	go func() {
		logw.Infof(ctx, "listening on %v", cfg.Bind)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logw.Exitf(ctx, "server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logw.Infof(ctx, "shutting down ...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logw.Warningf(ctx, "graceful shutdown failed: %v", err)
	}
}

func applyFlagOverrides(cfg *adapter.Config) {
	if *enginePath != "" {
		cfg.EnginePath = *enginePath
	}
	if *engineArgs != "" {
		cfg.EngineArgs = strings.Fields(*engineArgs)
	}
	if *bind != "" {
		cfg.Bind = *bind
	}
	if *publicAddr != "" {
		cfg.PublicAddr = *publicAddr
	}
	if *tlsFlag {
		cfg.TLS = true
	}
	if *name != "" {
		cfg.Name = *name
	}
	if *maxThreadsCap != 0 {
		cfg.MaxThreadsCap = *maxThreadsCap
	}
	if *maxHashCap != 0 {
		cfg.MaxHashCap = *maxHashCap
	}
	if *secretFile != "" {
		cfg.SecretFile = *secretFile
	}
	if *officialStockfish {
		cfg.OfficialStockfish = true
	}
}
