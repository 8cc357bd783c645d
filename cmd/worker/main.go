package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"bursar/internal/engine/receipt"
	"bursar/internal/pkg/logger"
	"bursar/internal/platform/config"
	"bursar/internal/workers"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	once := flag.Bool("once", false, "Run a single sweep and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if closer := logger.Init(cfg.Logging); closer != nil {
		defer closer.Close()
	}

	store, err := receipt.NewArtifactStore(cfg.Storage.ScratchDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open scratch directory")
	}

	if *once {
		if err := workers.SweepArtifacts(store, cfg.Storage.ArtifactMaxAge); err != nil {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("dir", store.Dir()).
		Dur("interval", cfg.Storage.SweepInterval).
		Dur("max_age", cfg.Storage.ArtifactMaxAge).
		Msg("Starting artifact sweeper")
	workers.RunArtifactSweeper(ctx, store, cfg.Storage.SweepInterval, cfg.Storage.ArtifactMaxAge)
	log.Info().Msg("Artifact sweeper stopped")
}
