package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"bursar/internal/pkg/logger"
	"bursar/internal/platform/config"
	"bursar/internal/platform/database"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log.Logger = logger.New(os.Stdout, "text")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, cfg.Database.Driver); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Str("driver", cfg.Database.Driver).Str("dialect", database.Dialect(cfg.Database.Driver)).Msg("migration completed successfully")
}
