package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"bursar/internal/engine/accounts"
	"bursar/internal/pkg/logger"
	"bursar/internal/platform/config"
	"bursar/internal/platform/database"
	"bursar/internal/platform/repositories"
)

func main() {
	configPath := os.Getenv("BURSAR_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log.Logger = logger.New(os.Stderr, "text")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, cfg.Database.Driver); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	cli := commandLine{
		accounts: accounts.NewService(repositories.NewUserRepository(db, cfg.Database.Driver)),
		out:      os.Stdout,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errHelp) && !errors.Is(err, flag.ErrHelp) {
			log.Error().Err(err).Msg("command failed")
		}
		db.Close()
		os.Exit(1)
	}
}
