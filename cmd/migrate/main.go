// Command migrate copies the relational database named by DATABASE_URL into
// the MongoDB database named by MONGODB_URI.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"manvan/internal/config"
	"manvan/internal/logging"
	"manvan/internal/storage/document"
	"manvan/internal/storage/migrate"
	"manvan/internal/storage/relational"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(cfg.ServiceName+"-migrate", cfg.AppEnv)

	if cfg.MongoURI == "" {
		log.Fatal().Msg("MONGODB_URI is required")
	}

	src, err := relational.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open relational source")
	}
	defer src.Close(context.Background())

	dialCtx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	dst, err := document.Connect(dialCtx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("connect MongoDB destination")
	}
	defer dst.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := migrate.New(src, dst).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}
