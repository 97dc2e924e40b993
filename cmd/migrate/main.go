// Command migrate manages the category_rates schema outside the server:
//
//	migrate up     apply migrations and seed the built-in rates when empty
//	migrate down   drop the schema
//
// Connection settings come from the same DB_* variables as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/marketplace-pricer/internal/config"
	"github.com/anyulbade/marketplace-pricer/internal/database"
	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := run(os.Args[1], cfg); err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("migration failed")
	}
}

func run(command string, cfg *config.Config) error {
	switch command {
	case "up":
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := database.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.SeedRates(ctx, pool, ratetable.Default())

	case "down":
		return database.RollbackMigrations(cfg.DatabaseURL())
	}
	return fmt.Errorf("unknown command %q", command)
}
