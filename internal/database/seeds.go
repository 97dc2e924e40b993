package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
)

// SeedRates fills category_rates from table when it is empty.
func SeedRates(ctx context.Context, pool *pgxpool.Pool, table *ratetable.Table) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM category_rates").Scan(&count); err != nil {
		return fmt.Errorf("check existing rates: %w", err)
	}
	if count > 0 {
		log.Info().Int("count", count).Msg("category rates already seeded, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rates := table.Rates()
	for _, r := range rates {
		_, err := tx.Exec(ctx,
			"INSERT INTO category_rates (category, channel, tier, rate) VALUES ($1, $2, $3, $4)",
			r.Category, r.Channel, string(r.Tier), r.Rate)
		if err != nil {
			return fmt.Errorf("insert rate %s/%s/%s: %w", r.Category, r.Channel, r.Tier, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	log.Info().Int("count", len(rates)).Msg("inserted category rates")
	return nil
}
