package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

func (r *RateRepository) CategoryRates(ctx context.Context) ([]ratetable.Rate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, channel, tier, rate::float8
		FROM category_rates
		ORDER BY category, channel, tier DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query category rates: %w", err)
	}
	defer rows.Close()

	var rates []ratetable.Rate
	for rows.Next() {
		var rate ratetable.Rate
		var tier string
		if err := rows.Scan(&rate.Category, &rate.Channel, &tier, &rate.Rate); err != nil {
			return nil, fmt.Errorf("scan category rate: %w", err)
		}
		rate.Tier = ratetable.Tier(tier)
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rates: %w", err)
	}
	return rates, nil
}

// Table overlays the stored category rates on base's channel rules.
func (r *RateRepository) Table(ctx context.Context, base *ratetable.Table) (*ratetable.Table, error) {
	rates, err := r.CategoryRates(ctx)
	if err != nil {
		return nil, err
	}
	return base.WithRates(rates)
}
