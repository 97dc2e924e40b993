package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/metrics"
	"github.com/anyulbade/marketplace-pricer/internal/model"
	"github.com/anyulbade/marketplace-pricer/internal/pricing"
	"github.com/anyulbade/marketplace-pricer/internal/store"
)

// ProductService manages the session-held list of priced products.
type ProductService struct {
	quotes *QuoteService
	store  store.ProductStore
	now    func() time.Time
}

func NewProductService(quotes *QuoteService, st store.ProductStore) *ProductService {
	return &ProductService{quotes: quotes, store: st, now: time.Now}
}

func (s *ProductService) Add(ctx context.Context, sessionID string, form model.ProductForm) (*model.Product, error) {
	if form.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}

	quote, err := s.quotes.Quote(form)
	if err != nil {
		return nil, err
	}

	p := model.Product{
		ID:          uuid.NewString(),
		ProductForm: form,
		Quote:       quote,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Append(ctx, sessionID, p); err != nil {
		return nil, fmt.Errorf("store product: %w", err)
	}
	metrics.SessionProducts.Inc()

	log.Debug().
		Str("session", sessionID).
		Str("product", p.Name).
		Str("preferred", p.PreferredChannel).
		Msg("product added")

	return &p, nil
}

func (s *ProductService) List(ctx context.Context, sessionID string) ([]model.Product, error) {
	return s.store.List(ctx, sessionID)
}

func (s *ProductService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return err
	}
	log.Info().Str("session", sessionID).Msg("product list cleared")
	return nil
}

// Summarize totals a product list. Average margin only counts products
// with at least one feasible channel.
func (s *ProductService) Summarize(products []model.Product) dto.ListSummary {
	rates := s.quotes.Rates()
	summary := dto.ListSummary{
		Products:      len(products),
		ChannelALabel: rates.ChannelA.Label,
		ChannelBLabel: rates.ChannelB.Label,
	}

	var marginSum float64
	var meaningful int
	for _, p := range products {
		summary.TotalCost += p.Cost
		summary.TotalProfitA += p.ChannelA.Profit
		summary.TotalProfitB += p.ChannelB.Profit

		if !p.Recommendation.Meaningful {
			summary.Infeasible++
			continue
		}
		meaningful++
		summary.TotalBestProfit += p.Recommendation.BestProfit.Value
		marginSum += p.Recommendation.BestMargin.Value

		switch p.Recommendation.Winner {
		case pricing.ChannelA:
			summary.ChannelAWins++
		case pricing.ChannelB:
			summary.ChannelBWins++
		}
	}

	if meaningful > 0 {
		summary.AverageBestMargin = pricing.Round2(marginSum / float64(meaningful))
	}
	summary.TotalCost = pricing.Round2(summary.TotalCost)
	summary.TotalProfitA = pricing.Round2(summary.TotalProfitA)
	summary.TotalProfitB = pricing.Round2(summary.TotalProfitB)
	summary.TotalBestProfit = pricing.Round2(summary.TotalBestProfit)

	return summary
}
