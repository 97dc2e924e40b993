package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/metrics"
	"github.com/anyulbade/marketplace-pricer/internal/model"
	"github.com/anyulbade/marketplace-pricer/internal/pricing"
	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
)

const InfeasibleWarning = "taxes, commission and target margin consume the whole price: reduce margin or tax"

type QuoteService struct {
	rates       *ratetable.Table
	concurrency int
}

func NewQuoteService(rates *ratetable.Table, concurrency int) *QuoteService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &QuoteService{rates: rates, concurrency: concurrency}
}

func (s *QuoteService) Rates() *ratetable.Table {
	return s.rates
}

// Quote prices the form on both channels and recommends one.
func (s *QuoteService) Quote(form model.ProductForm) (model.Quote, error) {
	if err := s.validateForm(form); err != nil {
		return model.Quote{}, err
	}
	return s.quote(form)
}

// QuoteBatch validates every form first and prices them only when all are
// valid. Results keep the input order.
func (s *QuoteService) QuoteBatch(ctx context.Context, forms []model.ProductForm) ([]model.Quote, []dto.ValidationError, error) {
	var validationErrors []dto.ValidationError

	for i, form := range forms {
		if err := s.validateForm(form); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				validationErrors = append(validationErrors, dto.ValidationError{
					Index:   i,
					Field:   ve.Field,
					Message: ve.Message,
				})
				continue
			}
			return nil, nil, err
		}
	}

	if len(validationErrors) > 0 {
		return nil, validationErrors, nil
	}

	quotes := make([]model.Quote, len(forms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, form := range forms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := s.quote(form)
			if err != nil {
				return err
			}
			quotes[i] = q
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return quotes, nil, nil
}

func (s *QuoteService) quote(form model.ProductForm) (model.Quote, error) {
	tier, err := ratetable.ParseTier(form.ListingTier)
	if err != nil {
		return model.Quote{}, err
	}

	a, err := s.priceChannel(form, pricing.ChannelA, tier)
	if err != nil {
		return model.Quote{}, err
	}
	b, err := s.priceChannel(form, pricing.ChannelB, tier)
	if err != nil {
		return model.Quote{}, err
	}

	rec := pricing.Compare(a.Result, b.Result)
	preferred := ""
	if rec.Meaningful {
		preferred = s.rates.Channel(rec.Winner).Label
		metrics.RecommendationsTotal.WithLabelValues(s.rates.Channel(rec.Winner).Key).Inc()
	}

	return model.Quote{
		ChannelA:         a,
		ChannelB:         b,
		Recommendation:   rec,
		PreferredChannel: preferred,
	}, nil
}

func (s *QuoteService) priceChannel(form model.ProductForm, slot pricing.Channel, tier ratetable.Tier) (model.ChannelQuote, error) {
	rules := s.rates.Channel(slot)

	rate, err := s.rates.CommissionRate(form.Category, slot, tier, form.FreeShipping)
	if err != nil {
		return model.ChannelQuote{}, err
	}
	fixedFee := rules.FixedFeeFor(form.Cost, form.ShippingCost)

	res := pricing.ComputePrice(pricing.Input{
		Cost:                form.Cost,
		TargetMarginPercent: form.TargetMarginPercent,
		TaxPercent:          form.TaxPercent,
		CommissionRate:      rate,
		FixedFee:            fixedFee,
		ShippingCost:        form.ShippingCost,
		CommissionCap:       rules.CommissionCap,
	}, rules.Rounding)

	metrics.QuotesTotal.WithLabelValues(rules.Key, metrics.Outcome(res.Feasible(), res.Capped)).Inc()

	cq := model.ChannelQuote{
		Channel:        rules.Key,
		Label:          rules.Label,
		CommissionRate: rate,
		FixedFee:       fixedFee,
		Result:         res,
	}
	if !res.Feasible() {
		cq.Warning = InfeasibleWarning
	}
	return cq, nil
}

func (s *QuoteService) validateForm(form model.ProductForm) error {
	if form.Cost <= 0 {
		return &ValidationError{Field: "cost", Message: "must be greater than zero"}
	}
	if form.TargetMarginPercent < 0 || form.TargetMarginPercent >= 100 {
		return &ValidationError{Field: "target_margin_percent", Message: "must be in [0, 100)"}
	}
	if form.TaxPercent < 0 || form.TaxPercent >= 100 {
		return &ValidationError{Field: "tax_percent", Message: "must be in [0, 100)"}
	}
	if form.ShippingCost < 0 {
		return &ValidationError{Field: "shipping_cost", Message: "must not be negative"}
	}
	if _, ok := s.rates.Categories[form.Category]; !ok {
		return &ValidationError{Field: "category", Message: "unknown category '" + form.Category + "'", Err: ratetable.ErrUnknownCategory}
	}
	if _, err := ratetable.ParseTier(form.ListingTier); err != nil {
		return &ValidationError{Field: "listing_tier", Message: err.Error(), Err: err}
	}
	return nil
}
