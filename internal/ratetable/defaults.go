package ratetable

import "github.com/anyulbade/marketplace-pricer/internal/pricing"

const (
	MercadoLivre = "mercado_livre"
	Shopee       = "shopee"
)

// Default returns the built-in table. Figures are business parameters and
// can be overridden with a rate file or the category_rates table.
func Default() *Table {
	return &Table{
		ChannelA: ChannelRules{
			Key:                     MercadoLivre,
			Label:                   "Mercado Livre",
			FixedFee:                6.75,
			FixedFeeWaiverThreshold: ptr(79),
			PremiumIncrement:        0.05,
			Rounding:                pricing.RoundingNone,
		},
		ChannelB: ChannelRules{
			Key:              Shopee,
			Label:            "Shopee",
			FixedFee:         4.0,
			CommissionCap:    ptr(103),
			FreeShippingRate: ptr(0.20),
			Rounding:         pricing.RoundingNone,
		},
		Categories: map[string]map[string]map[Tier]float64{
			"Electronics":            rates(0.12, 0.17, 0.14),
			"Automotive Accessories": rates(0.14, 0.19, 0.14),
			"Home & Decor":           rates(0.11, 0.16, 0.14),
			"Fashion & Apparel":      rates(0.15, 0.20, 0.14),
			"Other":                  rates(0.13, 0.18, 0.14),
		},
	}
}

func rates(classic, premium, shopee float64) map[string]map[Tier]float64 {
	return map[string]map[Tier]float64{
		MercadoLivre: {TierStandard: classic, TierPremium: premium},
		Shopee:       {TierStandard: shopee},
	}
}

func ptr(v float64) *float64 {
	return &v
}
