package model

import (
	"time"

	"github.com/anyulbade/marketplace-pricer/internal/pricing"
)

// ProductForm is what the seller submits for one product.
type ProductForm struct {
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	Cost                float64 `json:"cost"`
	TargetMarginPercent float64 `json:"target_margin_percent"`
	TaxPercent          float64 `json:"tax_percent"`
	ShippingCost        float64 `json:"shipping_cost"`
	ListingTier         string  `json:"listing_tier"`
	FreeShipping        bool    `json:"free_shipping_program"`
}

type ChannelQuote struct {
	Channel        string  `json:"channel"`
	Label          string  `json:"label"`
	CommissionRate float64 `json:"commission_rate"`
	FixedFee       float64 `json:"fixed_fee"`
	pricing.Result
	Warning string `json:"warning,omitempty"`
}

type Quote struct {
	ChannelA         ChannelQuote           `json:"channel_a"`
	ChannelB         ChannelQuote           `json:"channel_b"`
	Recommendation   pricing.Recommendation `json:"recommendation"`
	PreferredChannel string                 `json:"preferred_channel"`
}

// Product is one entry of a session's priced product list.
type Product struct {
	ID string `json:"id"`
	ProductForm
	Quote
	CreatedAt time.Time `json:"created_at"`
}
