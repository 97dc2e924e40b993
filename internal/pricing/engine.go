// Package pricing derives a marketplace sale price from a cost structure by
// inverting the target-margin equation, and compares the outcome of two
// channels. Everything here is pure: no state, no I/O, safe for concurrent use.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingPolicy selects how the raw computed price becomes the final price.
type RoundingPolicy string

const (
	// RoundingNone keeps the raw price at two decimal places.
	RoundingNone RoundingPolicy = "none"
	// RoundingPsychological90 rounds up to the next whole unit and subtracts
	// 0.10, so every price ends in .90.
	RoundingPsychological90 RoundingPolicy = "psychological_90"
)

const psychologicalOffset = 0.10

// ParseRoundingPolicy accepts the configuration spelling of a policy.
// An empty string means RoundingNone.
func ParseRoundingPolicy(s string) (RoundingPolicy, error) {
	switch RoundingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoundingNone:
		return RoundingNone, nil
	case RoundingPsychological90:
		return RoundingPsychological90, nil
	}
	return "", fmt.Errorf("pricing: unknown rounding policy %q", s)
}

// Input is the cost and fee structure of one product on one channel.
type Input struct {
	Cost                float64
	TargetMarginPercent float64
	TaxPercent          float64
	// CommissionRate is a fraction of the final price (0.14 = 14%).
	CommissionRate float64
	FixedFee       float64
	ShippingCost   float64
	// CommissionCap is the ceiling, in currency, of the commission amount.
	// Nil means uncapped.
	CommissionCap *float64
}

// Result is the priced outcome for one channel. A zero Price is the
// infeasible-input sentinel: tax, commission and margin leave no room to
// recover the cost.
type Result struct {
	Price         float64 `json:"price"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"margin_percent"`
	EffectiveFees float64 `json:"effective_fees"`
	Commission    float64 `json:"commission"`
	Tax           float64 `json:"tax"`
	Capped        bool    `json:"capped"`
}

// Feasible reports whether the result carries a real price.
func (r Result) Feasible() bool {
	return r.Price > 0
}

// DeductionFraction is the share of the final price consumed by tax,
// commission and the target margin.
func (in Input) DeductionFraction() float64 {
	return in.TaxPercent/100 + in.CommissionRate + in.TargetMarginPercent/100
}

// Cap returns a pointer suitable for Input.CommissionCap.
func Cap(v float64) *float64 {
	return &v
}

// ComputePrice prices a single channel. It never fails: infeasible inputs
// yield the zero Result.
func ComputePrice(in Input, policy RoundingPolicy) Result {
	taxFraction := in.TaxPercent / 100
	marginFraction := in.TargetMarginPercent / 100

	denominator := 1 - in.DeductionFraction()
	if denominator <= 0 {
		return Result{}
	}

	basis := in.Cost + in.FixedFee + in.ShippingCost
	raw := basis / denominator

	capped := false
	if in.CommissionCap != nil && raw*in.CommissionRate > *in.CommissionCap {
		// The commission becomes a flat charge equal to the cap.
		cappedDenominator := 1 - taxFraction - marginFraction
		if cappedDenominator <= 0 {
			return Result{}
		}
		raw = (basis + *in.CommissionCap) / cappedDenominator
		capped = true
	}

	price := ApplyRounding(raw, policy)
	if price <= 0 {
		return Result{}
	}

	// Rounding up can push an uncapped raw price over the cap.
	commission := price * in.CommissionRate
	if in.CommissionCap != nil && commission > *in.CommissionCap {
		commission = *in.CommissionCap
		capped = true
	}
	tax := price * taxFraction
	profit := price - in.Cost - tax - commission - in.FixedFee - in.ShippingCost
	margin := profit / price * 100

	return Result{
		Price:         Round2(price),
		Profit:        Round2(profit),
		MarginPercent: Round2(margin),
		EffectiveFees: Round2(commission + in.FixedFee),
		Commission:    Round2(commission),
		Tax:           Round2(tax),
		Capped:        capped,
	}
}

// ApplyRounding turns a raw computed price into the final sale price.
func ApplyRounding(raw float64, policy RoundingPolicy) float64 {
	if raw <= 0 {
		return 0
	}
	switch policy {
	case RoundingPsychological90:
		return Round2(math.Ceil(raw) - psychologicalOffset)
	default:
		return Round2(raw)
	}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
