// Package ratetable holds the marketplace business parameters: commission
// rates per category, channel and listing tier, plus each channel's fee
// rules. A Table is loaded once at startup and treated as read-only.
package ratetable

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anyulbade/marketplace-pricer/internal/pricing"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownTier     = errors.New("unknown listing tier")
	ErrMissingRate     = errors.New("missing commission rate")
	ErrInvalidTable    = errors.New("invalid rate table")
)

// Tier is the listing type a seller picks on a channel.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case "", TierStandard, "classic":
		return TierStandard, nil
	case TierPremium:
		return TierPremium, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// ChannelRules are the fee rules of one marketplace channel.
type ChannelRules struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	// FixedFee is charged per order unless waived.
	FixedFee float64 `yaml:"fixed_fee" json:"fixed_fee"`
	// FixedFeeWaiverThreshold waives FixedFee when cost + shipping reaches it.
	FixedFeeWaiverThreshold *float64 `yaml:"fixed_fee_waiver_threshold,omitempty" json:"fixed_fee_waiver_threshold,omitempty"`
	CommissionCap           *float64 `yaml:"commission_cap,omitempty" json:"commission_cap,omitempty"`
	// FreeShippingRate replaces the category rate for sellers enrolled in
	// the channel's free-shipping program.
	FreeShippingRate *float64 `yaml:"free_shipping_rate,omitempty" json:"free_shipping_rate,omitempty"`
	// PremiumIncrement is added to the standard rate when a category has no
	// explicit premium rate.
	PremiumIncrement float64                `yaml:"premium_increment" json:"premium_increment"`
	Rounding         pricing.RoundingPolicy `yaml:"rounding" json:"rounding"`
}

// FixedFeeFor applies the waiver threshold.
func (c ChannelRules) FixedFeeFor(cost, shipping float64) float64 {
	if c.FixedFeeWaiverThreshold != nil && cost+shipping >= *c.FixedFeeWaiverThreshold {
		return 0
	}
	return c.FixedFee
}

// Rate is one flattened commission entry.
type Rate struct {
	Category string  `json:"category"`
	Channel  string  `json:"channel"`
	Tier     Tier    `json:"tier"`
	Rate     float64 `json:"rate"`
}

// Table maps category -> channel key -> tier -> commission rate, alongside
// the rules of the two compared channels.
type Table struct {
	ChannelA   ChannelRules                           `yaml:"channel_a" json:"channel_a"`
	ChannelB   ChannelRules                           `yaml:"channel_b" json:"channel_b"`
	Categories map[string]map[string]map[Tier]float64 `yaml:"categories" json:"categories"`
}

// LoadFile reads a YAML (or JSON) table and validates it.
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate table: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse rate table %s: %w", path, err)
	}
	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Channel returns the rules of a comparison slot.
func (t *Table) Channel(slot pricing.Channel) ChannelRules {
	if slot == pricing.ChannelB {
		return t.ChannelB
	}
	return t.ChannelA
}

func (t *Table) CategoryNames() []string {
	names := make([]string, 0, len(t.Categories))
	for name := range t.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommissionRate resolves the rate a channel charges for a category.
func (t *Table) CommissionRate(category string, slot pricing.Channel, tier Tier, freeShipping bool) (float64, error) {
	rules := t.Channel(slot)
	if freeShipping && rules.FreeShippingRate != nil {
		if _, ok := t.Categories[category]; !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
		return *rules.FreeShippingRate, nil
	}

	channels, ok := t.Categories[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	tiers, ok := channels[rules.Key]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no rate for %s", ErrMissingRate, category, rules.Key)
	}

	if rate, ok := tiers[tier]; ok {
		return rate, nil
	}
	if tier == TierPremium {
		if std, ok := tiers[TierStandard]; ok {
			return std + rules.PremiumIncrement, nil
		}
	}
	return 0, fmt.Errorf("%w: %s/%s/%s", ErrMissingRate, category, rules.Key, tier)
}

// Rates flattens the category map in a stable order.
func (t *Table) Rates() []Rate {
	var out []Rate
	for _, category := range t.CategoryNames() {
		channels := t.Categories[category]
		keys := make([]string, 0, len(channels))
		for k := range channels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, channel := range keys {
			for _, tier := range []Tier{TierStandard, TierPremium} {
				if rate, ok := channels[channel][tier]; ok {
					out = append(out, Rate{Category: category, Channel: channel, Tier: tier, Rate: rate})
				}
			}
		}
	}
	return out
}

// WithRates returns a copy of t whose categories are replaced by rates.
func (t *Table) WithRates(rates []Rate) (*Table, error) {
	next := &Table{
		ChannelA:   t.ChannelA,
		ChannelB:   t.ChannelB,
		Categories: make(map[string]map[string]map[Tier]float64),
	}
	for _, r := range rates {
		tier, err := ParseTier(string(r.Tier))
		if err != nil {
			return nil, err
		}
		if next.Categories[r.Category] == nil {
			next.Categories[r.Category] = make(map[string]map[Tier]float64)
		}
		if next.Categories[r.Category][r.Channel] == nil {
			next.Categories[r.Category][r.Channel] = make(map[Tier]float64)
		}
		next.Categories[r.Category][r.Channel][tier] = r.Rate
	}
	next.normalize()
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// Validate checks that every figure is a usable business parameter.
func (t *Table) Validate() error {
	var problems []string

	for _, c := range []ChannelRules{t.ChannelA, t.ChannelB} {
		problems = append(problems, c.problems()...)
	}
	if t.ChannelA.Key != "" && t.ChannelA.Key == t.ChannelB.Key {
		problems = append(problems, fmt.Sprintf("channels share key %q", t.ChannelA.Key))
	}

	if len(t.Categories) == 0 {
		problems = append(problems, "no categories")
	}
	for _, category := range t.CategoryNames() {
		channels := t.Categories[category]
		for _, c := range []ChannelRules{t.ChannelA, t.ChannelB} {
			if _, ok := channels[c.Key][TierStandard]; !ok {
				problems = append(problems, fmt.Sprintf("%s: no standard rate for %s", category, c.Key))
			}
		}
		for channel, tiers := range channels {
			for tier, rate := range tiers {
				if tier != TierStandard && tier != TierPremium {
					problems = append(problems, fmt.Sprintf("%s/%s: unknown tier %q", category, channel, tier))
				}
				if rate < 0 || rate >= 1 {
					problems = append(problems, fmt.Sprintf("%s/%s/%s: rate %v outside [0,1)", category, channel, tier, rate))
				}
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidTable, strings.Join(problems, "; "))
	}
	return nil
}

// normalize rewrites each channel's rounding policy to its canonical
// spelling so pricing matches on the constant. Unknown values are left for
// Validate to report.
func (t *Table) normalize() {
	for _, c := range []*ChannelRules{&t.ChannelA, &t.ChannelB} {
		if policy, err := pricing.ParseRoundingPolicy(string(c.Rounding)); err == nil {
			c.Rounding = policy
		}
	}
}

func (c ChannelRules) problems() []string {
	var out []string
	if c.Key == "" {
		out = append(out, "channel without key")
	}
	if c.FixedFee < 0 {
		out = append(out, fmt.Sprintf("%s: negative fixed fee", c.Key))
	}
	if c.FixedFeeWaiverThreshold != nil && *c.FixedFeeWaiverThreshold < 0 {
		out = append(out, fmt.Sprintf("%s: negative waiver threshold", c.Key))
	}
	if c.CommissionCap != nil && *c.CommissionCap <= 0 {
		out = append(out, fmt.Sprintf("%s: commission cap must be positive", c.Key))
	}
	if c.FreeShippingRate != nil && (*c.FreeShippingRate < 0 || *c.FreeShippingRate >= 1) {
		out = append(out, fmt.Sprintf("%s: free shipping rate outside [0,1)", c.Key))
	}
	if c.PremiumIncrement < 0 || c.PremiumIncrement >= 1 {
		out = append(out, fmt.Sprintf("%s: premium increment outside [0,1)", c.Key))
	}
	if _, err := pricing.ParseRoundingPolicy(string(c.Rounding)); err != nil {
		out = append(out, fmt.Sprintf("%s: %v", c.Key, err))
	}
	return out
}
