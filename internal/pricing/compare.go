package pricing

// Channel identifies one of the two compared marketplace slots.
type Channel string

const (
	ChannelA Channel = "A"
	ChannelB Channel = "B"
)

// Other returns the opposite slot.
func (c Channel) Other() Channel {
	if c == ChannelA {
		return ChannelB
	}
	return ChannelA
}

// Pick is the winning channel of a single criterion and its value.
type Pick struct {
	Channel Channel `json:"channel"`
	Value   float64 `json:"value"`
}

// Recommendation is the verdict of comparing two channel results. The
// criteria are decided independently; the best-profit and best-margin
// channels may differ.
type Recommendation struct {
	Winner     Channel `json:"winner"`
	BestProfit Pick    `json:"best_profit"`
	BestMargin Pick    `json:"best_margin"`
	LowestFees Pick    `json:"lowest_fees"`
	// Meaningful is false when neither channel has a feasible price.
	Meaningful bool `json:"meaningful"`
}

// Compare recommends a channel by profit. A feasible result always beats an
// infeasible one, and an exact tie goes to ChannelA.
func Compare(a, b Result) Recommendation {
	bestProfit := pick(a, b, a.Profit, b.Profit, higher)
	return Recommendation{
		Winner:     bestProfit.Channel,
		BestProfit: bestProfit,
		BestMargin: pick(a, b, a.MarginPercent, b.MarginPercent, higher),
		LowestFees: pick(a, b, a.EffectiveFees, b.EffectiveFees, lower),
		Meaningful: a.Feasible() || b.Feasible(),
	}
}

func higher(x, y float64) bool { return x > y }
func lower(x, y float64) bool  { return x < y }

func pick(a, b Result, va, vb float64, better func(x, y float64) bool) Pick {
	switch {
	case a.Feasible() && !b.Feasible():
		return Pick{Channel: ChannelA, Value: va}
	case b.Feasible() && !a.Feasible():
		return Pick{Channel: ChannelB, Value: vb}
	case better(vb, va):
		return Pick{Channel: ChannelB, Value: vb}
	default:
		return Pick{Channel: ChannelA, Value: va}
	}
}
