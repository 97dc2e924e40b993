package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() Input {
	return Input{
		Cost:                50,
		TargetMarginPercent: 15,
		TaxPercent:          4,
		CommissionRate:      0.12,
		FixedFee:            6.75,
	}
}

func TestComputePrice_ReferenceScenario(t *testing.T) {
	res := ComputePrice(baseInput(), RoundingNone)

	assert.True(t, res.Feasible())
	assert.False(t, res.Capped)
	assert.Equal(t, 82.28, res.Price)
	assert.Equal(t, 12.37, res.Profit)
	assert.Equal(t, 3.29, res.Tax)
	assert.Equal(t, 9.87, res.Commission)
	assert.Equal(t, 16.62, res.EffectiveFees)
	assert.InDelta(t, 15.03, res.MarginPercent, 1e-9)
}

func TestComputePrice_Infeasible(t *testing.T) {
	t.Run("deductions above 100%", func(t *testing.T) {
		in := Input{Cost: 50, TargetMarginPercent: 50, TaxPercent: 30, CommissionRate: 0.25}
		assert.Equal(t, Result{}, ComputePrice(in, RoundingNone))
	})

	t.Run("deductions exactly 100%", func(t *testing.T) {
		in := Input{Cost: 50, TargetMarginPercent: 50, TaxPercent: 30, CommissionRate: 0.20}
		res := ComputePrice(in, RoundingPsychological90)
		assert.Zero(t, res.Price)
		assert.Zero(t, res.Profit)
		assert.False(t, res.Feasible())
	})

	t.Run("boundary holds across the grid", func(t *testing.T) {
		for tax := 0.0; tax <= 60; tax += 10 {
			for margin := 0.0; margin <= 90; margin += 15 {
				for rate := 0.0; rate <= 0.5; rate += 0.1 {
					in := Input{Cost: 10, TaxPercent: tax, TargetMarginPercent: margin, CommissionRate: rate}
					res := ComputePrice(in, RoundingNone)
					if in.DeductionFraction() >= 1 {
						assert.Zero(t, res.Price, "tax=%v margin=%v rate=%v", tax, margin, rate)
						assert.Zero(t, res.Profit)
					}
				}
			}
		}
	})
}

func TestComputePrice_ProfitMatchesReturnedPrice(t *testing.T) {
	inputs := []Input{
		baseInput(),
		{Cost: 12.5, TargetMarginPercent: 30, TaxPercent: 6, CommissionRate: 0.17, ShippingCost: 9.9},
		{Cost: 1000, TargetMarginPercent: 5, TaxPercent: 0, CommissionRate: 0.11, FixedFee: 4},
		{Cost: 0.99, TargetMarginPercent: 0, TaxPercent: 10, CommissionRate: 0.2, FixedFee: 6.25},
	}

	for _, in := range inputs {
		res := ComputePrice(in, RoundingNone)
		require.True(t, res.Feasible())

		recomputed := res.Price - in.Cost - res.Price*(in.TaxPercent/100) -
			res.Price*in.CommissionRate - in.FixedFee - in.ShippingCost
		assert.InDelta(t, Round2(recomputed), res.Profit, 1e-6)
		assert.InDelta(t, res.Price, Round2((in.Cost+in.FixedFee+in.ShippingCost)/(1-in.DeductionFraction())), 1e-9)
	}
}

func TestComputePrice_CommissionCap(t *testing.T) {
	in := Input{
		Cost:                500,
		TargetMarginPercent: 15,
		TaxPercent:          4,
		CommissionRate:      0.20,
		FixedFee:            4,
		CommissionCap:       Cap(100),
	}

	res := ComputePrice(in, RoundingNone)

	require.True(t, res.Capped)
	assert.Equal(t, 100.0, res.Commission)
	assert.Equal(t, 104.0, res.EffectiveFees)
	assert.Equal(t, Round2(604/0.81), res.Price)
	assert.Equal(t, 745.68, res.Price)
	assert.Equal(t, 111.85, res.Profit)

	uncapped := in
	uncapped.CommissionCap = nil
	assert.NotEqual(t, ComputePrice(uncapped, RoundingNone).Price, res.Price)
}

func TestComputePrice_CapNotReached(t *testing.T) {
	in := Input{
		Cost:                200,
		TargetMarginPercent: 15,
		TaxPercent:          4,
		CommissionRate:      0.20,
		FixedFee:            4,
		CommissionCap:       Cap(100),
	}

	res := ComputePrice(in, RoundingNone)

	assert.False(t, res.Capped)
	assert.Equal(t, Round2(204/0.61), res.Price)
	assert.Less(t, res.Commission, 100.0)
}

func TestComputePrice_CapWithNoRoomLeft(t *testing.T) {
	in := Input{
		Cost:                1000,
		TargetMarginPercent: 60,
		TaxPercent:          39,
		CommissionRate:      0,
		CommissionCap:       Cap(10),
	}
	// Deductions are 99%, the uncapped commission is zero so the cap never applies.
	res := ComputePrice(in, RoundingNone)
	assert.True(t, res.Feasible())
	assert.False(t, res.Capped)
}

func TestComputePrice_RoundingCrossesCap(t *testing.T) {
	// Raw price 515.20 keeps the commission at 103.04, under the cap; the
	// rounded 515.90 would charge 103.18.
	in := Input{
		Cost:           412.16,
		CommissionRate: 0.20,
		CommissionCap:  Cap(103.10),
	}

	raw := ComputePrice(in, RoundingNone)
	require.False(t, raw.Capped)
	assert.Equal(t, 515.2, raw.Price)

	res := ComputePrice(in, RoundingPsychological90)
	assert.Equal(t, 515.9, res.Price)
	assert.True(t, res.Capped)
	assert.Equal(t, 103.1, res.Commission)
	assert.Equal(t, 103.1, res.EffectiveFees)
	assert.Equal(t, Round2(515.9-412.16-103.10), res.Profit)
}

func TestComputePrice_PsychologicalRounding(t *testing.T) {
	for cost := 1.0; cost < 400; cost += 7.3 {
		in := baseInput()
		in.Cost = cost

		raw := ComputePrice(in, RoundingNone)
		res := ComputePrice(in, RoundingPsychological90)
		require.True(t, res.Feasible())

		_, frac := math.Modf(res.Price)
		assert.InDelta(t, 0.90, frac, 1e-9, "price %v", res.Price)
		assert.InDelta(t, raw.Price, res.Price, 1.0)

		recomputed := res.Price - in.Cost - res.Price*(in.TaxPercent/100) -
			res.Price*in.CommissionRate - in.FixedFee - in.ShippingCost
		assert.InDelta(t, Round2(recomputed), res.Profit, 1e-6)
	}
}

func TestComputePrice_Monotonic(t *testing.T) {
	policies := []RoundingPolicy{RoundingNone, RoundingPsychological90}
	caps := []*float64{nil, Cap(103)}

	for _, policy := range policies {
		for _, commissionCap := range caps {
			prev := 0.0
			for cost := 1.0; cost < 2000; cost += 13 {
				in := Input{Cost: cost, TargetMarginPercent: 20, TaxPercent: 6, CommissionRate: 0.2, FixedFee: 4, CommissionCap: commissionCap}
				price := ComputePrice(in, policy).Price
				assert.GreaterOrEqual(t, price, prev, "cost=%v policy=%s", cost, policy)
				prev = price
			}

			prev = 0.0
			for margin := 0.0; margin < 70; margin += 2.5 {
				in := Input{Cost: 300, TargetMarginPercent: margin, TaxPercent: 6, CommissionRate: 0.2, FixedFee: 4, CommissionCap: commissionCap}
				price := ComputePrice(in, policy).Price
				assert.GreaterOrEqual(t, price, prev, "margin=%v policy=%s", margin, policy)
				prev = price
			}
		}
	}
}

func TestComputePrice_DoesNotMutateInput(t *testing.T) {
	in := baseInput()
	in.CommissionCap = Cap(5)
	before := in
	capBefore := *in.CommissionCap

	first := ComputePrice(in, RoundingNone)
	second := ComputePrice(in, RoundingNone)

	assert.Equal(t, before, in)
	assert.Equal(t, capBefore, *in.CommissionCap)
	assert.Equal(t, first, second)
}

func TestApplyRounding(t *testing.T) {
	assert.Equal(t, 82.28, ApplyRounding(82.2753623, RoundingNone))
	assert.Equal(t, 82.9, ApplyRounding(82.2753623, RoundingPsychological90))
	assert.Equal(t, 81.9, ApplyRounding(82, RoundingPsychological90))
	assert.Equal(t, 0.9, ApplyRounding(0.01, RoundingPsychological90))
	assert.Zero(t, ApplyRounding(0, RoundingPsychological90))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 82.28, Round2(82.275))
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, -1.01, Round2(-1.005))
	assert.Equal(t, 3.0, Round2(2.999))
}

func TestParseRoundingPolicy(t *testing.T) {
	p, err := ParseRoundingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RoundingNone, p)

	p, err = ParseRoundingPolicy(" Psychological_90 ")
	require.NoError(t, err)
	assert.Equal(t, RoundingPsychological90, p)

	_, err = ParseRoundingPolicy("bankers")
	assert.Error(t, err)
}
