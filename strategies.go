package main

import (
	"math"
)

// MonthlyConfig parameterizes the fixed-monthly strategy
type MonthlyConfig struct {
	MonthlyAmount        float64 `yaml:"monthly_amount" json:"monthly_amount"`
	EnableGuardrails     bool    `yaml:"enable_guardrails" json:"enable_guardrails"`
	GuardrailsThreshold  float64 `yaml:"guardrails_threshold" json:"guardrails_threshold"`   // Prior-year return breach level
	GuardrailsAdjustment float64 `yaml:"guardrails_adjustment" json:"guardrails_adjustment"` // Proportional step per breach
}

func (c MonthlyConfig) getGuardrailsThreshold() float64 {
	if c.GuardrailsThreshold <= 0 {
		return 0.08
	}
	return c.GuardrailsThreshold
}

func (c MonthlyConfig) getGuardrailsAdjustment() float64 {
	if c.GuardrailsAdjustment <= 0 {
		return 0.05
	}
	return c.GuardrailsAdjustment
}

// DynamicConfig parameterizes the dynamic-threshold strategy. Adjustments are
// relative bumps on the base withdrawal, applied for the current year only.
type DynamicConfig struct {
	BaseWithdrawalRate       float64 `yaml:"base_withdrawal_rate" json:"base_withdrawal_rate"`
	UpperThresholdReturn     float64 `yaml:"upper_threshold_return" json:"upper_threshold_return"`
	UpperThresholdAdjustment float64 `yaml:"upper_threshold_adjustment" json:"upper_threshold_adjustment"`
	LowerThresholdReturn     float64 `yaml:"lower_threshold_return" json:"lower_threshold_return"`
	LowerThresholdAdjustment float64 `yaml:"lower_threshold_adjustment" json:"lower_threshold_adjustment"`
}

// TaxOptimizedConfig parameterizes the tax-optimized search strategy
type TaxOptimizedConfig struct {
	TargetRate              float64 `yaml:"target_rate" json:"target_rate"`
	SearchBand              float64 `yaml:"search_band" json:"search_band"`
	TargetEffectiveTaxRate  float64 `yaml:"target_effective_tax_rate" json:"target_effective_tax_rate"`
	RebalanceFrequencyYears int     `yaml:"rebalance_frequency_years" json:"rebalance_frequency_years"`
}

func (c TaxOptimizedConfig) getTargetRate() float64 {
	if c.TargetRate <= 0 {
		return 0.04
	}
	return c.TargetRate
}

func (c TaxOptimizedConfig) getSearchBand() float64 {
	if c.SearchBand <= 0 {
		return 0.01
	}
	return c.SearchBand
}

func (c TaxOptimizedConfig) getTargetEffectiveTaxRate() float64 {
	if c.TargetEffectiveTaxRate <= 0 {
		return 0.10
	}
	return c.TargetEffectiveTaxRate
}

func (c TaxOptimizedConfig) getRebalanceFrequency() int {
	if c.RebalanceFrequencyYears <= 0 {
		return 1
	}
	return c.RebalanceFrequencyYears
}

// lifeExpectancyTable maps age to remaining life expectancy in years
// (blended male/female, rounded from recent German period life tables).
// The implied withdrawal rate 1/divisor is non-decreasing with age.
var lifeExpectancyTable = map[int]float64{
	60: 25.0, 61: 24.1, 62: 23.3, 63: 22.4, 64: 21.6,
	65: 20.8, 66: 19.9, 67: 19.1, 68: 18.3, 69: 17.5,
	70: 16.7, 71: 16.0, 72: 15.2, 73: 14.4, 74: 13.7,
	75: 13.0, 76: 12.2, 77: 11.5, 78: 10.8, 79: 10.2,
	80: 9.5, 81: 8.9, 82: 8.3, 83: 7.7, 84: 7.1,
	85: 6.6, 86: 6.1, 87: 5.6, 88: 5.1, 89: 4.7,
	90: 4.3, 91: 3.9, 92: 3.6, 93: 3.3, 94: 3.0,
	95: 2.8, 96: 2.5, 97: 2.3, 98: 2.1, 99: 2.0,
	100: 1.8,
}

// LifeExpectancy returns the remaining life expectancy for an age. Ages below
// the table extrapolate linearly; ages above 100 use the age-100 value.
func LifeExpectancy(age int) float64 {
	if age < 60 {
		return 25.0 + float64(60-age)
	}
	if age > 100 {
		return 1.8
	}
	return lifeExpectancyTable[age]
}

// GetRMDRate returns the age-indexed withdrawal percentage (1 / remaining
// life expectancy), recomputed every year as age advances
func GetRMDRate(age int) float64 {
	return 1.0 / LifeExpectancy(age)
}

// StrategyState is the engine-owned running state of one segment's strategy,
// threaded through the year loop as an accumulator. User-authored
// configuration is never mutated: guardrail adjustments live here.
type StrategyState struct {
	initialized         bool
	currentMonthly      float64 // Sticky guardrail-adjusted monthly amount
	lastOptimized       float64 // Last tax-optimized gross withdrawal
	yearsSinceRebalance int
}

// NewStrategyState initializes the running state for a segment
func NewStrategyState(seg *WithdrawalSegment) *StrategyState {
	s := &StrategyState{}
	if seg.Monthly != nil {
		s.currentMonthly = seg.Monthly.MonthlyAmount
	}
	return s
}

// WithdrawalContext carries the per-year inputs of the strategy engine
type WithdrawalContext struct {
	Year           int
	PrevCapital    float64 // Previous year's closing capital
	PrevYearReturn float64 // Realized return of the prior year (valid after the first year)
	BirthYear      int
	ExpectedReturn float64 // Return model mean, used for tax estimates
	InflationRate  float64
	TaxConfig      TaxConfig
	TaxState       TaxState // Copy; the search must not consume the real allowance
}

// CalculateWithdrawal computes the gross withdrawal for the year under the
// segment's strategy. Exhaustive over all strategy variants; clipping to
// available capital happens in the simulation loop, not here.
func CalculateWithdrawal(seg *WithdrawalSegment, state *StrategyState, ctx WithdrawalContext) float64 {
	strategy, _ := ParseWithdrawalStrategy(seg.Strategy)

	var withdrawal float64
	switch strategy {
	case StrategyFixed4Percent:
		withdrawal = ctx.PrevCapital * 0.04
	case StrategyFixed3Percent:
		withdrawal = ctx.PrevCapital * 0.03
	case StrategyVariablePercent:
		withdrawal = ctx.PrevCapital * seg.CustomPercentage
	case StrategyFixedMonthly:
		withdrawal = monthlyWithdrawal(seg, state, ctx)
	case StrategyDynamicThreshold:
		withdrawal = dynamicWithdrawal(seg, state, ctx)
	case StrategyRMD:
		age := ctx.Year - ctx.BirthYear
		if ctx.BirthYear <= 0 {
			// Missing birth year is a caller precondition violation;
			// documented fallback is age 65.
			age = 65
		}
		withdrawal = ctx.PrevCapital * GetRMDRate(age)
	case StrategyTaxOptimized:
		withdrawal = taxOptimizedWithdrawal(seg, state, ctx)
	}

	state.initialized = true
	if withdrawal < 0 {
		withdrawal = 0
	}
	return withdrawal
}

// monthlyWithdrawal applies the sticky guardrail rule: a prior-year return
// breaching the threshold (plus or minus) revises the monthly amount itself,
// so the adjusted amount is the basis for all subsequent years.
func monthlyWithdrawal(seg *WithdrawalSegment, state *StrategyState, ctx WithdrawalContext) float64 {
	cfg := seg.Monthly
	if cfg == nil {
		return 0
	}
	if state.currentMonthly <= 0 {
		state.currentMonthly = cfg.MonthlyAmount
	}

	if cfg.EnableGuardrails && state.initialized {
		threshold := cfg.getGuardrailsThreshold()
		adjustment := cfg.getGuardrailsAdjustment()
		if ctx.PrevYearReturn > threshold {
			state.currentMonthly *= 1 + adjustment
		} else if ctx.PrevYearReturn < -threshold {
			state.currentMonthly *= 1 - adjustment
		}
	}

	return state.currentMonthly * 12
}

// dynamicWithdrawal adjusts the base rate for the current year only when the
// prior-year return crosses a threshold. No adjustment between thresholds.
func dynamicWithdrawal(seg *WithdrawalSegment, state *StrategyState, ctx WithdrawalContext) float64 {
	cfg := seg.Dynamic
	if cfg == nil {
		return 0
	}
	base := ctx.PrevCapital * cfg.BaseWithdrawalRate
	if !state.initialized {
		return base
	}
	if ctx.PrevYearReturn > cfg.UpperThresholdReturn {
		return base * (1 + cfg.UpperThresholdAdjustment)
	}
	if ctx.PrevYearReturn < cfg.LowerThresholdReturn {
		return base * (1 - cfg.LowerThresholdAdjustment)
	}
	return base
}

// taxOptimizedWithdrawal searches a band around the target rate for the gross
// withdrawal that best utilizes the annual allowance without exceeding the
// target effective tax rate. In years between rebalances the prior result is
// scaled by inflation instead of re-running the search.
func taxOptimizedWithdrawal(seg *WithdrawalSegment, state *StrategyState, ctx WithdrawalContext) float64 {
	cfg := seg.TaxOptimized
	if cfg == nil {
		cfg = &TaxOptimizedConfig{}
	}

	if state.initialized && state.lastOptimized > 0 {
		state.yearsSinceRebalance++
		if state.yearsSinceRebalance%cfg.getRebalanceFrequency() != 0 {
			state.lastOptimized *= 1 + ctx.InflationRate
			return state.lastOptimized
		}
	}

	target := cfg.getTargetRate()
	band := cfg.getSearchBand()
	// Fraction of each withdrawn euro that is realized gain after one year
	// of expected growth
	gainShare := 0.0
	if ctx.ExpectedReturn > 0 {
		gainShare = ctx.ExpectedReturn / (1 + ctx.ExpectedReturn)
	}

	const step = 0.0025
	bestGross := ctx.PrevCapital * target
	bestAllowanceUsed := -1.0

	for r := target - band; r <= target+band+1e-9; r += step {
		if r <= 0 {
			continue
		}
		gross := ctx.PrevCapital * r
		// Search on a scratch copy of the tax state so candidates do not
		// consume the real allowance
		scratch := ctx.TaxState
		tax, allowanceUsed := CalculateGainsTax(gross*gainShare, ctx.TaxConfig, &scratch)
		if gross > 0 && tax/gross > cfg.getTargetEffectiveTaxRate() {
			continue
		}
		if allowanceUsed > bestAllowanceUsed || (allowanceUsed == bestAllowanceUsed && gross > bestGross) {
			bestAllowanceUsed = allowanceUsed
			bestGross = gross
		}
	}

	state.lastOptimized = bestGross
	state.yearsSinceRebalance = 0
	return bestGross
}

// clipWithdrawal limits a requested withdrawal to the available capital.
// Returns the clipped amount and whether a shortfall occurred. The engine
// continues with zero capital rather than aborting, so downstream consumers
// must tolerate an all-zero tail.
func clipWithdrawal(requested, available float64) (float64, bool) {
	if requested > available {
		return math.Max(available, 0), true
	}
	return requested, false
}
