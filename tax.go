package main

import (
	"math"
)

// Default German tax parameters for 2025. All of these are configurable via
// TaxConfig; defaults apply only when the config leaves a field at zero.
const (
	DefaultCapitalGainsRate = 0.26375 // 25% Abgeltungssteuer plus Solidaritaetszuschlag
	DefaultPartialExemption = 0.30    // Teilfreistellung for equity funds
	DefaultAnnualAllowance  = 2000.0  // Sparerpauschbetrag (married: 2000, single: 1000)
	DefaultBaseInterestRate = 0.0253  // Basiszins for the Vorabpauschale
	DefaultBasicAllowance   = 11604.0 // Grundfreibetrag
)

// TaxConfig holds the tax parameters of the plan (or of a single segment,
// when the segment overrides the income-tax fields)
type TaxConfig struct {
	CapitalGainsRate  float64 `yaml:"capital_gains_rate" json:"capital_gains_rate"`
	PartialExemption  float64 `yaml:"partial_exemption" json:"partial_exemption"`
	AnnualAllowance   float64 `yaml:"annual_allowance" json:"annual_allowance"`
	BaseInterestRate  float64 `yaml:"base_interest_rate" json:"base_interest_rate"` // Basiszins for the advance levy
	EnableAdvanceLevy bool    `yaml:"enable_advance_levy" json:"enable_advance_levy"`
}

func (t TaxConfig) GetCapitalGainsRate() float64 {
	if t.CapitalGainsRate <= 0 {
		return DefaultCapitalGainsRate
	}
	return t.CapitalGainsRate
}

func (t TaxConfig) GetPartialExemption() float64 {
	if t.PartialExemption <= 0 {
		return DefaultPartialExemption
	}
	return t.PartialExemption
}

func (t TaxConfig) GetAnnualAllowance() float64 {
	if t.AnnualAllowance <= 0 {
		return DefaultAnnualAllowance
	}
	return t.AnnualAllowance
}

func (t TaxConfig) GetBaseInterestRate() float64 {
	if t.BaseInterestRate <= 0 {
		return DefaultBaseInterestRate
	}
	return t.BaseInterestRate
}

// TaxState is the engine-owned running tax state threaded through the year
// loop. It is never written back to user-authored configuration.
type TaxState struct {
	AllowanceRemaining     float64 // Unused part of this year's allowance
	AllowanceUsed          float64 // Consumed part of this year's allowance
	AccumulatedAdvanceLevy float64 // Lifetime Vorabpauschale basis already taxed
}

// ResetAllowance restores the full annual allowance. The allowance resets
// every calendar year and is shared across all gains realized in that year.
func (s *TaxState) ResetAllowance(cfg TaxConfig) {
	s.AllowanceRemaining = cfg.GetAnnualAllowance()
	s.AllowanceUsed = 0
}

// consumeAllowance applies the remaining allowance to a taxable amount and
// returns the amount still taxable
func (s *TaxState) consumeAllowance(taxable float64) float64 {
	if taxable <= 0 {
		return 0
	}
	offset := math.Min(taxable, s.AllowanceRemaining)
	s.AllowanceRemaining -= offset
	s.AllowanceUsed += offset
	return taxable - offset
}

// CalculateGainsTax computes capital-gains tax on the gross investment gain
// of the year. The partial exemption is applied first, then any accumulated
// advance levy basis is credited (those amounts were already taxed), then the
// remaining annual allowance. Returns the tax due and the allowance consumed
// by this calculation.
func CalculateGainsTax(gain float64, cfg TaxConfig, state *TaxState) (tax, allowanceUsed float64) {
	if gain <= 0 {
		return 0, 0
	}

	usedBefore := state.AllowanceUsed

	taxable := gain * (1 - cfg.GetPartialExemption())

	// Credit the Vorabpauschale basis already taxed in earlier years
	if state.AccumulatedAdvanceLevy > 0 {
		credit := math.Min(taxable, state.AccumulatedAdvanceLevy)
		taxable -= credit
		state.AccumulatedAdvanceLevy -= credit
	}

	taxable = state.consumeAllowance(taxable)
	tax = taxable * cfg.GetCapitalGainsRate()

	return tax, state.AllowanceUsed - usedBefore
}

// CalculateAdvanceLevy computes the Vorabpauschale-style pre-tax levy for a
// year. The basis is capital x Basiszins x 0.7, prorated by the months the
// position was held when the segment starts mid-year, and capped at the
// actual gain. The taxed basis accumulates in the state so it can be credited
// against later realized gains.
func CalculateAdvanceLevy(capital, gain float64, monthsHeld int, cfg TaxConfig, state *TaxState) (tax, basis float64) {
	if !cfg.EnableAdvanceLevy || capital <= 0 || gain <= 0 {
		return 0, 0
	}
	if monthsHeld <= 0 || monthsHeld > 12 {
		monthsHeld = 12
	}

	basis = capital * cfg.GetBaseInterestRate() * 0.7 * float64(monthsHeld) / 12.0
	// The levy never exceeds the actual gain of the year
	basis = math.Min(basis, gain)
	if basis <= 0 {
		return 0, 0
	}

	taxable := basis * (1 - cfg.GetPartialExemption())
	taxable = state.consumeAllowance(taxable)
	tax = taxable * cfg.GetCapitalGainsRate()

	state.AccumulatedAdvanceLevy += basis

	return tax, basis
}

// CalculateIncomeTax computes progressive-style income tax on a withdrawal
// under the Grundfreibetrag mode: the basic allowance for the year is
// deducted, the rest is taxed at the configured rate.
func CalculateIncomeTax(withdrawal float64, year int, incomeTaxRate float64, allowancePerYear map[int]float64) float64 {
	if withdrawal <= 0 || incomeTaxRate <= 0 {
		return 0
	}
	allowance, ok := allowancePerYear[year]
	if !ok {
		allowance = DefaultBasicAllowance
	}
	taxable := withdrawal - allowance
	if taxable <= 0 {
		return 0
	}
	return taxable * incomeTaxRate
}
