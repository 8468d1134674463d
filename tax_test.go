package main

import (
	"math"
	"testing"
)

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// =============================================================================
// Capital Gains Tax
// =============================================================================

func TestGainsTax_PartialExemptionAndAllowance(t *testing.T) {
	// 10000 gain, 30% exempt -> 7000 taxable, minus 2000 allowance -> 5000
	// taxed at 26.375%
	cfg := TaxConfig{}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	tax, allowanceUsed := CalculateGainsTax(10000, cfg, state)

	expected := 5000 * DefaultCapitalGainsRate
	if !approxEqual(tax, expected, 0.01) {
		t.Errorf("Expected tax %.2f, got %.2f", expected, tax)
	}
	if !approxEqual(allowanceUsed, 2000, 0.01) {
		t.Errorf("Expected full allowance consumed, got %.2f", allowanceUsed)
	}
	if state.AllowanceRemaining != 0 {
		t.Errorf("Allowance remaining should be 0, got %.2f", state.AllowanceRemaining)
	}
}

func TestGainsTax_SmallGainFullyCoveredByAllowance(t *testing.T) {
	// Property: taxable amount within the allowance produces zero tax
	cfg := TaxConfig{}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	tax, allowanceUsed := CalculateGainsTax(2000, cfg, state)

	if tax != 0 {
		t.Errorf("Gain within allowance should be tax-free, got %.2f", tax)
	}
	// 2000 * 0.7 = 1400 taxable, all offset by allowance
	if !approxEqual(allowanceUsed, 1400, 0.01) {
		t.Errorf("Expected 1400 allowance used, got %.2f", allowanceUsed)
	}
}

func TestGainsTax_ZeroAndNegativeGains(t *testing.T) {
	// Property: no gain, no tax, no allowance consumed
	cfg := TaxConfig{}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	for _, gain := range []float64{0, -5000} {
		tax, allowanceUsed := CalculateGainsTax(gain, cfg, state)
		if tax != 0 || allowanceUsed != 0 {
			t.Errorf("Gain %.0f: expected zero tax and allowance use, got %.2f / %.2f",
				gain, tax, allowanceUsed)
		}
	}
	if state.AllowanceRemaining != DefaultAnnualAllowance {
		t.Errorf("Allowance should be untouched, got %.2f remaining", state.AllowanceRemaining)
	}
}

func TestGainsTax_AllowanceSharedAcrossCalls(t *testing.T) {
	// Property: within one year the allowance is a shared pool, not
	// per-calculation
	cfg := TaxConfig{}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	_, used1 := CalculateGainsTax(2000, cfg, state) // consumes 1400
	_, used2 := CalculateGainsTax(2000, cfg, state) // only 600 left

	if !approxEqual(used1, 1400, 0.01) {
		t.Errorf("First call should use 1400, got %.2f", used1)
	}
	if !approxEqual(used2, 600, 0.01) {
		t.Errorf("Second call should use the remaining 600, got %.2f", used2)
	}
}

func TestGainsTax_AllowanceResetsEachYear(t *testing.T) {
	cfg := TaxConfig{}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	CalculateGainsTax(100000, cfg, state)
	if state.AllowanceRemaining != 0 {
		t.Fatalf("Large gain should exhaust the allowance")
	}

	state.ResetAllowance(cfg)
	if state.AllowanceRemaining != DefaultAnnualAllowance {
		t.Errorf("Reset should restore the full allowance, got %.2f", state.AllowanceRemaining)
	}
	if state.AllowanceUsed != 0 {
		t.Errorf("Reset should clear the used counter, got %.2f", state.AllowanceUsed)
	}
}

func TestGainsTax_MonotonicallyIncreases(t *testing.T) {
	// Property: a larger gain never produces less tax
	cfg := TaxConfig{}
	gains := []float64{0, 1000, 2857, 5000, 10000, 50000, 100000}

	var previousTax float64
	for _, gain := range gains {
		state := &TaxState{}
		state.ResetAllowance(cfg)
		tax, _ := CalculateGainsTax(gain, cfg, state)
		if tax < previousTax {
			t.Errorf("Tax decreased from %.2f to %.2f when gain increased to %.0f",
				previousTax, tax, gain)
		}
		previousTax = tax
	}
}

func TestGainsTax_CustomRates(t *testing.T) {
	cfg := TaxConfig{
		CapitalGainsRate: 0.25,
		PartialExemption: 0.15,
		AnnualAllowance:  1000,
	}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	tax, _ := CalculateGainsTax(10000, cfg, state)

	// 10000 * 0.85 = 8500 taxable, minus 1000 allowance -> 7500 * 0.25
	if !approxEqual(tax, 1875, 0.01) {
		t.Errorf("Expected 1875.00, got %.2f", tax)
	}
}

// =============================================================================
// Advance Levy (Vorabpauschale)
// =============================================================================

func TestAdvanceLevy_DisabledByDefault(t *testing.T) {
	cfg := TaxConfig{}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	tax, basis := CalculateAdvanceLevy(500000, 25000, 12, cfg, state)
	if tax != 0 || basis != 0 {
		t.Errorf("Levy should be disabled by default, got tax %.2f basis %.2f", tax, basis)
	}
}

func TestAdvanceLevy_BasisFormula(t *testing.T) {
	// Basis = capital x Basiszins x 0.7 for a full year
	cfg := TaxConfig{EnableAdvanceLevy: true}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	_, basis := CalculateAdvanceLevy(500000, 25000, 12, cfg, state)

	expected := 500000 * DefaultBaseInterestRate * 0.7
	if !approxEqual(basis, expected, 0.01) {
		t.Errorf("Expected basis %.2f, got %.2f", expected, basis)
	}
	if !approxEqual(state.AccumulatedAdvanceLevy, expected, 0.01) {
		t.Errorf("Basis should accumulate in the state, got %.2f", state.AccumulatedAdvanceLevy)
	}
}

func TestAdvanceLevy_MonthProration(t *testing.T) {
	// Property: holding the position for 6 months halves the basis
	cfg := TaxConfig{EnableAdvanceLevy: true}

	stateFull := &TaxState{}
	stateFull.ResetAllowance(cfg)
	_, basisFull := CalculateAdvanceLevy(500000, 25000, 12, cfg, stateFull)

	stateHalf := &TaxState{}
	stateHalf.ResetAllowance(cfg)
	_, basisHalf := CalculateAdvanceLevy(500000, 25000, 6, cfg, stateHalf)

	if !approxEqual(basisHalf, basisFull/2, 0.01) {
		t.Errorf("Half-year basis %.2f is not half the full-year basis %.2f", basisHalf, basisFull)
	}
}

func TestAdvanceLevy_CappedAtActualGain(t *testing.T) {
	// Property: the levy basis never exceeds the gain of the year
	cfg := TaxConfig{EnableAdvanceLevy: true}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	_, basis := CalculateAdvanceLevy(500000, 1000, 12, cfg, state)

	if basis > 1000 {
		t.Errorf("Basis %.2f exceeds the actual gain 1000", basis)
	}
	if !approxEqual(basis, 1000, 0.01) {
		t.Errorf("Expected basis capped at 1000, got %.2f", basis)
	}
}

func TestAdvanceLevy_NoLevyInLossYears(t *testing.T) {
	cfg := TaxConfig{EnableAdvanceLevy: true}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	tax, basis := CalculateAdvanceLevy(500000, -20000, 12, cfg, state)
	if tax != 0 || basis != 0 {
		t.Errorf("Loss year should carry no levy, got tax %.2f basis %.2f", tax, basis)
	}
}

func TestAdvanceLevy_CreditedAgainstLaterGains(t *testing.T) {
	// Property: basis already taxed via the levy is not taxed again when the
	// gain is realized
	cfg := TaxConfig{EnableAdvanceLevy: true, AnnualAllowance: 1}
	state := &TaxState{}
	state.ResetAllowance(cfg)

	_, basis := CalculateAdvanceLevy(500000, 25000, 12, cfg, state)
	if basis <= 0 {
		t.Fatalf("Expected a positive levy basis")
	}

	// Next year: realize a gain equal to the accumulated basis
	state.ResetAllowance(cfg)
	accumulated := state.AccumulatedAdvanceLevy
	tax, _ := CalculateGainsTax(accumulated, cfg, state)

	// Taxable = accumulated * 0.7, fully covered by the credit
	if tax > 0.30 {
		t.Errorf("Realized gain covered by the levy credit should be near tax-free, got %.2f", tax)
	}
	if state.AccumulatedAdvanceLevy >= accumulated {
		t.Errorf("Credit should reduce the accumulated basis, still %.2f", state.AccumulatedAdvanceLevy)
	}
}

// =============================================================================
// Income Tax (Grundfreibetrag mode)
// =============================================================================

func TestIncomeTax_BelowBasicAllowance(t *testing.T) {
	// Property: withdrawals under the basic allowance are tax-free
	tax := CalculateIncomeTax(10000, 2035, 0.25, nil)
	if tax != 0 {
		t.Errorf("Withdrawal below Grundfreibetrag should be tax-free, got %.2f", tax)
	}
}

func TestIncomeTax_AboveBasicAllowance(t *testing.T) {
	tax := CalculateIncomeTax(30000, 2035, 0.25, nil)
	expected := (30000 - DefaultBasicAllowance) * 0.25
	if !approxEqual(tax, expected, 0.01) {
		t.Errorf("Expected %.2f, got %.2f", expected, tax)
	}
}

func TestIncomeTax_PerYearAllowanceOverride(t *testing.T) {
	allowances := map[int]float64{2035: 12500}

	taxOverridden := CalculateIncomeTax(30000, 2035, 0.25, allowances)
	taxDefault := CalculateIncomeTax(30000, 2036, 0.25, allowances)

	if !approxEqual(taxOverridden, (30000-12500)*0.25, 0.01) {
		t.Errorf("Year with override: expected %.2f, got %.2f", (30000-12500)*0.25, taxOverridden)
	}
	// Years without an entry fall back to the default allowance
	if !approxEqual(taxDefault, (30000-DefaultBasicAllowance)*0.25, 0.01) {
		t.Errorf("Year without override should use the default allowance, got %.2f", taxDefault)
	}
}

func TestIncomeTax_ZeroRateZeroTax(t *testing.T) {
	if tax := CalculateIncomeTax(100000, 2035, 0, nil); tax != 0 {
		t.Errorf("Zero tax rate should produce zero tax, got %.2f", tax)
	}
}
