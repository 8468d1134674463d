package main

import (
	"math"
	"testing"
)

// fixedGrowthConfig builds a minimal valid single-segment plan: fixed return
// rate, zero withdrawal, no tax, no insurance. Tests layer the behavior they
// exercise on top of this base.
func fixedGrowthConfig(startYear, endYear int, capital, rate float64) *Config {
	seg := NewWithdrawalSegment("main", "Main Phase", startYear, endYear)
	seg.Strategy = "variable"
	seg.CustomPercentage = 0
	seg.Returns = ReturnConfig{Mode: "fixed", FixedRate: rate}
	// Income-tax mode with a zero rate disables taxation entirely
	seg.EnableGrundfreibetrag = true
	seg.IncomeTaxRate = 0

	return &Config{
		Simulation: SimulationConfig{
			StartYear:      startYear,
			EndYear:        endYear,
			InitialCapital: capital,
		},
		Segments: []*WithdrawalSegment{seg},
	}
}

// =============================================================================
// Core Simulation Properties
// =============================================================================

func TestSimulation_CompoundGrowthWithoutWithdrawals(t *testing.T) {
	// Property: with zero withdrawals, no tax and no insurance, the final
	// capital is exactly initial * (1+r)^n
	cfg := fixedGrowthConfig(2030, 2039, 100000, 0.05)

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	expected := 100000 * math.Pow(1.05, 10)
	if !approxEqual(result.FinalCapital, expected, 0.01) {
		t.Errorf("Expected final capital %.2f, got %.2f", expected, result.FinalCapital)
	}
	if result.Exhausted {
		t.Error("A withdrawal-free plan must never exhaust")
	}
	if len(result.Years) != 10 {
		t.Errorf("Expected 10 simulated years, got %d", len(result.Years))
	}
}

func TestSimulation_YearAccountingIdentity(t *testing.T) {
	// Property: for every non-shortfall year,
	// end = start + return - withdrawal - tax - insurance
	cfg := fixedGrowthConfig(2030, 2049, 500000, 0.04)
	cfg.Segments[0].Strategy = "fixed4"
	cfg.Segments[0].EnableGrundfreibetrag = false
	cfg.Insurance = InsuranceConfig{Enabled: true, Type: "statutory"}
	cfg.Person = PersonConfig{BirthYear: 1975}

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	for _, y := range result.Years {
		if y.Shortfall {
			continue
		}
		balance := y.StartCapital + y.ReturnAmount - y.Withdrawal - y.Tax - y.Insurance
		if !approxEqual(balance, y.EndCapital, 0.01) {
			t.Errorf("Year %d: accounting identity violated: %.2f != %.2f",
				y.Year, balance, y.EndCapital)
		}
	}
}

func TestSimulation_CapitalNeverNegative(t *testing.T) {
	cfg := fixedGrowthConfig(2030, 2049, 50000, 0.02)
	cfg.Segments[0].Strategy = "monthly"
	cfg.Segments[0].Monthly = &MonthlyConfig{MonthlyAmount: 3000}

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	for _, y := range result.Years {
		if y.EndCapital < 0 || y.StartCapital < 0 {
			t.Errorf("Year %d: negative capital (start %.2f, end %.2f)",
				y.Year, y.StartCapital, y.EndCapital)
		}
	}
}

func TestSimulation_ExhaustionIsTerminalNotFatal(t *testing.T) {
	// Property: running out of capital flags the result and continues with an
	// all-zero tail instead of aborting
	cfg := fixedGrowthConfig(2030, 2039, 20000, 0.0)
	cfg.Segments[0].Strategy = "monthly"
	cfg.Segments[0].Monthly = &MonthlyConfig{MonthlyAmount: 5000} // 60000/year

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Exhaustion must not be an error: %v", err)
	}

	if !result.Exhausted {
		t.Fatal("Plan should be flagged as exhausted")
	}
	if result.ExhaustedYear != 2030 {
		t.Errorf("Expected exhaustion in 2030, got %d", result.ExhaustedYear)
	}
	if len(result.Years) != 10 {
		t.Errorf("Simulation should run the full horizon, got %d years", len(result.Years))
	}

	first := result.Years[0]
	if !first.Shortfall {
		t.Error("The exhaustion year should be marked as a shortfall")
	}
	if !approxEqual(first.Withdrawal, 20000, 0.01) {
		t.Errorf("Withdrawal should be clipped to available capital, got %.2f", first.Withdrawal)
	}
	for _, y := range result.Years[1:] {
		if y.StartCapital != 0 || y.EndCapital != 0 || y.Withdrawal != 0 {
			t.Errorf("Year %d after exhaustion should be all zero", y.Year)
		}
	}
}

func TestSimulation_SegmentBoundaryCarriesCapitalOver(t *testing.T) {
	// Property: the first year of a segment opens with the previous segment's
	// closing capital
	cfg := fixedGrowthConfig(2030, 2039, 100000, 0.05)
	second := NewWithdrawalSegment("late", "Late Phase", 2035, 2039)
	second.Strategy = "variable"
	second.CustomPercentage = 0
	second.Returns = ReturnConfig{Mode: "fixed", FixedRate: 0.02}
	second.EnableGrundfreibetrag = true
	cfg.Segments[0].EndYear = 2034
	cfg.Segments = append(cfg.Segments, second)

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	var lastOfFirst, firstOfSecond *YearResult
	for i := range result.Years {
		switch result.Years[i].Year {
		case 2034:
			lastOfFirst = &result.Years[i]
		case 2035:
			firstOfSecond = &result.Years[i]
		}
	}
	if lastOfFirst == nil || firstOfSecond == nil {
		t.Fatal("Boundary years missing from the trajectory")
	}
	if lastOfFirst.SegmentID != "main" || firstOfSecond.SegmentID != "late" {
		t.Errorf("Segment attribution wrong at the boundary: %s / %s",
			lastOfFirst.SegmentID, firstOfSecond.SegmentID)
	}
	if !approxEqual(firstOfSecond.StartCapital, lastOfFirst.EndCapital, 0.01) {
		t.Errorf("Capital not carried over: %.2f -> %.2f",
			lastOfFirst.EndCapital, firstOfSecond.StartCapital)
	}
	if firstOfSecond.ReturnRate != 0.02 {
		t.Errorf("Second segment should use its own return model, got %.3f", firstOfSecond.ReturnRate)
	}
}

func TestSimulation_TotalsMatchYearSums(t *testing.T) {
	cfg := fixedGrowthConfig(2030, 2044, 400000, 0.04)
	cfg.Segments[0].Strategy = "fixed3"
	cfg.Segments[0].EnableGrundfreibetrag = false
	cfg.Insurance = InsuranceConfig{Enabled: true, Type: "statutory"}

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	var withdrawn, tax, insurance float64
	for _, y := range result.Years {
		withdrawn += y.Withdrawal
		tax += y.Tax
		insurance += y.Insurance
	}
	if !approxEqual(result.TotalWithdrawn, withdrawn, 0.01) {
		t.Errorf("TotalWithdrawn %.2f != sum of years %.2f", result.TotalWithdrawn, withdrawn)
	}
	if !approxEqual(result.TotalTax, tax, 0.01) {
		t.Errorf("TotalTax %.2f != sum of years %.2f", result.TotalTax, tax)
	}
	if !approxEqual(result.TotalInsurance, insurance, 0.01) {
		t.Errorf("TotalInsurance %.2f != sum of years %.2f", result.TotalInsurance, insurance)
	}
	if !approxEqual(result.FinalCapital, result.Years[len(result.Years)-1].EndCapital, 0.01) {
		t.Error("FinalCapital should equal the last year's closing capital")
	}
}

func TestSimulation_InflationAdjustedValues(t *testing.T) {
	// Property: real values deflate by the cumulative index from plan start;
	// the first year is undeflated
	cfg := fixedGrowthConfig(2030, 2034, 100000, 0.05)
	cfg.Segments[0].Inflation = &InflationConfig{InflationRate: 0.02}

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	first := result.Years[0]
	if !approxEqual(first.RealStartCapital, first.StartCapital, 0.01) {
		t.Errorf("First-year real capital should equal nominal, got %.2f vs %.2f",
			first.RealStartCapital, first.StartCapital)
	}

	third := result.Years[2]
	expected := third.EndCapital / (1.02 * 1.02)
	if !approxEqual(third.RealEndCapital, expected, 0.01) {
		t.Errorf("Third-year real capital: expected %.2f, got %.2f", expected, third.RealEndCapital)
	}
}

func TestSimulation_RejectsInvalidPlan(t *testing.T) {
	cfg := fixedGrowthConfig(2030, 2039, 100000, 0.05)
	cfg.Segments[0].EndYear = 2035 // leaves 2036-2039 uncovered

	if _, err := RunWithdrawalPlan(cfg); err == nil {
		t.Error("A plan with uncovered years must be rejected")
	}
}

func TestSimulation_CoupleInsuranceUsedWhenConfigured(t *testing.T) {
	cfg := fixedGrowthConfig(2030, 2034, 600000, 0.04)
	cfg.Segments[0].Strategy = "fixed4"
	cfg.Insurance = InsuranceConfig{Enabled: true, Type: "statutory"}
	cfg.Couple = &CoupleConfig{
		Strategy: "optimize",
		Member1:  CoupleMemberConfig{Name: "A", BirthYear: 1970, WithdrawalShare: 1.0},
		Member2:  CoupleMemberConfig{Name: "B", BirthYear: 1972, WithdrawalShare: 0.0},
	}

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	for _, y := range result.Years {
		if y.CoupleStrategyUsed == "" {
			t.Errorf("Year %d: couple mode should report the applied arrangement", y.Year)
		}
		if y.Insurance <= 0 {
			t.Errorf("Year %d: expected a positive insurance contribution", y.Year)
		}
	}
}
