package main

import (
	"fmt"
	"strings"
)

// buildReturnModels constructs the runtime return model for every segment up
// front so configuration problems surface before the first simulated year
func buildReturnModels(segments []*WithdrawalSegment) (map[string]*ReturnModel, error) {
	models := make(map[string]*ReturnModel, len(segments))
	for _, seg := range segments {
		model, err := NewReturnModel(seg.Returns)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", seg.Name, err)
		}
		models[seg.ID] = model
	}
	return models, nil
}

// RunWithdrawalPlan simulates the plan year by year from the global start to
// the global end and returns the full trajectory.
//
// The loop is strictly sequential: each year's computation depends on the
// previous year's closing capital. Per year, the owning segment's return
// model produces a rate (replaced by the scenario overlay when active), the
// strategy engine produces the gross withdrawal, the tax and insurance
// overlays produce deductions, and everything folds into the next year's
// opening capital. Running out of capital is a normal terminal state, not an
// error: trailing years carry zero capital and the result is flagged with the
// exhaustion year.
func RunWithdrawalPlan(cfg *Config) (*PlanResult, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid plan: %s", strings.Join(errs, "; "))
	}

	segments := sortedByStartYear(cfg.Segments)
	models, err := buildReturnModels(segments)
	if err != nil {
		return nil, err
	}

	states := make(map[string]*StrategyState, len(segments))
	for _, seg := range segments {
		states[seg.ID] = NewStrategyState(seg)
	}

	overlay := cfg.ScenarioOverlayFromConfig()
	taxState := &TaxState{}

	result := &PlanResult{
		Years: make([]YearResult, 0, cfg.Simulation.EndYear-cfg.Simulation.StartYear+1),
	}

	capital := cfg.Simulation.InitialCapital
	inflationIndex := 1.0 // Cumulative since the plan's first year
	prevReturn := 0.0
	firstYear := true

	for year := cfg.Simulation.StartYear; year <= cfg.Simulation.EndYear; year++ {
		seg := FindSegmentForYear(segments, year)
		model := models[seg.ID]

		rate := model.RateForYear(year)
		inflation := seg.InflationRate()
		if override, ok := overlay[year]; ok {
			if override.ReturnRate != nil {
				rate = *override.ReturnRate
			}
			if override.InflationRate != nil {
				inflation = *override.InflationRate
			}
		}

		opening := capital
		returnAmount := opening * rate

		// The annual tax allowance renews every calendar year and is shared
		// across the advance levy and the realized gains
		taxState.ResetAllowance(cfg.Tax)

		monthsHeld := 12
		if year == seg.StartYear && seg.FirstYearMonths > 0 {
			monthsHeld = seg.FirstYearMonths
		}
		levyTax, levyBasis := CalculateAdvanceLevy(opening, returnAmount, monthsHeld, cfg.Tax, taxState)

		ctx := WithdrawalContext{
			Year:           year,
			PrevCapital:    opening,
			PrevYearReturn: prevReturn,
			BirthYear:      cfg.Person.BirthYear,
			ExpectedReturn: model.AverageReturn(),
			InflationRate:  inflation,
			TaxConfig:      cfg.Tax,
			TaxState:       *taxState,
		}
		if firstYear {
			// No realized prior-year return yet; guardrail and threshold
			// strategies stay at their base amount
			ctx.PrevYearReturn = 0
		}
		requested := CalculateWithdrawal(seg, states[seg.ID], ctx)

		available := opening + returnAmount
		withdrawal, shortfall := clipWithdrawal(requested, available)

		var tax float64
		if seg.EnableGrundfreibetrag {
			tax = levyTax + CalculateIncomeTax(withdrawal, year, seg.IncomeTaxRate, seg.GrundfreibetragPerYear)
		} else {
			gain := returnAmount
			if gain < 0 {
				gain = 0
			}
			gainsTax, _ := CalculateGainsTax(gain, cfg.Tax, taxState)
			tax = levyTax + gainsTax
		}

		var insurance InsuranceResult
		if cfg.Couple != nil {
			insurance = CalculateCoupleInsurance(cfg.Insurance, *cfg.Couple, withdrawal, year)
		} else {
			insurance = CalculateHealthCareInsurance(cfg.Insurance, withdrawal, year, cfg.Person.BirthYear, cfg.Person.Childless)
		}

		closing := available - withdrawal - tax - insurance.Annual
		if closing < 0 {
			closing = 0
			shortfall = true
		}

		if shortfall && closing == 0 && !result.Exhausted {
			result.Exhausted = true
			result.ExhaustedYear = year
		}

		yr := YearResult{
			Year:               year,
			SegmentID:          seg.ID,
			StartCapital:       opening,
			ReturnRate:         rate,
			ReturnAmount:       returnAmount,
			Withdrawal:         withdrawal,
			Tax:                tax,
			AllowanceUsed:      taxState.AllowanceUsed,
			AdvanceLevy:        levyBasis,
			Insurance:          insurance.Annual,
			InsuranceMonthly:   insurance.Monthly,
			CoupleStrategyUsed: insurance.UsedStrategy,
			EndCapital:         closing,
			InflationRate:      inflation,
			RealStartCapital:   opening / inflationIndex,
			RealReturnAmount:   returnAmount / inflationIndex,
			RealWithdrawal:     withdrawal / inflationIndex,
			RealEndCapital:     closing / inflationIndex,
			Shortfall:          shortfall,
		}
		result.Years = append(result.Years, yr)
		result.TotalWithdrawn += withdrawal
		result.TotalTax += tax
		result.TotalInsurance += insurance.Annual

		capital = closing
		prevReturn = rate
		inflationIndex *= 1 + inflation
		firstYear = false
	}

	result.FinalCapital = capital
	return result, nil
}
