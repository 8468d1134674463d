package main

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ComparisonResult summarizes one plan variant's full simulation
type ComparisonResult struct {
	Strategy       WithdrawalStrategy `json:"-"`
	StrategyName   string             `json:"strategy"`
	FinalCapital   float64            `json:"final_capital"`
	TotalWithdrawn float64            `json:"total_withdrawn"`
	TotalTax       float64            `json:"total_tax"`
	TotalInsurance float64            `json:"total_insurance"`
	Exhausted      bool               `json:"exhausted"`
	ExhaustedYear  int                `json:"exhausted_year,omitempty"`
	Err            error              `json:"-"`
}

// comparisonStrategies are the variants evaluated side by side. Fixed-monthly
// is excluded: it needs a user-chosen amount and has no sensible derived
// default.
var comparisonStrategies = []struct {
	strategy WithdrawalStrategy
	key      string
	dynamic  *DynamicConfig
}{
	{StrategyFixed3Percent, "fixed3", nil},
	{StrategyFixed4Percent, "fixed4", nil},
	{StrategyDynamicThreshold, "dynamic", &DynamicConfig{
		BaseWithdrawalRate:       0.04,
		UpperThresholdReturn:     0.08,
		UpperThresholdAdjustment: 0.05,
		LowerThresholdReturn:     -0.02,
		LowerThresholdAdjustment: 0.05,
	}},
	{StrategyRMD, "rmd", nil},
	{StrategyTaxOptimized, "tax_optimized", nil},
}

// RunPlanComparison runs one whole-plan simulation per withdrawal strategy,
// applying the strategy to every segment of a cloned plan. Whole runs are
// embarrassingly parallel: each goroutine owns its clone and its own seeded
// return model state, so nothing mutable is shared and seeded reproducibility
// holds regardless of how many runs share the process.
func RunPlanComparison(cfg *Config, log zerolog.Logger) []ComparisonResult {
	results := make([]ComparisonResult, len(comparisonStrategies))

	var wg sync.WaitGroup
	for i, variant := range comparisonStrategies {
		wg.Add(1)
		go func(idx int, strategy WithdrawalStrategy, key string, dynamic *DynamicConfig) {
			defer wg.Done()

			clone, err := cfg.Clone()
			if err != nil {
				results[idx] = ComparisonResult{Strategy: strategy, StrategyName: strategy.String(), Err: err}
				return
			}
			for _, seg := range clone.Segments {
				seg.Strategy = key
				seg.Dynamic = dynamic
				if strategy == StrategyTaxOptimized && seg.TaxOptimized == nil {
					seg.TaxOptimized = &TaxOptimizedConfig{}
				}
			}

			result, err := RunWithdrawalPlan(clone)
			if err != nil {
				results[idx] = ComparisonResult{Strategy: strategy, StrategyName: strategy.String(), Err: err}
				return
			}

			results[idx] = ComparisonResult{
				Strategy:       strategy,
				StrategyName:   strategy.String(),
				FinalCapital:   result.FinalCapital,
				TotalWithdrawn: result.TotalWithdrawn,
				TotalTax:       result.TotalTax,
				TotalInsurance: result.TotalInsurance,
				Exhausted:      result.Exhausted,
				ExhaustedYear:  result.ExhaustedYear,
			}
			log.Debug().
				Str("strategy", strategy.String()).
				Float64("final_capital", result.FinalCapital).
				Bool("exhausted", result.Exhausted).
				Msg("comparison run finished")
		}(i, variant.strategy, variant.key, variant.dynamic)
	}
	wg.Wait()

	return results
}

// BestComparisonResult picks the best variant: highest final capital among
// runs that do not exhaust, otherwise the one that lasts longest
func BestComparisonResult(results []ComparisonResult) *ComparisonResult {
	candidates := make([]ComparisonResult, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Exhausted != b.Exhausted {
			return !a.Exhausted
		}
		if a.Exhausted && b.Exhausted && a.ExhaustedYear != b.ExhaustedYear {
			return a.ExhaustedYear > b.ExhaustedYear
		}
		return a.FinalCapital > b.FinalCapital
	})

	best := candidates[0]
	return &best
}
