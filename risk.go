package main

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PercentileScenario is one point of the five-scenario narrative derived from
// a return model's mean and volatility
type PercentileScenario struct {
	Percentile     int     `json:"percentile"`
	Name           string  `json:"name"`
	ZScore         float64 `json:"z_score"`
	ExpectedReturn float64 `json:"expected_return"`
}

// percentileTable holds the fixed z-score constants of the narrative. This is
// a closed-form normal-quantile approximation, not a sampled run, so the
// output is deterministic by construction, independent of any seed.
var percentileTable = []struct {
	percentile int
	name       string
	z          float64
}{
	{5, "Very Pessimistic", -1.645},
	{25, "Pessimistic", -0.674},
	{50, "Median", 0},
	{75, "Optimistic", 0.674},
	{95, "Very Optimistic", 1.645},
}

// CalculatePercentileScenarios computes the expected return at the
// 5/25/50/75/95 percentiles as mean + z * stdDev. For any positive stdDev
// the five outputs are strictly increasing.
func CalculatePercentileScenarios(averageReturn, standardDeviation float64) []PercentileScenario {
	scenarios := make([]PercentileScenario, 0, len(percentileTable))
	for _, row := range percentileTable {
		scenarios = append(scenarios, PercentileScenario{
			Percentile:     row.percentile,
			Name:           row.name,
			ZScore:         row.z,
			ExpectedReturn: averageReturn + row.z*standardDeviation,
		})
	}
	return scenarios
}

// periodReturns converts a value series to period returns, skipping periods
// that start from a zero value (an exhausted plan's all-zero tail)
func periodReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 {
			returns = append(returns, (values[i]-values[i-1])/values[i-1])
		}
	}
	return returns
}

// CalculateMaxDrawdown returns the largest peak-to-trough relative decline
// over the series, as a positive fraction (0.25 = -25% from peak)
func CalculateMaxDrawdown(values []float64) float64 {
	maxDrawdown := 0.0
	peak := math.Inf(-1)
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}

// analyticVaR derives the loss threshold not exceeded with the given
// confidence from the mean and volatility of the period returns (normal
// assumption), rather than by resampling. A series whose period returns are
// all non-negative has no loss scenario, so its VaR is zero.
func analyticVaR(returns []float64, mean, volatility, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	allNonNegative := true
	for _, r := range returns {
		if r < 0 {
			allNonNegative = false
			break
		}
	}
	if allNonNegative {
		return 0
	}
	z := distuv.UnitNormal.Quantile(1 - confidence)
	loss := -(mean + z*volatility)
	if loss < 0 {
		return 0
	}
	return loss
}

// annualizedReturn computes the compound growth rate of the series
func annualizedReturn(values []float64) float64 {
	if len(values) < 2 || values[0] <= 0 || values[len(values)-1] <= 0 {
		return 0
	}
	years := float64(len(values) - 1)
	return math.Pow(values[len(values)-1]/values[0], 1/years) - 1
}

// CalculateRiskMetrics derives the full risk snapshot from a value series.
// Always a fresh computation; nothing is cached or mutated. Ratios with a
// zero denominator are reported as undefined, distinct from zero, so
// consumers can render "n/a" instead of a misleading 0.00.
func CalculateRiskMetrics(data PortfolioData) *RiskMetrics {
	returns := periodReturns(data.Values)

	metrics := &RiskMetrics{
		Sharpe:  UndefinedMetric(),
		Sortino: UndefinedMetric(),
		Calmar:  UndefinedMetric(),
	}
	if len(returns) == 0 {
		return metrics
	}

	mean := stat.Mean(returns, nil)
	volatility := 0.0
	if len(returns) > 1 {
		volatility = stat.StdDev(returns, nil)
	}
	metrics.MeanReturn = mean
	metrics.Volatility = volatility

	metrics.ValueAtRisk95 = analyticVaR(returns, mean, volatility, 0.95)
	metrics.ValueAtRisk99 = analyticVaR(returns, mean, volatility, 0.99)
	metrics.MaxDrawdown = CalculateMaxDrawdown(data.Values)

	excess := mean - data.RiskFreeRate

	if volatility > 0 {
		metrics.Sharpe = DefinedMetric(excess / volatility)
	}

	// Downside deviation considers only returns below the risk-free target
	downsideSumSq := 0.0
	for _, r := range returns {
		if r < data.RiskFreeRate {
			d := r - data.RiskFreeRate
			downsideSumSq += d * d
		}
	}
	downsideDev := math.Sqrt(downsideSumSq / float64(len(returns)))
	if downsideDev > 0 {
		metrics.Sortino = DefinedMetric(excess / downsideDev)
	}

	if metrics.MaxDrawdown > 0 {
		metrics.Calmar = DefinedMetric(annualizedReturn(data.Values) / metrics.MaxDrawdown)
	}

	return metrics
}
