package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// FormatMoney formats a float as a currency string
func FormatMoney(amount float64) string {
	if amount >= 1000000 {
		return fmt.Sprintf("€%.2fM", amount/1000000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("€%.0fk", amount/1000)
	}
	return fmt.Sprintf("€%.0f", amount)
}

// FormatMoneyFull formats a float as full currency (no abbreviation)
func FormatMoneyFull(amount float64) string {
	return fmt.Sprintf("€%.0f", amount)
}

// PrintHeader prints the plan configuration header
func PrintHeader(config *Config) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                 SEGMENTED WITHDRAWAL PLAN SIMULATION                         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Plan:")
	fmt.Println("─────")
	fmt.Printf("  Horizon: %d-%d | Initial Capital: %s\n",
		config.Simulation.StartYear, config.Simulation.EndYear,
		FormatMoney(config.Simulation.InitialCapital))
	if config.Person.BirthYear > 0 {
		fmt.Printf("  %s: Born %d\n", config.Person.Name, config.Person.BirthYear)
	}

	for _, seg := range sortedByStartYear(config.Segments) {
		strategy, _ := ParseWithdrawalStrategy(seg.Strategy)
		mode, _ := ParseReturnMode(seg.Returns.Mode)
		fmt.Printf("  Segment %-16s %d-%d  %s, %s returns",
			fmt.Sprintf("%q:", seg.Name), seg.StartYear, seg.EndYear, strategy, mode)
		if seg.Inflation != nil {
			fmt.Printf(", %.1f%% inflation", seg.Inflation.InflationRate*100)
		}
		fmt.Println()
	}

	if config.Scenario != nil && config.Scenario.Enabled {
		if s := GetStressScenarioByID(config.Scenario.ID); s != nil {
			fmt.Printf("  Stress Scenario: %s from %d (%d years)\n",
				s.Name, config.Scenario.StartYear, s.Duration)
		}
	}
	if config.Couple != nil {
		fmt.Printf("  Couple Insurance: %s / %s (strategy: %s)\n",
			config.Couple.Member1.Name, config.Couple.Member2.Name, config.Couple.Strategy)
	}
	fmt.Println()
}

// PrintSummary prints the headline numbers of a simulation
func PrintSummary(result *PlanResult) {
	fmt.Println("Summary:")
	fmt.Println("────────")
	fmt.Printf("  Total Withdrawn: %s | Total Tax: %s | Total Insurance: %s\n",
		FormatMoney(result.TotalWithdrawn), FormatMoney(result.TotalTax), FormatMoney(result.TotalInsurance))
	fmt.Printf("  Final Capital:   %s\n", FormatMoney(result.FinalCapital))
	if result.Exhausted {
		fmt.Printf("  ⚠ Ran out of capital in year %d\n", result.ExhaustedYear)
	}
	fmt.Println()
}

// PrintYearDetails prints the year-by-year trajectory table
func PrintYearDetails(result *PlanResult) {
	fmt.Println("Year    Start Capital    Return    Withdrawal         Tax   Insurance   End Capital")
	fmt.Println(strings.Repeat("─", 86))
	for _, y := range result.Years {
		marker := " "
		if y.Shortfall {
			marker = "!"
		}
		fmt.Printf("%d%s %15s  %7.2f%% %13s %11s %11s %13s\n",
			y.Year, marker,
			FormatMoneyFull(y.StartCapital),
			y.ReturnRate*100,
			FormatMoneyFull(y.Withdrawal),
			FormatMoneyFull(y.Tax),
			FormatMoneyFull(y.Insurance),
			FormatMoneyFull(y.EndCapital))
	}
	fmt.Println()
}

// PrintRiskMetrics prints the risk snapshot
func PrintRiskMetrics(metrics *RiskMetrics) {
	fmt.Println("Risk Metrics:")
	fmt.Println("─────────────")
	fmt.Printf("  Mean Return: %.2f%% | Volatility: %.2f%%\n",
		metrics.MeanReturn*100, metrics.Volatility*100)
	fmt.Printf("  VaR 95%%: %.2f%% | VaR 99%%: %.2f%% | Max Drawdown: %.2f%%\n",
		metrics.ValueAtRisk95*100, metrics.ValueAtRisk99*100, metrics.MaxDrawdown*100)
	fmt.Printf("  Sharpe: %s | Sortino: %s | Calmar: %s\n",
		metrics.Sharpe, metrics.Sortino, metrics.Calmar)
	fmt.Println()
}

// PrintPercentileScenarios prints the five-scenario narrative
func PrintPercentileScenarios(scenarios []PercentileScenario) {
	fmt.Println("Return Percentile Scenarios:")
	fmt.Println("────────────────────────────")
	for _, s := range scenarios {
		fmt.Printf("  %3d%% (%-16s): %+.2f%%\n", s.Percentile, s.Name, s.ExpectedReturn*100)
	}
	fmt.Println()
}

// PrintComparison prints the side-by-side strategy comparison
func PrintComparison(results []ComparisonResult) {
	fmt.Println("Strategy Comparison:")
	fmt.Println("────────────────────")
	fmt.Println("Strategy              Final Capital   Withdrawn         Tax    Lasts")
	fmt.Println(strings.Repeat("─", 70))
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-20s  failed: %v\n", r.StrategyName, r.Err)
			continue
		}
		lasts := "full horizon"
		if r.Exhausted {
			lasts = fmt.Sprintf("until %d", r.ExhaustedYear)
		}
		fmt.Printf("%-20s %14s %11s %11s   %s\n",
			r.StrategyName,
			FormatMoney(r.FinalCapital),
			FormatMoney(r.TotalWithdrawn),
			FormatMoney(r.TotalTax),
			lasts)
	}
	if best := BestComparisonResult(results); best != nil {
		fmt.Printf("\nBest strategy: %s\n\n", best.StrategyName)
	}
}

// PrintValidationErrors prints the validation error list
func PrintValidationErrors(errors []string) {
	fmt.Println("Plan validation failed:")
	for _, e := range errors {
		fmt.Printf("  - %s\n", e)
	}
}

// jsonExport is the on-disk shape of a full simulation export
type jsonExport struct {
	Result      *PlanResult          `json:"result"`
	RiskMetrics *RiskMetrics         `json:"risk_metrics,omitempty"`
	Percentiles []PercentileScenario `json:"percentile_scenarios,omitempty"`
}

// WriteResultJSON exports the trajectory (plus optional analytics) as JSON
func WriteResultJSON(filename string, result *PlanResult, metrics *RiskMetrics, percentiles []PercentileScenario) error {
	data, err := json.MarshalIndent(jsonExport{
		Result:      result,
		RiskMetrics: metrics,
		Percentiles: percentiles,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
