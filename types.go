package main

import "fmt"

// WithdrawalStrategy represents how the gross withdrawal for a year is determined
type WithdrawalStrategy int

const (
	StrategyFixed4Percent    WithdrawalStrategy = iota // Classic 4% rule
	StrategyFixed3Percent                              // Conservative 3% rule
	StrategyVariablePercent                            // User-defined percentage of capital
	StrategyFixedMonthly                               // Fixed monthly amount, optionally guardrail-adjusted
	StrategyDynamicThreshold                           // Base rate adjusted when prior-year return crosses thresholds
	StrategyRMD                                        // Required-minimum-distribution style, age-indexed
	StrategyTaxOptimized                               // Searches for the rate that best uses the tax allowance
)

func (s WithdrawalStrategy) String() string {
	switch s {
	case StrategyFixed4Percent:
		return "4% Rule"
	case StrategyFixed3Percent:
		return "3% Rule"
	case StrategyVariablePercent:
		return "Variable Percentage"
	case StrategyFixedMonthly:
		return "Fixed Monthly"
	case StrategyDynamicThreshold:
		return "Dynamic Threshold"
	case StrategyRMD:
		return "RMD (Age-Indexed)"
	case StrategyTaxOptimized:
		return "Tax Optimized"
	default:
		return "Unknown"
	}
}

// ShortName returns a compact label used in comparison tables
func (s WithdrawalStrategy) ShortName() string {
	switch s {
	case StrategyFixed4Percent:
		return "4pct"
	case StrategyFixed3Percent:
		return "3pct"
	case StrategyVariablePercent:
		return "VarPct"
	case StrategyFixedMonthly:
		return "Monthly"
	case StrategyDynamicThreshold:
		return "Dynamic"
	case StrategyRMD:
		return "RMD"
	case StrategyTaxOptimized:
		return "TaxOpt"
	default:
		return "Unknown"
	}
}

// ParseWithdrawalStrategy maps a config string to a strategy
func ParseWithdrawalStrategy(s string) (WithdrawalStrategy, error) {
	switch s {
	case "fixed4", "4percent", "":
		return StrategyFixed4Percent, nil
	case "fixed3", "3percent":
		return StrategyFixed3Percent, nil
	case "variable_percent", "variable":
		return StrategyVariablePercent, nil
	case "fixed_monthly", "monthly":
		return StrategyFixedMonthly, nil
	case "dynamic":
		return StrategyDynamicThreshold, nil
	case "rmd":
		return StrategyRMD, nil
	case "tax_optimized":
		return StrategyTaxOptimized, nil
	default:
		return StrategyFixed4Percent, fmt.Errorf("unknown withdrawal strategy %q", s)
	}
}

// ReturnMode represents how yearly returns are generated
type ReturnMode int

const (
	ReturnFixed      ReturnMode = iota // Constant rate every year
	ReturnRandom                       // Normal distribution draws (optionally seeded)
	ReturnVariable                     // Caller-supplied year -> rate map
	ReturnMultiAsset                   // Weighted blend of asset-class models
	ReturnHistorical                   // Annualized return of a market index
)

func (m ReturnMode) String() string {
	switch m {
	case ReturnFixed:
		return "Fixed"
	case ReturnRandom:
		return "Random (Normal)"
	case ReturnVariable:
		return "Variable"
	case ReturnMultiAsset:
		return "Multi-Asset"
	case ReturnHistorical:
		return "Historical Index"
	default:
		return "Unknown"
	}
}

// ParseReturnMode maps a config string to a return mode
func ParseReturnMode(s string) (ReturnMode, error) {
	switch s {
	case "fixed", "":
		return ReturnFixed, nil
	case "random":
		return ReturnRandom, nil
	case "variable":
		return ReturnVariable, nil
	case "multiasset", "multi_asset":
		return ReturnMultiAsset, nil
	case "historical":
		return ReturnHistorical, nil
	default:
		return ReturnFixed, fmt.Errorf("unknown return mode %q", s)
	}
}

// YearResult holds the complete outcome of simulating a single year.
// Immutable once produced; the simulation appends them in chronological order.
type YearResult struct {
	Year             int     `json:"year"`
	SegmentID        string  `json:"segment_id"`
	StartCapital     float64 `json:"start_capital"`
	ReturnRate       float64 `json:"return_rate"`
	ReturnAmount     float64 `json:"return_amount"`
	Withdrawal       float64 `json:"withdrawal"`
	Tax              float64 `json:"tax"`
	AllowanceUsed    float64 `json:"allowance_used"`
	AdvanceLevy      float64 `json:"advance_levy"`
	Insurance        float64 `json:"insurance"`
	InsuranceMonthly float64 `json:"insurance_monthly"`
	// Which couple insurance arrangement was actually used this year
	// ("individual", "family", or "" when not in couple mode)
	CoupleStrategyUsed string  `json:"couple_strategy_used,omitempty"`
	EndCapital         float64 `json:"end_capital"`
	InflationRate      float64 `json:"inflation_rate"`
	// Inflation-adjusted ("real") variants using the cumulative index from plan start
	RealStartCapital float64 `json:"real_start_capital"`
	RealReturnAmount float64 `json:"real_return_amount"`
	RealWithdrawal   float64 `json:"real_withdrawal"`
	RealEndCapital   float64 `json:"real_end_capital"`
	// True when the requested withdrawal could not be met from available capital
	Shortfall bool `json:"shortfall"`
}

// PlanResult holds the complete trajectory of a withdrawal plan simulation
type PlanResult struct {
	Years          []YearResult `json:"years"`
	Exhausted      bool         `json:"exhausted"`
	ExhaustedYear  int          `json:"exhausted_year,omitempty"`
	TotalWithdrawn float64      `json:"total_withdrawn"`
	TotalTax       float64      `json:"total_tax"`
	TotalInsurance float64      `json:"total_insurance"`
	FinalCapital   float64      `json:"final_capital"`
}

// CapitalSeries extracts the end-of-year capital values in chronological order
func (r *PlanResult) CapitalSeries() PortfolioData {
	years := make([]int, len(r.Years))
	values := make([]float64, len(r.Years))
	for i, y := range r.Years {
		years[i] = y.Year
		values[i] = y.EndCapital
	}
	return PortfolioData{Years: years, Values: values}
}

// MetricValue is a ratio that may be undefined (zero denominator).
// Undefined is reported explicitly so consumers can render "n/a" instead of
// a misleading 0.00.
type MetricValue struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// DefinedMetric wraps a computed ratio value
func DefinedMetric(v float64) MetricValue {
	return MetricValue{Value: v, Defined: true}
}

// UndefinedMetric marks a ratio whose denominator was zero
func UndefinedMetric() MetricValue {
	return MetricValue{}
}

func (m MetricValue) String() string {
	if !m.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// PortfolioData is the input series for risk metric calculations
type PortfolioData struct {
	Years        []int
	Values       []float64
	RiskFreeRate float64
}

// RiskMetrics is derived on demand from a value series, never stored
type RiskMetrics struct {
	ValueAtRisk95 float64     `json:"value_at_risk_95"`
	ValueAtRisk99 float64     `json:"value_at_risk_99"`
	MaxDrawdown   float64     `json:"max_drawdown"`
	Sharpe        MetricValue `json:"sharpe"`
	Sortino       MetricValue `json:"sortino"`
	Calmar        MetricValue `json:"calmar"`
	Volatility    float64     `json:"volatility"`
	MeanReturn    float64     `json:"mean_return"`
}

// ScenarioOverride replaces the base return and/or inflation rate for one year.
// A nil pointer means that dimension keeps its base value.
type ScenarioOverride struct {
	ReturnRate    *float64
	InflationRate *float64
}

// ScenarioOverlay maps absolute years to overrides. A nil overlay means no
// scenario is active (the explicit reset state).
type ScenarioOverlay map[int]ScenarioOverride
