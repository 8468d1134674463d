package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// RandomReturnConfig parameterizes the normal-distribution return mode.
// A nil Seed means process-entropy seeding (runs are not reproducible).
type RandomReturnConfig struct {
	AverageReturn     float64 `yaml:"average_return" json:"average_return"`
	StandardDeviation float64 `yaml:"standard_deviation" json:"standard_deviation"`
	Seed              *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// AssetClassConfig is one component of a multi-asset blend
type AssetClassConfig struct {
	Name              string  `yaml:"name" json:"name"`
	Weight            float64 `yaml:"weight" json:"weight"`
	AverageReturn     float64 `yaml:"average_return" json:"average_return"`
	StandardDeviation float64 `yaml:"standard_deviation" json:"standard_deviation"`
}

// HistoricalReturnConfig selects a market index and averaging period
type HistoricalReturnConfig struct {
	IndexID     string `yaml:"index_id" json:"index_id"`
	PeriodYears int    `yaml:"period_years" json:"period_years"`
}

// ReturnConfig selects and parameterizes a return model for a segment
type ReturnConfig struct {
	Mode            string                  `yaml:"mode" json:"mode"`
	FixedRate       float64                 `yaml:"fixed_rate" json:"fixed_rate"`
	Random          *RandomReturnConfig     `yaml:"random,omitempty" json:"random,omitempty"`
	VariableReturns map[int]float64         `yaml:"variable_returns,omitempty" json:"variable_returns,omitempty"`
	Assets          []AssetClassConfig      `yaml:"assets,omitempty" json:"assets,omitempty"`
	Historical      *HistoricalReturnConfig `yaml:"historical,omitempty" json:"historical,omitempty"`
}

// ValidateAssetWeights checks that multi-asset weights sum to 1.0.
// Called from the validation surface, never at draw time.
func ValidateAssetWeights(assets []AssetClassConfig) error {
	if len(assets) == 0 {
		return fmt.Errorf("multi-asset return model has no asset classes")
	}
	sum := 0.0
	for _, a := range assets {
		if a.Weight < 0 {
			return fmt.Errorf("asset class %q has negative weight %.4f", a.Name, a.Weight)
		}
		sum += a.Weight
	}
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("asset class weights sum to %.4f, expected 1.0", sum)
	}
	return nil
}

// assetModel is the runtime state for one asset class in a blend
type assetModel struct {
	weight float64
	mean   float64
	dist   *distuv.Normal // nil when StandardDeviation is zero
}

// ReturnModel produces a yearly return rate for a segment. Random draws use
// an instance-scoped generator, so concurrent simulations sharing a process
// never perturb each other's sequences.
type ReturnModel struct {
	mode      ReturnMode
	fixedRate float64
	dist      *distuv.Normal
	variable  map[int]float64
	assets    []assetModel
	drawCache map[int]float64
}

// NewReturnModel builds the runtime model from a segment's return config
func NewReturnModel(cfg ReturnConfig) (*ReturnModel, error) {
	mode, err := ParseReturnMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	m := &ReturnModel{
		mode:      mode,
		fixedRate: cfg.FixedRate,
		drawCache: make(map[int]float64),
	}

	switch mode {
	case ReturnRandom:
		rc := cfg.Random
		if rc == nil {
			return nil, fmt.Errorf("random return mode requires a random config")
		}
		dist := distuv.Normal{Mu: rc.AverageReturn, Sigma: rc.StandardDeviation}
		if rc.Seed != nil {
			dist.Src = rand.NewPCG(*rc.Seed, *rc.Seed)
		}
		m.dist = &dist
	case ReturnVariable:
		m.variable = cfg.VariableReturns
	case ReturnMultiAsset:
		if err := ValidateAssetWeights(cfg.Assets); err != nil {
			return nil, err
		}
		for i, a := range cfg.Assets {
			am := assetModel{weight: a.Weight, mean: a.AverageReturn}
			if a.StandardDeviation > 0 {
				dist := distuv.Normal{Mu: a.AverageReturn, Sigma: a.StandardDeviation}
				if cfg.Random != nil && cfg.Random.Seed != nil {
					// Each asset gets its own deterministic stream derived
					// from the base seed and its position in the blend.
					dist.Src = rand.NewPCG(*cfg.Random.Seed, uint64(i)+1)
				}
				am.dist = &dist
			}
			m.assets = append(m.assets, am)
		}
	case ReturnHistorical:
		hc := cfg.Historical
		if hc == nil {
			return nil, fmt.Errorf("historical return mode requires an index selection")
		}
		idx := GetMarketIndexByID(hc.IndexID)
		if idx == nil {
			return nil, fmt.Errorf("unknown market index %q", hc.IndexID)
		}
		m.fixedRate = GetReturnForPeriod(idx, hc.PeriodYears)
	}

	return m, nil
}

// RateForYear returns the yearly return rate as a signed fraction (0.05 = +5%).
//
// Variable mode: the configuration layer is expected to populate the map for
// every simulated year; a missing year falls back to 0.0.
//
// Random and multi-asset modes draw once per distinct year and cache the
// result, so repeated queries for the same year are stable within a run.
func (m *ReturnModel) RateForYear(year int) float64 {
	switch m.mode {
	case ReturnFixed, ReturnHistorical:
		return m.fixedRate
	case ReturnVariable:
		return m.variable[year]
	case ReturnRandom:
		if rate, ok := m.drawCache[year]; ok {
			return rate
		}
		rate := m.dist.Rand()
		m.drawCache[year] = rate
		return rate
	case ReturnMultiAsset:
		if rate, ok := m.drawCache[year]; ok {
			return rate
		}
		rate := 0.0
		for _, a := range m.assets {
			if a.dist != nil {
				rate += a.weight * a.dist.Rand()
			} else {
				rate += a.weight * a.mean
			}
		}
		m.drawCache[year] = rate
		return rate
	default:
		return 0
	}
}

// Mode returns the model's return mode
func (m *ReturnModel) Mode() ReturnMode {
	return m.mode
}

// AverageReturn returns the expected yearly return of the model. Used by the
// percentile scenario narrative and the tax-optimized strategy's gain
// estimate.
func (m *ReturnModel) AverageReturn() float64 {
	switch m.mode {
	case ReturnFixed, ReturnHistorical:
		return m.fixedRate
	case ReturnRandom:
		return m.dist.Mu
	case ReturnMultiAsset:
		mean := 0.0
		for _, a := range m.assets {
			mean += a.weight * a.mean
		}
		return mean
	case ReturnVariable:
		if len(m.variable) == 0 {
			return 0
		}
		sum := 0.0
		for _, r := range m.variable {
			sum += r
		}
		return sum / float64(len(m.variable))
	default:
		return 0
	}
}

// StandardDeviation returns the model's volatility parameter. Fixed, variable
// and historical modes are treated as deterministic (zero volatility).
func (m *ReturnModel) StandardDeviation() float64 {
	switch m.mode {
	case ReturnRandom:
		return m.dist.Sigma
	case ReturnMultiAsset:
		// Assumes uncorrelated asset classes
		variance := 0.0
		for _, a := range m.assets {
			if a.dist != nil {
				variance += a.weight * a.weight * a.dist.Sigma * a.dist.Sigma
			}
		}
		return math.Sqrt(variance)
	default:
		return 0
	}
}
