package main

// StressScenario is a named, fixed-duration table of return and/or inflation
// overrides. Scenarios live in static read-only catalogs outside the engine's
// mutable state; applying one produces an overlay anchored at a start year and
// never mutates segment configuration.
type StressScenario struct {
	ID          string
	Name        string
	Description string
	Duration    int // Number of years the scenario covers
	// Year-offset (0-based) indexed overrides. A missing offset within the
	// duration falls back to the flat rates below.
	ReturnByOffset    map[int]float64
	InflationByOffset map[int]float64
	// Flat rates applied to every covered year without an explicit offset
	FlatReturn    *float64
	FlatInflation *float64
}

func rate(v float64) *float64 { return &v }

// BlackSwanScenarios are sudden market shock events. Returns replace the
// segment's return model for the covered years (stress semantics: the
// scenario is the assumed market behavior, not a delta).
var BlackSwanScenarios = []StressScenario{
	{
		ID:          "dotcom-crash",
		Name:        "Dotcom Crash",
		Description: "Three loss years followed by recovery (2000-2003 pattern)",
		Duration:    4,
		ReturnByOffset: map[int]float64{
			0: -0.094,
			1: -0.119,
			2: -0.221,
			3: 0.287,
		},
	},
	{
		ID:          "financial-crisis",
		Name:        "Financial Crisis",
		Description: "Severe single-year loss followed by rebound (2008-2009 pattern)",
		Duration:    2,
		ReturnByOffset: map[int]float64{
			0: -0.387,
			1: 0.265,
		},
	},
	{
		ID:          "covid-crash",
		Name:        "COVID Crash",
		Description: "Sharp drop with fast recovery within the same year window",
		Duration:    1,
		ReturnByOffset: map[int]float64{
			0: -0.12,
		},
	},
}

// InflationScenarios stress the inflation assumption. Hyperinflation also
// depresses returns for the covered window.
var InflationScenarios = []StressScenario{
	{
		ID:          "hyperinflation",
		Name:        "Hyperinflation",
		Description: "Persistent double-digit inflation with weak real returns",
		Duration:    5,
		InflationByOffset: map[int]float64{
			0: 0.08,
			1: 0.12,
			2: 0.15,
			3: 0.10,
			4: 0.06,
		},
		FlatReturn: rate(0.02),
	},
	{
		ID:            "deflation",
		Name:          "Deflation",
		Description:   "Falling price level over three years",
		Duration:      3,
		FlatInflation: rate(-0.01),
	},
	{
		ID:            "stagflation",
		Name:          "Stagflation",
		Description:   "Elevated inflation combined with flat markets",
		Duration:      4,
		FlatInflation: rate(0.06),
		FlatReturn:    rate(0.0),
	},
}

// GetStressScenarioByID looks a scenario up across both catalogs
func GetStressScenarioByID(id string) *StressScenario {
	for i := range BlackSwanScenarios {
		if BlackSwanScenarios[i].ID == id {
			return &BlackSwanScenarios[i]
		}
	}
	for i := range InflationScenarios {
		if InflationScenarios[i].ID == id {
			return &InflationScenarios[i]
		}
	}
	return nil
}

// ApplyScenario anchors a scenario at startYear and produces the overlay of
// absolute years to overrides. Overrides fully replace the base return and
// inflation values for the covered years.
func ApplyScenario(startYear int, s *StressScenario) ScenarioOverlay {
	if s == nil || s.Duration <= 0 {
		return nil
	}
	overlay := make(ScenarioOverlay, s.Duration)
	for offset := 0; offset < s.Duration; offset++ {
		var o ScenarioOverride
		if r, ok := s.ReturnByOffset[offset]; ok {
			o.ReturnRate = rate(r)
		} else if s.FlatReturn != nil {
			o.ReturnRate = rate(*s.FlatReturn)
		}
		if inf, ok := s.InflationByOffset[offset]; ok {
			o.InflationRate = rate(inf)
		} else if s.FlatInflation != nil {
			o.InflationRate = rate(*s.FlatInflation)
		}
		overlay[startYear+offset] = o
	}
	return overlay
}

// ClearScenarioOverlay is the explicit reset: disabling a scenario emits a
// nil overlay rather than leaving stale overrides behind.
func ClearScenarioOverlay() ScenarioOverlay {
	return nil
}
