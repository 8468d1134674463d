package main

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// SimulationConfig holds the global plan bounds and starting state
type SimulationConfig struct {
	StartYear      int     `yaml:"start_year" json:"start_year"`
	EndYear        int     `yaml:"end_year" json:"end_year"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	RiskFreeRate   float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
}

// PersonConfig holds the single-person metadata the tax and insurance
// overlays need. Couple mode is configured separately.
type PersonConfig struct {
	Name      string `yaml:"name" json:"name"`
	BirthYear int    `yaml:"birth_year" json:"birth_year"`
	Childless bool   `yaml:"childless" json:"childless"`
}

// ScenarioSelection activates a stress scenario from the static catalog,
// anchored at a start year
type ScenarioSelection struct {
	ID        string `yaml:"id" json:"id"`
	StartYear int    `yaml:"start_year" json:"start_year"`
	Enabled   bool   `yaml:"enabled" json:"enabled"`
}

// Config is the complete declarative plan description
type Config struct {
	Simulation SimulationConfig     `yaml:"simulation" json:"simulation"`
	Person     PersonConfig         `yaml:"person" json:"person"`
	Segments   []*WithdrawalSegment `yaml:"segments" json:"segments"`
	Tax        TaxConfig            `yaml:"tax" json:"tax"`
	Insurance  InsuranceConfig      `yaml:"insurance" json:"insurance"`
	Couple     *CoupleConfig        `yaml:"couple,omitempty" json:"couple,omitempty"`
	Scenario   *ScenarioSelection   `yaml:"scenario,omitempty" json:"scenario,omitempty"`
}

// LoadConfig reads and parses a YAML plan file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// LoadDefaultConfig loads the embedded default plan
func LoadDefaultConfig() (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &config); err != nil {
		return nil, fmt.Errorf("failed to parse embedded default config: %w", err)
	}
	return &config, nil
}

// SaveConfig writes the plan back to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Clone deep-copies the plan via a YAML round trip. Used by the comparison
// runner so concurrent simulations share no mutable state.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to clone config: %w", err)
	}
	var clone Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("failed to clone config: %w", err)
	}
	return &clone, nil
}

// Validate checks the whole plan and returns a list of human-readable error
// messages. An empty list means the plan is valid; callers must not simulate
// with a non-empty list.
func (c *Config) Validate() []string {
	var errors []string

	if c.Simulation.StartYear <= 0 || c.Simulation.EndYear <= 0 {
		errors = append(errors, "simulation start and end year must be set")
	}
	if c.Simulation.StartYear > c.Simulation.EndYear {
		errors = append(errors, fmt.Sprintf("simulation start year %d is after end year %d",
			c.Simulation.StartYear, c.Simulation.EndYear))
	}
	if c.Simulation.InitialCapital < 0 {
		errors = append(errors, "initial capital must not be negative")
	}

	errors = append(errors, ValidateSegments(c.Segments, c.Simulation.StartYear, c.Simulation.EndYear)...)

	if c.Scenario != nil && c.Scenario.Enabled {
		if GetStressScenarioByID(c.Scenario.ID) == nil {
			errors = append(errors, fmt.Sprintf("unknown stress scenario %q", c.Scenario.ID))
		}
		if c.Scenario.StartYear < c.Simulation.StartYear || c.Scenario.StartYear > c.Simulation.EndYear {
			errors = append(errors, fmt.Sprintf("scenario start year %d is outside the plan horizon %d-%d",
				c.Scenario.StartYear, c.Simulation.StartYear, c.Simulation.EndYear))
		}
	}

	if c.Couple != nil {
		switch c.Couple.Strategy {
		case "", "individual", "family", "optimize":
		default:
			errors = append(errors, fmt.Sprintf("unknown couple strategy %q", c.Couple.Strategy))
		}
		if c.Couple.Member1.WithdrawalShare < 0 || c.Couple.Member2.WithdrawalShare < 0 {
			errors = append(errors, "couple withdrawal shares must not be negative")
		}
	}

	return errors
}

// ScenarioOverlayFromConfig builds the active overlay, or nil when no
// scenario is enabled
func (c *Config) ScenarioOverlayFromConfig() ScenarioOverlay {
	if c.Scenario == nil || !c.Scenario.Enabled {
		return ClearScenarioOverlay()
	}
	return ApplyScenario(c.Scenario.StartYear, GetStressScenarioByID(c.Scenario.ID))
}
