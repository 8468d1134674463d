package main

import "math"

// Default German statutory insurance parameters for 2025. Configurable via
// InsuranceConfig; not pinned, a statutory change is a config edit.
const (
	DefaultHealthRate             = 0.146   // Allgemeiner Beitragssatz
	DefaultAdditionalHealthRate   = 0.025   // Durchschnittlicher Zusatzbeitrag
	DefaultCareRate               = 0.036   // Pflegeversicherung
	DefaultChildlessSurchargeRate = 0.006   // Kinderlosenzuschlag
	DefaultChildlessSurchargeAge  = 23      // Surcharge applies from this age
	DefaultMinimumIncomeBase      = 13230.0 // Annual Mindestbemessungsgrundlage
	DefaultMaximumIncomeBase      = 66150.0 // Annual Beitragsbemessungsgrenze
	DefaultRetirementStartAge     = 67      // Statutory retirement age
	DefaultFamilyThresholdRegular = 505.0   // Monthly income limit for family insurance
	DefaultFamilyThresholdMiniJob = 538.0   // Monthly limit when covered partner has a mini-job
)

// InsuranceConfig holds the health and long-term-care insurance parameters
type InsuranceConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Type    string `yaml:"type" json:"type"` // "statutory" or "private"

	// Statutory mode
	HealthRate             float64 `yaml:"health_rate" json:"health_rate"`
	AdditionalHealthRate   float64 `yaml:"additional_health_rate" json:"additional_health_rate"`
	CareRate               float64 `yaml:"care_rate" json:"care_rate"`
	ChildlessSurchargeRate float64 `yaml:"childless_surcharge_rate" json:"childless_surcharge_rate"`
	ChildlessSurchargeAge  int     `yaml:"childless_surcharge_age" json:"childless_surcharge_age"`
	MinimumIncomeBase      float64 `yaml:"minimum_income_base" json:"minimum_income_base"`
	MaximumIncomeBase      float64 `yaml:"maximum_income_base" json:"maximum_income_base"`
	// Employee share of the health rate before and after the statutory
	// retirement age. Voluntarily insured withdrawers carry the full rate
	// before retirement; in the retirement phase the pension insurer covers
	// the employer half.
	EmployeeShareBeforeRetirement float64 `yaml:"employee_share_before_retirement" json:"employee_share_before_retirement"`
	EmployeeShareInRetirement     float64 `yaml:"employee_share_in_retirement" json:"employee_share_in_retirement"`
	RetirementStartAge            int     `yaml:"retirement_start_age" json:"retirement_start_age"`
	Childless                     bool    `yaml:"childless" json:"childless"`

	// Private mode: fixed monthly premiums escalated from a base year
	PrivateHealthMonthly float64 `yaml:"private_health_monthly" json:"private_health_monthly"`
	PrivateCareMonthly   float64 `yaml:"private_care_monthly" json:"private_care_monthly"`
	PrivateInflationRate float64 `yaml:"private_inflation_rate" json:"private_inflation_rate"`
	PrivateBaseYear      int     `yaml:"private_base_year" json:"private_base_year"`
}

func (c InsuranceConfig) getHealthRate() float64 {
	if c.HealthRate <= 0 {
		return DefaultHealthRate
	}
	return c.HealthRate
}

func (c InsuranceConfig) getAdditionalHealthRate() float64 {
	if c.AdditionalHealthRate <= 0 {
		return DefaultAdditionalHealthRate
	}
	return c.AdditionalHealthRate
}

func (c InsuranceConfig) getCareRate() float64 {
	if c.CareRate <= 0 {
		return DefaultCareRate
	}
	return c.CareRate
}

func (c InsuranceConfig) getChildlessSurchargeRate() float64 {
	if c.ChildlessSurchargeRate <= 0 {
		return DefaultChildlessSurchargeRate
	}
	return c.ChildlessSurchargeRate
}

func (c InsuranceConfig) getChildlessSurchargeAge() int {
	if c.ChildlessSurchargeAge <= 0 {
		return DefaultChildlessSurchargeAge
	}
	return c.ChildlessSurchargeAge
}

func (c InsuranceConfig) getMinimumIncomeBase() float64 {
	if c.MinimumIncomeBase <= 0 {
		return DefaultMinimumIncomeBase
	}
	return c.MinimumIncomeBase
}

func (c InsuranceConfig) getMaximumIncomeBase() float64 {
	if c.MaximumIncomeBase <= 0 {
		return DefaultMaximumIncomeBase
	}
	return c.MaximumIncomeBase
}

func (c InsuranceConfig) getEmployeeShareBeforeRetirement() float64 {
	if c.EmployeeShareBeforeRetirement <= 0 {
		return 1.0
	}
	return c.EmployeeShareBeforeRetirement
}

func (c InsuranceConfig) getEmployeeShareInRetirement() float64 {
	if c.EmployeeShareInRetirement <= 0 {
		return 0.5
	}
	return c.EmployeeShareInRetirement
}

func (c InsuranceConfig) getRetirementStartAge() int {
	if c.RetirementStartAge <= 0 {
		return DefaultRetirementStartAge
	}
	return c.RetirementStartAge
}

// InsuranceResult is the computed contribution for one year
type InsuranceResult struct {
	Annual  float64
	Monthly float64
	Health  float64
	Care    float64
	// Which couple arrangement produced this result ("individual" or
	// "family"); empty outside couple mode
	UsedStrategy string
}

// inRetirementPhase determines whether the retirement-phase employee share
// applies. A zero birth year disables the switch (pre-retirement share is
// used); the caller is expected to supply a birth year when the switch
// matters.
func inRetirementPhase(cfg InsuranceConfig, year, birthYear int) bool {
	if birthYear <= 0 || birthYear > year {
		return false
	}
	return year-birthYear >= cfg.getRetirementStartAge()
}

// CalculateHealthCareInsurance computes the annual and monthly health and
// care contributions for one person on the given annual income.
//
// Statutory mode clamps the income to the minimum and maximum bases: income
// below the minimum base is still charged at the minimum base, income above
// the maximum base is charged exactly at the maximum base.
func CalculateHealthCareInsurance(cfg InsuranceConfig, income float64, year, birthYear int, childless bool) InsuranceResult {
	if !cfg.Enabled {
		return InsuranceResult{}
	}

	if cfg.Type == "private" {
		factor := 1.0
		if cfg.PrivateBaseYear > 0 && year > cfg.PrivateBaseYear && cfg.PrivateInflationRate > 0 {
			factor = math.Pow(1+cfg.PrivateInflationRate, float64(year-cfg.PrivateBaseYear))
		}
		health := cfg.PrivateHealthMonthly * 12 * factor
		care := cfg.PrivateCareMonthly * 12 * factor
		return InsuranceResult{
			Annual:  health + care,
			Monthly: (health + care) / 12,
			Health:  health,
			Care:    care,
		}
	}

	base := income
	if base < cfg.getMinimumIncomeBase() {
		base = cfg.getMinimumIncomeBase()
	}
	if base > cfg.getMaximumIncomeBase() {
		base = cfg.getMaximumIncomeBase()
	}

	share := cfg.getEmployeeShareBeforeRetirement()
	if inRetirementPhase(cfg, year, birthYear) {
		share = cfg.getEmployeeShareInRetirement()
	}

	careRate := cfg.getCareRate()
	if childless && birthYear > 0 && year-birthYear >= cfg.getChildlessSurchargeAge() {
		careRate += cfg.getChildlessSurchargeRate()
	}

	health := base * (cfg.getHealthRate() + cfg.getAdditionalHealthRate()) * share
	care := base * careRate

	return InsuranceResult{
		Annual:  health + care,
		Monthly: (health + care) / 12,
		Health:  health,
		Care:    care,
	}
}

// CoupleMemberConfig describes one partner in couple mode. Withdrawal shares
// are applied as-is; they are not normalized to sum to 1.
type CoupleMemberConfig struct {
	Name            string  `yaml:"name" json:"name"`
	BirthYear       int     `yaml:"birth_year" json:"birth_year"`
	WithdrawalShare float64 `yaml:"withdrawal_share" json:"withdrawal_share"`
	OtherIncome     float64 `yaml:"other_income" json:"other_income"` // Annual
	Childless       bool    `yaml:"childless" json:"childless"`
	MiniJob         bool    `yaml:"mini_job" json:"mini_job"`
}

// CoupleConfig enables two-person insurance cost sharing
type CoupleConfig struct {
	Strategy               string             `yaml:"strategy" json:"strategy"` // "individual", "family" or "optimize"
	Member1                CoupleMemberConfig `yaml:"member1" json:"member1"`
	Member2                CoupleMemberConfig `yaml:"member2" json:"member2"`
	FamilyThresholdRegular float64            `yaml:"family_threshold_regular" json:"family_threshold_regular"` // Monthly
	FamilyThresholdMiniJob float64            `yaml:"family_threshold_mini_job" json:"family_threshold_mini_job"`
}

func (c CoupleConfig) getFamilyThresholdRegular() float64 {
	if c.FamilyThresholdRegular <= 0 {
		return DefaultFamilyThresholdRegular
	}
	return c.FamilyThresholdRegular
}

func (c CoupleConfig) getFamilyThresholdMiniJob() float64 {
	if c.FamilyThresholdMiniJob <= 0 {
		return DefaultFamilyThresholdMiniJob
	}
	return c.FamilyThresholdMiniJob
}

func memberIncome(m CoupleMemberConfig, withdrawal float64) float64 {
	return withdrawal*m.WithdrawalShare + m.OtherIncome
}

// coupleIndividualCost prices both partners under their own statutory policy
func coupleIndividualCost(cfg InsuranceConfig, couple CoupleConfig, withdrawal float64, year int) InsuranceResult {
	r1 := CalculateHealthCareInsurance(cfg, memberIncome(couple.Member1, withdrawal), year, couple.Member1.BirthYear, couple.Member1.Childless)
	r2 := CalculateHealthCareInsurance(cfg, memberIncome(couple.Member2, withdrawal), year, couple.Member2.BirthYear, couple.Member2.Childless)
	return InsuranceResult{
		Annual:       r1.Annual + r2.Annual,
		Monthly:      (r1.Annual + r2.Annual) / 12,
		Health:       r1.Health + r2.Health,
		Care:         r1.Care + r2.Care,
		UsedStrategy: "individual",
	}
}

// coupleFamilyCost covers the lower-income partner under the other's policy
// when their income stays under the family-insurance threshold. An ineligible
// couple falls back to individual pricing.
func coupleFamilyCost(cfg InsuranceConfig, couple CoupleConfig, withdrawal float64, year int) InsuranceResult {
	covering, covered := couple.Member1, couple.Member2
	if memberIncome(covered, withdrawal) > memberIncome(covering, withdrawal) {
		covering, covered = covered, covering
	}

	threshold := couple.getFamilyThresholdRegular()
	if covered.MiniJob {
		threshold = couple.getFamilyThresholdMiniJob()
	}
	if memberIncome(covered, withdrawal)/12 > threshold {
		return coupleIndividualCost(cfg, couple, withdrawal, year)
	}

	r := CalculateHealthCareInsurance(cfg, memberIncome(covering, withdrawal), year, covering.BirthYear, covering.Childless)
	r.UsedStrategy = "family"
	return r
}

// CalculateCoupleInsurance computes the combined contribution for a couple.
// The "optimize" strategy evaluates both arrangements for the year and
// reports the cheaper one; the UsedStrategy tag reflects what was actually
// applied, which can differ from the configured strategy as incomes change
// year over year.
func CalculateCoupleInsurance(cfg InsuranceConfig, couple CoupleConfig, withdrawal float64, year int) InsuranceResult {
	switch couple.Strategy {
	case "family":
		return coupleFamilyCost(cfg, couple, withdrawal, year)
	case "optimize":
		individual := coupleIndividualCost(cfg, couple, withdrawal, year)
		family := coupleFamilyCost(cfg, couple, withdrawal, year)
		if family.Annual <= individual.Annual {
			return family
		}
		return individual
	default:
		return coupleIndividualCost(cfg, couple, withdrawal, year)
	}
}
