package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Retirement Withdrawal Plan Simulator

Simulates multi-year withdrawal plans over one or more phases, applying
return models, withdrawal strategies, German capital gains tax and statutory
health/care insurance year by year, and reports risk analytics over the
resulting capital trajectory.

MODES:
  SINGLE PLAN (default)
    Runs the configured plan once and prints a summary of the trajectory.
    - Configure phases, return models and strategies in the config file
    - Best for: "What does my plan look like year by year?"
    - Output: Summary table, optional per-year detail and risk metrics

  STRATEGY COMPARISON (-compare flag)
    Re-runs the same plan under a set of built-in withdrawal strategies and
    ranks them by terminal capital and plan survival.
    - Best for: "Which strategy keeps my capital alive longest?"
    - Output: One line per strategy, best candidate highlighted

WITHDRAWAL STRATEGIES:
  fixed3          3%% of current capital each year
  fixed4          4%% of current capital each year
  variable        custom percentage of current capital
  monthly         fixed monthly amount, optional guardrail adjustments
  dynamic         base rate, bumped after strong or weak years
  rmd             capital divided by remaining life expectancy
  tax_optimized   searches a band around a target rate for the lowest
                  effective tax burden

STRESS SCENARIOS (-scenarios flag lists the catalog):
  Historical crashes and inflation regimes can be overlaid on any plan via
  the scenario section of the config file.

OPTIONS:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
  %[1]s                        Run with default configuration
  %[1]s -config my-plan.yaml   Run a custom plan
  %[1]s -details -risk         Per-year breakdown plus risk metrics
  %[1]s -compare               Compare withdrawal strategies
  %[1]s -json result.json      Export the trajectory as JSON
  %[1]s -pdf report.pdf        Write a PDF report
`, os.Args[0])
	}

	configFile := flag.String("config", "", "Path to YAML config file (default: built-in configuration)")
	details := flag.Bool("details", false, "Print the year-by-year breakdown")
	risk := flag.Bool("risk", false, "Print risk metrics and return percentile scenarios")
	compare := flag.Bool("compare", false, "Compare withdrawal strategies on the same plan")
	jsonFile := flag.String("json", "", "Write the result as JSON to the given file")
	pdfFile := flag.String("pdf", "", "Write a PDF report to the given file")
	listScenarios := flag.Bool("scenarios", false, "List the built-in stress scenarios and exit")
	validate := flag.Bool("validate", false, "Validate the configuration and exit")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	logLevel := zerolog.InfoLevel
	if *verbose {
		logLevel = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(logLevel).With().Timestamp().Logger()

	if *listScenarios {
		printScenarioCatalog()
		return
	}

	var cfg *Config
	var err error
	if *configFile != "" {
		cfg, err = LoadConfig(*configFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", *configFile).Msg("failed to load config")
		}
	} else {
		cfg, err = LoadDefaultConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load built-in config")
		}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		PrintValidationErrors(errs)
		os.Exit(1)
	}
	if *validate {
		fmt.Println("Configuration is valid.")
		return
	}

	if *compare {
		results := RunPlanComparison(cfg, log)
		PrintComparison(results)
		return
	}

	result, err := RunWithdrawalPlan(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}

	PrintHeader(cfg)
	PrintSummary(result)

	if *details {
		PrintYearDetails(result)
	}

	var metrics *RiskMetrics
	var percentiles []PercentileScenario
	if *risk || *jsonFile != "" || *pdfFile != "" {
		data := result.CapitalSeries()
		data.RiskFreeRate = cfg.Simulation.RiskFreeRate
		metrics = CalculateRiskMetrics(data)

		if len(cfg.Segments) > 0 {
			segments := sortedByStartYear(cfg.Segments)
			model, merr := NewReturnModel(segments[0].Returns)
			if merr == nil {
				percentiles = CalculatePercentileScenarios(model.AverageReturn(), model.StandardDeviation())
			}
		}
	}

	if *risk {
		PrintRiskMetrics(metrics)
		if len(percentiles) > 0 {
			PrintPercentileScenarios(percentiles)
		}
	}

	if *jsonFile != "" {
		if err := WriteResultJSON(*jsonFile, result, metrics, percentiles); err != nil {
			log.Fatal().Err(err).Str("file", *jsonFile).Msg("JSON export failed")
		}
		fmt.Printf("Result written to %s\n", *jsonFile)
	}

	if *pdfFile != "" {
		if err := GeneratePDFReport(*pdfFile, cfg, result, metrics, percentiles); err != nil {
			log.Fatal().Err(err).Str("file", *pdfFile).Msg("PDF export failed")
		}
		fmt.Printf("Report written to %s\n", *pdfFile)
	}
}

func printScenarioCatalog() {
	fmt.Println("Built-in stress scenarios:")
	fmt.Println()
	fmt.Println("  Black swan events:")
	for _, s := range BlackSwanScenarios {
		fmt.Printf("    %-18s %s (%d years)\n", s.ID, s.Name, s.Duration)
		fmt.Printf("    %-18s %s\n", "", s.Description)
	}
	fmt.Println()
	fmt.Println("  Inflation regimes:")
	for _, s := range InflationScenarios {
		fmt.Printf("    %-18s %s (%d years)\n", s.ID, s.Name, s.Duration)
		fmt.Printf("    %-18s %s\n", "", s.Description)
	}
	fmt.Println()
	fmt.Println("Enable a scenario via the config file, for example:")
	fmt.Println()
	fmt.Println("  scenario:")
	fmt.Println("    id: financial-crisis")
	fmt.Println("    start_year: 2045")
	fmt.Println("    enabled: true")
}
