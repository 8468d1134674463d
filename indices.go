package main

// ReturnPeriod represents the annualized return over a specific trailing window
type ReturnPeriod struct {
	Years  int     // Number of years in this period
	Label  string  // Human-readable label (e.g., "10 Year", "Since 1988")
	Return float64 // Annualized return as decimal (0.08 = 8%)
}

// MarketIndex represents a market index with historical return data used by
// the historical return mode
type MarketIndex struct {
	ID            string         // Unique identifier (e.g., "msciWorld")
	Name          string         // Full name
	Country       string         // Country/region
	Returns       []ReturnPeriod // Returns over different trailing windows
	DefaultReturn float64        // Long-term return used when no period matches
	Volatility    string         // "low", "medium", "high"
	Description   string         // Brief description
	InceptionYear int            // Year the index was created
}

// MarketIndices contains all indices selectable for the historical mode.
// Data as of end 2024, nominal returns (not inflation-adjusted).
// Past performance does not guarantee future results.
var MarketIndices = []MarketIndex{
	{
		ID:      "dax",
		Name:    "DAX",
		Country: "Germany",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.095},
			{Years: 5, Label: "5 Year", Return: 0.092},
			{Years: 10, Label: "10 Year", Return: 0.078},
			{Years: 25, Label: "25 Year", Return: 0.055},
			{Years: 36, Label: "Since 1988", Return: 0.080},
		},
		DefaultReturn: 0.080,
		Volatility:    "medium",
		Description:   "German large cap - 40 largest companies",
		InceptionYear: 1988,
	},
	{
		ID:      "euroStoxx50",
		Name:    "EURO STOXX 50",
		Country: "Eurozone",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.088},
			{Years: 5, Label: "5 Year", Return: 0.075},
			{Years: 10, Label: "10 Year", Return: 0.062},
			{Years: 25, Label: "25 Year", Return: 0.035},
			{Years: 38, Label: "Since 1986", Return: 0.065},
		},
		DefaultReturn: 0.065,
		Volatility:    "medium",
		Description:   "Eurozone blue chip - 50 largest companies",
		InceptionYear: 1986,
	},
	{
		ID:      "msciWorld",
		Name:    "MSCI World",
		Country: "Global",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.082},
			{Years: 5, Label: "5 Year", Return: 0.125},
			{Years: 10, Label: "10 Year", Return: 0.102},
			{Years: 25, Label: "25 Year", Return: 0.072},
			{Years: 54, Label: "Since 1970", Return: 0.085},
		},
		DefaultReturn: 0.085,
		Volatility:    "medium",
		Description:   "Developed markets - ~1,500 companies, 23 countries",
		InceptionYear: 1970,
	},
	{
		ID:      "sp500",
		Name:    "S&P 500",
		Country: "US",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.089},
			{Years: 5, Label: "5 Year", Return: 0.145},
			{Years: 10, Label: "10 Year", Return: 0.128},
			{Years: 25, Label: "25 Year", Return: 0.078},
			{Years: 67, Label: "Since 1957", Return: 0.104},
		},
		DefaultReturn: 0.104,
		Volatility:    "medium",
		Description:   "US large cap - 500 largest companies",
		InceptionYear: 1957,
	},
	{
		ID:      "ftseAllWorld",
		Name:    "FTSE All-World",
		Country: "Global",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.078},
			{Years: 5, Label: "5 Year", Return: 0.115},
			{Years: 10, Label: "10 Year", Return: 0.095},
			{Years: 24, Label: "Since 2000", Return: 0.080},
		},
		DefaultReturn: 0.080,
		Volatility:    "medium",
		Description:   "Global all markets - ~4,000 companies, 50 countries",
		InceptionYear: 2000,
	},
	{
		ID:      "rexp",
		Name:    "REX Performance Index",
		Country: "Germany",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: -0.005},
			{Years: 5, Label: "5 Year", Return: 0.002},
			{Years: 10, Label: "10 Year", Return: 0.012},
			{Years: 25, Label: "25 Year", Return: 0.032},
			{Years: 37, Label: "Since 1987", Return: 0.045},
		},
		DefaultReturn: 0.045,
		Volatility:    "low",
		Description:   "German government bonds - fixed income baseline",
		InceptionYear: 1987,
	},
}

// GetMarketIndexByID returns a market index by its ID, or nil if not found
func GetMarketIndexByID(id string) *MarketIndex {
	for i := range MarketIndices {
		if MarketIndices[i].ID == id {
			return &MarketIndices[i]
		}
	}
	return nil
}

// GetReturnForPeriod returns the annualized return for a specific trailing
// window, or the index default when the window is not available
func GetReturnForPeriod(index *MarketIndex, years int) float64 {
	for _, r := range index.Returns {
		if r.Years == years {
			return r.Return
		}
	}
	return index.DefaultReturn
}
