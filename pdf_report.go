package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// pdfText converts UTF-8 text to PDF-safe encoding. The € sign is multi-byte
// in UTF-8 but a single byte (0x80) in the cp1252 encoding the standard PDF
// fonts use.
func pdfText(s string) string {
	return strings.ReplaceAll(s, "€", "\x80")
}

// FormatMoneyPDF formats money for PDF output (handles € encoding)
func FormatMoneyPDF(amount float64) string {
	return pdfText(FormatMoneyFull(amount))
}

// GeneratePDFReport writes the trajectory and risk analytics to a PDF file
func GeneratePDFReport(filename string, config *Config, result *PlanResult, metrics *RiskMetrics, percentiles []PercentileScenario) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Withdrawal Plan Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	// Plan summary
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Plan", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, pdfText(fmt.Sprintf("Horizon %d-%d, initial capital %s",
		config.Simulation.StartYear, config.Simulation.EndYear,
		FormatMoneyFull(config.Simulation.InitialCapital))), "", 1, "L", false, 0, "")
	for _, seg := range sortedByStartYear(config.Segments) {
		strategy, _ := ParseWithdrawalStrategy(seg.Strategy)
		pdf.CellFormat(0, 6, fmt.Sprintf("Segment %s: %d-%d, %s", seg.Name, seg.StartYear, seg.EndYear, strategy),
			"", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// Headline numbers
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, pdfText(fmt.Sprintf("Total withdrawn %s, total tax %s, total insurance %s",
		FormatMoneyFull(result.TotalWithdrawn), FormatMoneyFull(result.TotalTax),
		FormatMoneyFull(result.TotalInsurance))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, pdfText(fmt.Sprintf("Final capital %s", FormatMoneyFull(result.FinalCapital))), "", 1, "L", false, 0, "")
	if result.Exhausted {
		pdf.SetTextColor(180, 30, 30)
		pdf.CellFormat(0, 6, fmt.Sprintf("Capital runs out in %d", result.ExhaustedYear), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(2)

	// Risk analytics
	if metrics != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Risk Metrics", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Mean return %.2f%%, volatility %.2f%%, max drawdown %.2f%%",
			metrics.MeanReturn*100, metrics.Volatility*100, metrics.MaxDrawdown*100), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("VaR 95%% %.2f%%, VaR 99%% %.2f%%",
			metrics.ValueAtRisk95*100, metrics.ValueAtRisk99*100), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Sharpe %s, Sortino %s, Calmar %s",
			metrics.Sharpe, metrics.Sortino, metrics.Calmar), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	if len(percentiles) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Return Percentile Scenarios", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, s := range percentiles {
			pdf.CellFormat(0, 6, fmt.Sprintf("%d%% (%s): %+.2f%%", s.Percentile, s.Name, s.ExpectedReturn*100),
				"", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	// Year-by-year table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Trajectory", "", 1, "L", false, 0, "")

	colWidths := []float64{16, 32, 18, 30, 26, 26, 32}
	headers := []string{"Year", "Start", "Return", "Withdrawal", "Tax", "Insurance", "End"}

	writeTableHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 235)
		for i, h := range headers {
			pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	writeTableHeader()
	for _, y := range result.Years {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeTableHeader()
		}
		yearLabel := fmt.Sprintf("%d", y.Year)
		if y.Shortfall {
			yearLabel += " !"
		}
		cells := []string{
			yearLabel,
			FormatMoneyPDF(y.StartCapital),
			fmt.Sprintf("%.1f%%", y.ReturnRate*100),
			FormatMoneyPDF(y.Withdrawal),
			FormatMoneyPDF(y.Tax),
			FormatMoneyPDF(y.Insurance),
			FormatMoneyPDF(y.EndCapital),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colWidths[i], 5, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(filename); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}
