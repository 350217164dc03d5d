package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/moznion/go-optional"

	"github.com/dmirandah/accionpro/internal/analyzer"
	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/marketdata"
)

// undefinedCell is the placeholder the dashboard metrics used for values that
// never became defined.
const undefinedCell = "—"

// FormatMoney renders a price with two decimals, dollar-prefixed like the
// dashboard metrics.
func FormatMoney(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}

// FormatOptionMoney renders a possibly undefined price.
func FormatOptionMoney(value optional.Option[float64]) string {
	if value.IsNone() {
		return undefinedCell
	}

	return FormatMoney(value.Unwrap())
}

// FormatOptionValue renders a possibly undefined indicator value.
func FormatOptionValue(value optional.Option[float64]) string {
	if value.IsNone() {
		return undefinedCell
	}

	return fmt.Sprintf("%.2f", value.Unwrap())
}

// FormatChange renders a percent change with an explicit sign.
func FormatChange(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// pad right-pads a cell to the given display width. Width is measured after
// ANSI sequences, so styled cells line up.
func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}

	return s
}

// padLeft left-pads a cell to the given display width.
func padLeft(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}

	return s
}

// RenderSummary renders the metrics block for one analyzed symbol.
func RenderSummary(summary types.Summary) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Análisis técnico: "+summary.Symbol) + "\n")
	b.WriteString(HelpStyle.Render(fmt.Sprintf("%s a %s, %d sesiones",
		summary.From.Format("2006-01-02"),
		summary.To.Format("2006-01-02"),
		summary.Points)) + "\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Precio actual", fmt.Sprintf("%s (%s)", FormatMoney(summary.LastPrice), FormatChange(summary.ChangePct))},
		{"SMA 50", FormatOptionMoney(summary.SMA50)},
		{"SMA 200", FormatOptionMoney(summary.SMA200)},
		{"RSI", FormatOptionValue(summary.RSI)},
		{"MACD", FormatOptionValue(summary.MACD)},
		{"Señal", FormatOptionValue(summary.Signal)},
	}

	for _, row := range rows {
		b.WriteString(pad(row.label, 14) + " " + row.value + "\n")
	}

	return b.String()
}

// RenderVerdict renders the recommendation card with its reason bullets.
func RenderVerdict(recommendation types.Recommendation) string {
	lines := []string{VerdictStyle(recommendation.Verdict).Render(recommendation.Verdict.Label())}
	for _, reason := range recommendation.Reasons {
		lines = append(lines, "• "+reason)
	}

	return verdictBoxStyle.
		BorderForeground(VerdictColor(recommendation.Verdict)).
		Render(strings.Join(lines, "\n"))
}

// scanColumns are the display widths of the scan table columns.
var scanColumns = []int{10, 12, 12, 8}

// RenderScanTable renders one row per scanned symbol.
func RenderScanTable(reports []*analyzer.Report) string {
	var b strings.Builder

	header := pad("Símbolo", scanColumns[0]) +
		padLeft("Precio", scanColumns[1]) +
		padLeft("Variación", scanColumns[2]) +
		padLeft("RSI", scanColumns[3]) +
		"  Recomendación"
	b.WriteString(TitleStyle.Render(header) + "\n")

	for _, report := range reports {
		summary := report.Summary
		verdict := report.Recommendation.Verdict

		b.WriteString(pad(summary.Symbol, scanColumns[0]))
		b.WriteString(padLeft(FormatMoney(summary.LastPrice), scanColumns[1]))
		b.WriteString(padLeft(FormatChange(summary.ChangePct), scanColumns[2]))
		b.WriteString(padLeft(FormatOptionValue(summary.RSI), scanColumns[3]))
		b.WriteString("  " + VerdictStyle(verdict).Render(verdict.Label()) + "\n")
	}

	return b.String()
}

// RenderProviders renders the provider registry listing.
func RenderProviders(infos []marketdata.ProviderInfo) string {
	var b strings.Builder

	for _, info := range infos {
		name := string(info.Type)
		if info.RequiresKey {
			name += " (requiere API key)"
		}

		b.WriteString(TitleStyle.Render(name) + "\n")
		b.WriteString("  " + info.Description + "\n")
		b.WriteString(HelpStyle.Render("  mercados: "+info.Markets) + "\n")
	}

	return b.String()
}
