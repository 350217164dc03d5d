// Package export writes analysis results to timestamped run directories.
package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dmirandah/accionpro/internal/analyzer"
	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

// ResultWriter defines the interface for writing analysis results
type ResultWriter interface {
	// WriteReport writes the full report for one symbol
	WriteReport(report *analyzer.Report) error

	// RunDir returns the directory this run writes into
	RunDir() string

	// Close finalizes the writing process
	Close() error
}

// CSVWriter implements ResultWriter by writing CSV and YAML files
type CSVWriter struct {
	baseDir   string
	runDir    string
	precision int32
}

// NewCSVWriter creates a new CSVWriter with the given base directory.
// Float columns are rendered with the given number of decimal places.
func NewCSVWriter(baseDir string, precision int) (ResultWriter, error) {
	// Create a directory for this run using current timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	runDir := filepath.Join(baseDir, timestamp)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, "failed to create run directory", err)
	}

	return &CSVWriter{
		baseDir:   baseDir,
		runDir:    runDir,
		precision: int32(precision),
	}, nil
}

// WriteReport writes the full report for one symbol: the augmented series as
// CSV plus the recommendation and summary as YAML sidecars. All files for one
// run land in the same directory, so a scan over a watchlist produces one
// folder per invocation.
func (w *CSVWriter) WriteReport(report *analyzer.Report) error {
	symbol := report.Series.Symbol

	if err := w.writeAnalysisCSV(symbol, report.Series); err != nil {
		return err
	}

	if err := w.writeRecommendation(symbol, report.Recommendation); err != nil {
		return err
	}

	return w.writeSummary(symbol, report)
}

// RunDir returns the directory this run writes into
func (w *CSVWriter) RunDir() string {
	return w.runDir
}

// Close finalizes the writing process. Files are opened and closed per
// report, so there is nothing left to flush here.
func (w *CSVWriter) Close() error {
	return nil
}

func (w *CSVWriter) writeAnalysisCSV(symbol string, series types.AugmentedSeries) error {
	file, err := os.Create(filepath.Join(w.runDir, symbol+"_analysis.csv"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create analysis file", err)
	}
	defer file.Close()

	csvWriter := csv.NewWriter(file)

	if err := csvWriter.Write([]string{
		"time", "price", "volume", "sma_50", "sma_200", "rsi", "macd", "signal",
	}); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to write analysis header", err)
	}

	for _, point := range series.Points {
		record := []string{
			point.Time.Format(time.RFC3339),
			w.formatFloat(point.Price),
			w.formatOption(point.Volume),
			w.formatOption(point.SMA50),
			w.formatOption(point.SMA200),
			w.formatOption(point.RSI),
			w.formatOption(point.MACD),
			w.formatOption(point.Signal),
		}

		if err := csvWriter.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, "failed to write analysis row", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to flush analysis file", err)
	}

	return nil
}

// recommendationDocument adds the display label next to the raw verdict so
// exported files are readable without the enum mapping.
type recommendationDocument struct {
	types.Recommendation `yaml:",inline"`
	Label                string `yaml:"label"`
}

func (w *CSVWriter) writeRecommendation(symbol string, recommendation types.Recommendation) error {
	document := recommendationDocument{
		Recommendation: recommendation,
		Label:          recommendation.Verdict.Label(),
	}

	return w.writeYAML(symbol+"_recommendation.yaml", document)
}

// summaryDocument renders floats as fixed-precision strings. Indicator fields
// that never became defined are omitted instead of written as zeros.
type summaryDocument struct {
	ID          string    `yaml:"id"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Symbol      string    `yaml:"symbol"`
	From        time.Time `yaml:"from"`
	To          time.Time `yaml:"to"`
	Points      int       `yaml:"points"`
	FirstPrice  string    `yaml:"first_price"`
	LastPrice   string    `yaml:"last_price"`
	Change      string    `yaml:"change"`
	ChangePct   string    `yaml:"change_pct"`
	SMA50       string    `yaml:"sma_50,omitempty"`
	SMA200      string    `yaml:"sma_200,omitempty"`
	RSI         string    `yaml:"rsi,omitempty"`
	MACD        string    `yaml:"macd,omitempty"`
	Signal      string    `yaml:"signal,omitempty"`
}

func (w *CSVWriter) writeSummary(symbol string, report *analyzer.Report) error {
	summary := report.Summary
	document := summaryDocument{
		ID:          report.ID,
		GeneratedAt: report.GeneratedAt,
		Symbol:      summary.Symbol,
		From:        summary.From,
		To:          summary.To,
		Points:      summary.Points,
		FirstPrice:  w.formatFloat(summary.FirstPrice),
		LastPrice:   w.formatFloat(summary.LastPrice),
		Change:      w.formatFloat(summary.Change),
		ChangePct:   w.formatFloat(summary.ChangePct),
		SMA50:       w.formatOption(summary.SMA50),
		SMA200:      w.formatOption(summary.SMA200),
		RSI:         w.formatOption(summary.RSI),
		MACD:        w.formatOption(summary.MACD),
		Signal:      w.formatOption(summary.Signal),
	}

	return w.writeYAML(symbol+"_summary.yaml", document)
}

func (w *CSVWriter) writeYAML(name string, document any) error {
	file, err := os.Create(filepath.Join(w.runDir, name))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", name)
	}
	defer file.Close()

	data, err := yaml.Marshal(document)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to marshal %s", name)
	}

	if _, err := file.Write(data); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write %s", name)
	}

	return nil
}

// formatFloat renders a float with the configured precision. Non-finite
// values become empty cells.
func (w *CSVWriter) formatFloat(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}

	return decimal.NewFromFloat(value).StringFixed(w.precision)
}

// formatOption renders a defined value like formatFloat and None as an empty
// cell.
func (w *CSVWriter) formatOption(value optional.Option[float64]) string {
	if value.IsNone() {
		return ""
	}

	return w.formatFloat(value.Unwrap())
}
