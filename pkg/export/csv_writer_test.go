package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/dmirandah/accionpro/internal/advisor"
	"github.com/dmirandah/accionpro/internal/analyzer"
	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func testReport(symbol string) *analyzer.Report {
	series := types.AugmentedSeries{
		Symbol: symbol,
		Points: []types.AugmentedPoint{
			{
				Time:   day(2),
				Price:  100.25,
				Volume: optional.Some(1000.0),
				SMA50:  optional.None[float64](),
				SMA200: optional.None[float64](),
				RSI:    optional.None[float64](),
				MACD:   optional.Some(0.0),
				Signal: optional.Some(0.0),
			},
			{
				Time:   day(3),
				Price:  101.5,
				Volume: optional.None[float64](),
				SMA50:  optional.Some(100.88),
				SMA200: optional.None[float64](),
				RSI:    optional.None[float64](),
				MACD:   optional.Some(0.31),
				Signal: optional.Some(0.24),
			},
			{
				Time:   day(4),
				Price:  102.75,
				Volume: optional.Some(1100.0),
				SMA50:  optional.Some(101.1),
				SMA200: optional.None[float64](),
				RSI:    optional.Some(55.5),
				MACD:   optional.Some(0.42),
				Signal: optional.Some(0.17),
			},
		},
	}

	return &analyzer.Report{
		ID:          "test-report-123",
		GeneratedAt: time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC),
		Series:      series,
		Summary: types.Summary{
			Symbol:     symbol,
			From:       day(2),
			To:         day(4),
			Points:     3,
			FirstPrice: 100.25,
			LastPrice:  102.75,
			Change:     2.5,
			ChangePct:  2.49,
			SMA50:      optional.Some(101.1),
			SMA200:     optional.None[float64](),
			RSI:        optional.Some(55.5),
			MACD:       optional.None[float64](),
			Signal:     optional.None[float64](),
		},
		Recommendation: types.Recommendation{
			Symbol:  symbol,
			Time:    day(4),
			Verdict: types.VerdictBuy,
			Score:   2,
			Reasons: []string{advisor.ReasonBullishTrend, advisor.ReasonGoldenCross},
		},
	}
}

func readAnalysisCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	assert.NoError(t, err, "Failed to open analysis file")
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	assert.NoError(t, err, "Failed to parse analysis CSV")

	return records
}

func TestCSVWriter_WriteReport(t *testing.T) {
	t.Run("test_write_report", func(t *testing.T) {
		// Create a temporary directory for the test
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir, 2)
		assert.NoError(t, err, "Failed to create CSVWriter")

		err = writer.WriteReport(testReport("AAPL"))
		assert.NoError(t, err, "Failed to write report")

		err = writer.Close()
		assert.NoError(t, err, "Failed to close writer")

		// Get the timestamp directory
		dirs, err := os.ReadDir(tempDir)
		assert.NoError(t, err, "Failed to read temp directory")
		assert.Equal(t, 1, len(dirs), "Should have one timestamp directory")

		runDir := filepath.Join(tempDir, dirs[0].Name())
		assert.Equal(t, runDir, writer.RunDir(), "RunDir should point at the timestamp directory")

		// Verify the augmented series CSV
		records := readAnalysisCSV(t, filepath.Join(runDir, "AAPL_analysis.csv"))
		assert.Equal(t, 4, len(records), "Should have header plus three rows")
		assert.Equal(t,
			[]string{"time", "price", "volume", "sma_50", "sma_200", "rsi", "macd", "signal"},
			records[0], "Header should list every column")
		assert.Equal(t,
			[]string{"2024-01-02T00:00:00Z", "100.25", "1000.00", "", "", "", "0.00", "0.00"},
			records[1], "First row should render values and blank undefined cells")
		assert.Equal(t, "", records[2][2], "Missing volume should render as an empty cell")
		assert.Equal(t,
			[]string{"2024-01-04T00:00:00Z", "102.75", "1100.00", "101.10", "", "55.50", "0.42", "0.17"},
			records[3], "Last row should render every defined column")

		// Verify the recommendation YAML
		data, err := os.ReadFile(filepath.Join(runDir, "AAPL_recommendation.yaml"))
		assert.NoError(t, err, "Failed to read recommendation file")

		var recommendation recommendationDocument
		err = yaml.Unmarshal(data, &recommendation)
		assert.NoError(t, err, "Failed to unmarshal recommendation YAML")
		assert.Equal(t, "AAPL", recommendation.Symbol, "Symbol should match")
		assert.True(t, recommendation.Time.Equal(day(4)), "Time should match the evaluated point")
		assert.Equal(t, types.VerdictBuy, recommendation.Verdict, "Verdict should match")
		assert.Equal(t, "COMPRA", recommendation.Label, "Label should carry the display form")
		assert.Equal(t, 2, recommendation.Score, "Score should match")
		assert.Equal(t,
			[]string{advisor.ReasonBullishTrend, advisor.ReasonGoldenCross},
			recommendation.Reasons, "Reasons should survive the round trip")

		// Verify the summary YAML, including omitted undefined indicators
		data, err = os.ReadFile(filepath.Join(runDir, "AAPL_summary.yaml"))
		assert.NoError(t, err, "Failed to read summary file")

		var summary map[string]any
		err = yaml.Unmarshal(data, &summary)
		assert.NoError(t, err, "Failed to unmarshal summary YAML")
		assert.Equal(t, "test-report-123", summary["id"], "ID should match")
		assert.Equal(t, "AAPL", summary["symbol"], "Symbol should match")
		assert.Equal(t, 3, summary["points"], "Points should match")
		assert.Equal(t, "100.25", summary["first_price"], "First price should match")
		assert.Equal(t, "102.75", summary["last_price"], "Last price should match")
		assert.Equal(t, "2.50", summary["change"], "Change should match")
		assert.Equal(t, "2.49", summary["change_pct"], "Change percent should match")
		assert.Equal(t, "101.10", summary["sma_50"], "SMA 50 should match")
		assert.Equal(t, "55.50", summary["rsi"], "RSI should match")
		assert.NotContains(t, summary, "sma_200", "Undefined SMA 200 should be omitted")
		assert.NotContains(t, summary, "macd", "Undefined MACD should be omitted")
		assert.NotContains(t, summary, "signal", "Undefined signal should be omitted")
	})
}

func TestCSVWriter_Precision(t *testing.T) {
	t.Run("test_precision_rendering", func(t *testing.T) {
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir, 4)
		assert.NoError(t, err, "Failed to create CSVWriter")

		report := testReport("MSFT")
		err = writer.WriteReport(report)
		assert.NoError(t, err, "Failed to write report")

		dirs, err := os.ReadDir(tempDir)
		assert.NoError(t, err, "Failed to read temp directory")

		records := readAnalysisCSV(t, filepath.Join(tempDir, dirs[0].Name(), "MSFT_analysis.csv"))
		assert.Equal(t, "100.2500", records[1][1], "Price should use four decimal places")
		assert.Equal(t, "1000.0000", records[1][2], "Volume should use four decimal places")
	})

	t.Run("test_blank_non_finite", func(t *testing.T) {
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir, 2)
		assert.NoError(t, err, "Failed to create CSVWriter")

		report := testReport("GOOGL")
		report.Series.Points[1].Price = math.NaN()
		report.Summary.FirstPrice = math.Inf(1)

		err = writer.WriteReport(report)
		assert.NoError(t, err, "Failed to write report")

		dirs, err := os.ReadDir(tempDir)
		assert.NoError(t, err, "Failed to read temp directory")
		runDir := filepath.Join(tempDir, dirs[0].Name())

		records := readAnalysisCSV(t, filepath.Join(runDir, "GOOGL_analysis.csv"))
		assert.Equal(t, "", records[2][1], "NaN price should render as an empty cell")

		data, err := os.ReadFile(filepath.Join(runDir, "GOOGL_summary.yaml"))
		assert.NoError(t, err, "Failed to read summary file")

		var summary map[string]any
		err = yaml.Unmarshal(data, &summary)
		assert.NoError(t, err, "Failed to unmarshal summary YAML")
		assert.Equal(t, "", summary["first_price"], "Infinite first price should render as empty")
	})
}

func TestCSVWriter_MultipleReports(t *testing.T) {
	t.Run("test_shared_run_directory", func(t *testing.T) {
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir, 2)
		assert.NoError(t, err, "Failed to create CSVWriter")

		err = writer.WriteReport(testReport("AAPL"))
		assert.NoError(t, err, "Failed to write first report")
		err = writer.WriteReport(testReport("MSFT"))
		assert.NoError(t, err, "Failed to write second report")

		dirs, err := os.ReadDir(tempDir)
		assert.NoError(t, err, "Failed to read temp directory")
		assert.Equal(t, 1, len(dirs), "Both reports should share one run directory")

		entries, err := os.ReadDir(filepath.Join(tempDir, dirs[0].Name()))
		assert.NoError(t, err, "Failed to read run directory")

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}

		assert.Len(t, names, 6, "Each symbol should contribute three files")
		assert.Contains(t, names, "AAPL_analysis.csv")
		assert.Contains(t, names, "AAPL_recommendation.yaml")
		assert.Contains(t, names, "AAPL_summary.yaml")
		assert.Contains(t, names, "MSFT_analysis.csv")
		assert.Contains(t, names, "MSFT_recommendation.yaml")
		assert.Contains(t, names, "MSFT_summary.yaml")
	})
}

func TestCSVWriter_BaseDirError(t *testing.T) {
	t.Run("test_unwritable_base_directory", func(t *testing.T) {
		tempDir := t.TempDir()

		// A regular file where a directory component is expected
		blocked := filepath.Join(tempDir, "blocked")
		err := os.WriteFile(blocked, []byte("not a directory"), 0644)
		assert.NoError(t, err, "Failed to create blocking file")

		_, err = NewCSVWriter(filepath.Join(blocked, "results"), 2)
		assert.Error(t, err, "Should fail when the base directory cannot be created")
		assert.True(t, errors.HasCode(err, errors.ErrCodeExportFailed), "Should carry the export error code")
	})
}
