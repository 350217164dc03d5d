package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeSMA50  IndicatorType = "sma_50"
	IndicatorTypeSMA200 IndicatorType = "sma_200"
	IndicatorTypeRSI    IndicatorType = "rsi"
	IndicatorTypeMACD   IndicatorType = "macd"
	IndicatorTypeSignal IndicatorType = "signal"
)

// IndicatorSet selects which indicator families the engine computes. A
// cleared flag leaves the dependent columns undefined, which in turn keeps
// the dependent recommendation rules from firing.
type IndicatorSet struct {
	SMA  bool `yaml:"sma" json:"sma"`
	RSI  bool `yaml:"rsi" json:"rsi"`
	MACD bool `yaml:"macd" json:"macd"`
}

// DefaultIndicatorSet enables every indicator family.
func DefaultIndicatorSet() IndicatorSet {
	return IndicatorSet{SMA: true, RSI: true, MACD: true}
}

// AugmentedPoint is one row of an AugmentedSeries: the input price plus every
// derived value at the same index. None marks an undefined value, whether the
// column was never computed, its lookback window is not yet filled, or a NaN
// input poisoned it. A Some value is always finite.
type AugmentedPoint struct {
	Time   time.Time
	Price  float64
	Volume optional.Option[float64]
	SMA50  optional.Option[float64]
	SMA200 optional.Option[float64]
	RSI    optional.Option[float64]
	MACD   optional.Option[float64]
	Signal optional.Option[float64]
}

// AugmentedSeries is the indicator engine's output: the input series with the
// derived columns attached, index for index.
type AugmentedSeries struct {
	Symbol string
	Points []AugmentedPoint
}

// Len returns the number of points in the series.
func (s AugmentedSeries) Len() int {
	return len(s.Points)
}

// Last returns the most recent point, or false when the series is empty.
func (s AugmentedSeries) Last() (AugmentedPoint, bool) {
	if len(s.Points) == 0 {
		return AugmentedPoint{}, false
	}

	return s.Points[len(s.Points)-1], true
}
