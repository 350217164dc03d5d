// Package indicator computes technical indicator columns over a price
// series. The engine is pure: it holds no mutable state, performs no I/O,
// and concurrent Compute calls for different instruments need no
// coordination. Insufficient history never produces an error; the affected
// values simply stay undefined.
package indicator

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

// Params holds the lookback windows for every indicator family.
type Params struct {
	SMAFast    int `yaml:"sma_fast" json:"sma_fast" jsonschema:"title=Fast SMA Window,description=Trailing window of the fast simple moving average,minimum=1" validate:"required,min=1"`
	SMASlow    int `yaml:"sma_slow" json:"sma_slow" jsonschema:"title=Slow SMA Window,description=Trailing window of the slow simple moving average,minimum=1" validate:"required,min=1,gtfield=SMAFast"`
	RSIPeriod  int `yaml:"rsi_period" json:"rsi_period" jsonschema:"title=RSI Period,description=Lookback period of the relative strength index,minimum=1" validate:"required,min=1"`
	MACDFast   int `yaml:"macd_fast" json:"macd_fast" jsonschema:"title=MACD Fast Span,description=Span of the fast exponential average,minimum=1" validate:"required,min=1"`
	MACDSlow   int `yaml:"macd_slow" json:"macd_slow" jsonschema:"title=MACD Slow Span,description=Span of the slow exponential average,minimum=1" validate:"required,min=1,gtfield=MACDFast"`
	MACDSignal int `yaml:"macd_signal" json:"macd_signal" jsonschema:"title=MACD Signal Span,description=Span of the signal line average,minimum=1" validate:"required,min=1"`
}

// DefaultParams returns the standard windows: SMA 50/200, RSI 14, MACD 12/26/9.
func DefaultParams() Params {
	return Params{
		SMAFast:    50,
		SMASlow:    200,
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
	}
}

// Engine computes indicator columns for a price series.
type Engine struct {
	params Params
}

// NewEngine creates an engine with the default parameters.
func NewEngine() *Engine {
	return &Engine{params: DefaultParams()}
}

// NewEngineWithParams creates an engine with custom windows after validating them.
func NewEngineWithParams(params Params) (*Engine, error) {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPeriod, "invalid indicator parameters", err)
	}

	return &Engine{params: params}, nil
}

// Params returns the engine's configured windows.
func (e *Engine) Params() Params {
	return e.params
}

// Compute derives the selected indicator columns for the series and returns
// them attached index by index. The only error conditions are an empty
// series and a volume series whose length does not match the price series;
// a window longer than the series just yields undefined values.
func (e *Engine) Compute(series types.PriceSeries, volume optional.Option[types.VolumeSeries], flags types.IndicatorSet) (types.AugmentedSeries, error) {
	if series.Len() == 0 {
		return types.AugmentedSeries{}, errors.Newf(errors.ErrCodeEmptySeries, "price series for %q is empty", series.Symbol)
	}

	if volume.IsSome() && volume.Unwrap().Len() != series.Len() {
		return types.AugmentedSeries{}, errors.Newf(errors.ErrCodeMisalignedSeries,
			"volume series has %d values for %d price points", volume.Unwrap().Len(), series.Len())
	}

	n := series.Len()

	prices := make([]float64, n)
	for i, p := range series.Points {
		prices[i] = p.Price
	}

	var smaFast, smaSlow, rsi, macdLine, signalLine []optional.Option[float64]

	if flags.SMA {
		smaFast = rollingMean(prices, e.params.SMAFast)
		smaSlow = rollingMean(prices, e.params.SMASlow)
	}

	if flags.RSI {
		rsi = relativeStrengthIndex(prices, e.params.RSIPeriod)
	}

	if flags.MACD {
		macdLine, signalLine = macdLines(prices, e.params.MACDFast, e.params.MACDSlow, e.params.MACDSignal)
	}

	points := make([]types.AugmentedPoint, n)

	for i := range points {
		//nolint:exhaustruct // optional columns default to None
		point := types.AugmentedPoint{
			Time:  series.Points[i].Time,
			Price: series.Points[i].Price,
		}

		if volume.IsSome() {
			if v := volume.Unwrap().Values[i]; isFinite(v) {
				point.Volume = optional.Some(v)
			}
		}

		if flags.SMA {
			point.SMA50 = smaFast[i]
			point.SMA200 = smaSlow[i]
		}

		if flags.RSI {
			point.RSI = rsi[i]
		}

		if flags.MACD {
			point.MACD = macdLine[i]
			point.Signal = signalLine[i]
		}

		points[i] = point
	}

	return types.AugmentedSeries{Symbol: series.Symbol, Points: points}, nil
}

// isFinite reports whether v is a usable number (not NaN, not infinite).
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
