package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine()
}

// buildSeries creates a daily price series starting on 2024-01-01.
func (suite *EngineTestSuite) buildSeries(prices []float64) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]types.PricePoint, len(prices))

	for i, p := range prices {
		points[i] = types.PricePoint{
			Time:  start.AddDate(0, 0, i),
			Price: p,
		}
	}

	return types.PriceSeries{Symbol: "TEST", Points: points}
}

func (suite *EngineTestSuite) flatPrices(n int, price float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = price
	}

	return prices
}

func (suite *EngineTestSuite) zigzagPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 0.05*float64(i) + 0.15*float64(i%2)
	}

	return prices
}

func (suite *EngineTestSuite) TestDefaultParams() {
	params := DefaultParams()

	suite.Equal(50, params.SMAFast)
	suite.Equal(200, params.SMASlow)
	suite.Equal(14, params.RSIPeriod)
	suite.Equal(12, params.MACDFast)
	suite.Equal(26, params.MACDSlow)
	suite.Equal(9, params.MACDSignal)
}

func (suite *EngineTestSuite) TestNewEngineWithParamsValid() {
	params := Params{
		SMAFast:    10,
		SMASlow:    30,
		RSIPeriod:  7,
		MACDFast:   5,
		MACDSlow:   15,
		MACDSignal: 4,
	}

	engine, err := NewEngineWithParams(params)
	suite.NoError(err)
	suite.Equal(params, engine.Params())
}

func (suite *EngineTestSuite) TestNewEngineWithParamsInvalid() {
	valid := Params{
		SMAFast:    10,
		SMASlow:    30,
		RSIPeriod:  7,
		MACDFast:   5,
		MACDSlow:   15,
		MACDSignal: 4,
	}

	// Slow SMA window not greater than the fast one.
	params := valid
	params.SMASlow = 10
	_, err := NewEngineWithParams(params)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	// Slow MACD span not greater than the fast one.
	params = valid
	params.MACDSlow = 5
	_, err = NewEngineWithParams(params)
	suite.Error(err)

	// Missing period.
	params = valid
	params.RSIPeriod = 0
	_, err = NewEngineWithParams(params)
	suite.Error(err)
}

func (suite *EngineTestSuite) TestComputeEmptySeries() {
	series := types.PriceSeries{Symbol: "AAPL", Points: nil}

	_, err := suite.engine.Compute(series, optional.None[types.VolumeSeries](), types.DefaultIndicatorSet())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (suite *EngineTestSuite) TestComputeMisalignedVolume() {
	series := suite.buildSeries(suite.flatPrices(10, 100))
	volume := types.VolumeSeries{Symbol: "TEST", Values: make([]float64, 9)}

	_, err := suite.engine.Compute(series, optional.Some(volume), types.DefaultIndicatorSet())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMisalignedSeries))
}

func (suite *EngineTestSuite) TestComputeFlatSeries() {
	series := suite.buildSeries(suite.flatPrices(250, 100))

	result, err := suite.engine.Compute(series, optional.None[types.VolumeSeries](), types.DefaultIndicatorSet())
	suite.Require().NoError(err)
	suite.Equal("TEST", result.Symbol)
	suite.Equal(250, result.Len())

	// Each column becomes defined exactly when its lookback is filled.
	suite.True(result.Points[48].SMA50.IsNone())
	suite.InDelta(100.0, result.Points[49].SMA50.Unwrap(), 1e-9)
	suite.True(result.Points[198].SMA200.IsNone())
	suite.InDelta(100.0, result.Points[199].SMA200.Unwrap(), 1e-9)
	suite.True(result.Points[13].RSI.IsNone())
	suite.InDelta(100.0, result.Points[14].RSI.Unwrap(), 1e-9)
	suite.InDelta(0.0, result.Points[0].MACD.Unwrap(), 1e-9)
	suite.InDelta(0.0, result.Points[0].Signal.Unwrap(), 1e-9)

	last, ok := result.Last()
	suite.True(ok)
	suite.InDelta(100.0, last.SMA50.Unwrap(), 1e-9)
	suite.InDelta(100.0, last.SMA200.Unwrap(), 1e-9)
	suite.InDelta(100.0, last.RSI.Unwrap(), 1e-9)
	suite.InDelta(0.0, last.MACD.Unwrap(), 1e-9)
	suite.InDelta(0.0, last.Signal.Unwrap(), 1e-9)
}

func (suite *EngineTestSuite) TestComputeZigzagValues() {
	series := suite.buildSeries(suite.zigzagPrices(300))

	result, err := suite.engine.Compute(series, optional.None[types.VolumeSeries](), types.DefaultIndicatorSet())
	suite.Require().NoError(err)

	last, ok := result.Last()
	suite.Require().True(ok)

	// Closed forms over the trailing windows of the linear zigzag.
	suite.InDelta(113.80, last.SMA50.Unwrap(), 1e-6)
	suite.InDelta(110.05, last.SMA200.Unwrap(), 1e-6)
	suite.InDelta(100.0-100.0/3.0, last.RSI.Unwrap(), 1e-6)
}

func (suite *EngineTestSuite) TestComputeFlagsDisableColumns() {
	series := suite.buildSeries(suite.zigzagPrices(250))
	flags := types.IndicatorSet{SMA: false, RSI: true, MACD: false}

	result, err := suite.engine.Compute(series, optional.None[types.VolumeSeries](), flags)
	suite.Require().NoError(err)

	last, ok := result.Last()
	suite.Require().True(ok)
	suite.True(last.SMA50.IsNone())
	suite.True(last.SMA200.IsNone())
	suite.True(last.RSI.IsSome())
	suite.True(last.MACD.IsNone())
	suite.True(last.Signal.IsNone())

	// Price and time are carried regardless of the flags.
	suite.InDelta(series.Points[249].Price, last.Price, 1e-9)
	suite.Equal(series.Points[249].Time, last.Time)
}

func (suite *EngineTestSuite) TestComputeAttachesVolume() {
	prices := suite.flatPrices(5, 100)
	series := suite.buildSeries(prices)

	values := []float64{10, 20, math.NaN(), 40, 50}
	volume := types.VolumeSeries{Symbol: "TEST", Values: values}

	result, err := suite.engine.Compute(series, optional.Some(volume), types.DefaultIndicatorSet())
	suite.Require().NoError(err)

	suite.InDelta(10.0, result.Points[0].Volume.Unwrap(), 1e-9)
	suite.InDelta(20.0, result.Points[1].Volume.Unwrap(), 1e-9)
	suite.True(result.Points[2].Volume.IsNone())
	suite.InDelta(40.0, result.Points[3].Volume.Unwrap(), 1e-9)
	suite.InDelta(50.0, result.Points[4].Volume.Unwrap(), 1e-9)
}

func (suite *EngineTestSuite) TestComputeIsDeterministic() {
	series := suite.buildSeries(suite.zigzagPrices(300))

	first, err := suite.engine.Compute(series, optional.None[types.VolumeSeries](), types.DefaultIndicatorSet())
	suite.Require().NoError(err)

	second, err := suite.engine.Compute(series, optional.None[types.VolumeSeries](), types.DefaultIndicatorSet())
	suite.Require().NoError(err)

	suite.Equal(first, second)
}

func (suite *EngineTestSuite) TestComputeSinglePoint() {
	series := suite.buildSeries([]float64{100})

	result, err := suite.engine.Compute(series, optional.None[types.VolumeSeries](), types.DefaultIndicatorSet())
	suite.Require().NoError(err)
	suite.Equal(1, result.Len())

	point := result.Points[0]
	suite.True(point.SMA50.IsNone())
	suite.True(point.SMA200.IsNone())
	suite.True(point.RSI.IsNone())

	// MACD needs no warmup beyond its seed.
	suite.InDelta(0.0, point.MACD.Unwrap(), 1e-9)
	suite.InDelta(0.0, point.Signal.Unwrap(), 1e-9)
}
