package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestUndefinedBeforePeriod() {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	result := relativeStrengthIndex(prices, 14)

	for i := 0; i < 14; i++ {
		suite.True(result[i].IsNone(), "index %d should be undefined", i)
	}

	suite.True(result[14].IsSome())
}

func (suite *RSITestSuite) TestPureUptrendSaturatesAt100() {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	result := relativeStrengthIndex(prices, 14)

	for i := 14; i < len(prices); i++ {
		suite.InDelta(100.0, result[i].Unwrap(), 1e-9)
	}
}

func (suite *RSITestSuite) TestPureDowntrendIsZero() {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}

	result := relativeStrengthIndex(prices, 14)

	for i := 14; i < len(prices); i++ {
		suite.InDelta(0.0, result[i].Unwrap(), 1e-9)
	}
}

func (suite *RSITestSuite) TestFlatSeriesSaturatesAt100() {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100.0
	}

	result := relativeStrengthIndex(prices, 14)

	for i := 14; i < len(prices); i++ {
		suite.InDelta(100.0, result[i].Unwrap(), 1e-9)
	}
}

func (suite *RSITestSuite) TestHandComputedValues() {
	prices := []float64{1, 2, 3, 2, 3}
	result := relativeStrengthIndex(prices, 2)

	suite.True(result[0].IsNone())
	suite.True(result[1].IsNone())

	// Deltas +1,+1: avg gain 1, avg loss 0.
	suite.InDelta(100.0, result[2].Unwrap(), 1e-9)

	// Deltas +1,-1: avg gain 0.5, avg loss 0.5, RS 1.
	suite.InDelta(50.0, result[3].Unwrap(), 1e-9)

	// Deltas -1,+1: same averages as above.
	suite.InDelta(50.0, result[4].Unwrap(), 1e-9)
}

func (suite *RSITestSuite) TestAlternatingGainsAndLosses() {
	// Alternating +0.20 and -0.10 deltas: over any 14 consecutive deltas the
	// average gain is 0.10 and the average loss is 0.05, so RS is 2 and the
	// oscillator sits at 100 - 100/3.
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + 0.05*float64(i) + 0.15*float64(i%2)
	}

	result := relativeStrengthIndex(prices, 14)

	for i := 14; i < len(prices); i++ {
		suite.InDelta(100.0-100.0/3.0, result[i].Unwrap(), 1e-6)
	}
}

func (suite *RSITestSuite) TestNaNDeltasContributeNothing() {
	prices := []float64{10, math.NaN(), 10, 9, 8}
	result := relativeStrengthIndex(prices, 2)

	// Both deltas around the NaN are dropped, leaving zero gain and zero
	// loss, which saturates like a flat window.
	suite.InDelta(100.0, result[2].Unwrap(), 1e-9)

	// From here only the real losses count.
	suite.InDelta(0.0, result[3].Unwrap(), 1e-9)
	suite.InDelta(0.0, result[4].Unwrap(), 1e-9)
}

func (suite *RSITestSuite) TestStaysWithinBounds() {
	prices := make([]float64, 120)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)*0.7)
	}

	result := relativeStrengthIndex(prices, 14)

	for i := 14; i < len(prices); i++ {
		value := result[i].Unwrap()
		suite.GreaterOrEqual(value, 0.0)
		suite.LessOrEqual(value, 100.0)
	}
}

func (suite *RSITestSuite) TestTooShortSeries() {
	result := relativeStrengthIndex([]float64{100}, 14)
	suite.Len(result, 1)
	suite.True(result[0].IsNone())
}

func (suite *RSITestSuite) TestInvalidPeriod() {
	prices := []float64{1, 2, 3}

	for _, period := range []int{0, -3} {
		result := relativeStrengthIndex(prices, period)
		for i := range result {
			suite.True(result[i].IsNone())
		}
	}
}
