package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// macdLines derives the MACD line (fast EMA minus slow EMA of price) and its
// signal line (EMA of the MACD line, seeded by the first MACD value). With a
// clean series both lines are defined from index 0, where the two seed EMAs
// coincide and MACD is exactly zero. The first ~slow-span values are
// low-confidence by construction; that is accepted behavior.
func macdLines(prices []float64, fast, slow, signal int) (macd, signalLine []optional.Option[float64]) {
	fastEMA := exponentialMovingAverage(prices, fast)
	slowEMA := exponentialMovingAverage(prices, slow)

	macd = make([]optional.Option[float64], len(prices))
	macdValues := make([]float64, len(prices))

	for i := range prices {
		if fastEMA[i].IsNone() || slowEMA[i].IsNone() {
			macdValues[i] = math.NaN()
			continue
		}

		diff := fastEMA[i].Unwrap() - slowEMA[i].Unwrap()
		macd[i] = optional.Some(diff)
		macdValues[i] = diff
	}

	signalLine = exponentialMovingAverage(macdValues, signal)

	return macd, signalLine
}
