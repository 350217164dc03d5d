package indicator

import (
	"github.com/moznion/go-optional"
)

// relativeStrengthIndex computes the RSI over the trailing period using
// simple rolling means of gains and losses. The first delta exists at index
// 1, so the oscillator is defined from index period onward. A zero average
// loss saturates the value to 100 instead of dividing by zero; that covers
// both the pure uptrend and the completely flat series. Non-finite deltas
// contribute no gain and no loss, so erroneous bars cannot poison the
// rolling means.
func relativeStrengthIndex(prices []float64, period int) []optional.Option[float64] {
	result := make([]optional.Option[float64], len(prices))
	if period <= 0 || len(prices) < 2 {
		return result
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))

	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		switch {
		case !isFinite(delta):
		case delta > 0:
			gains[i] = delta
		case delta < 0:
			losses[i] = -delta
		}
	}

	sumGain := 0.0
	sumLoss := 0.0

	for i := 1; i < len(prices); i++ {
		sumGain += gains[i]
		sumLoss += losses[i]

		if i > period {
			sumGain -= gains[i-period]
			sumLoss -= losses[i-period]
		}

		if i < period {
			continue
		}

		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		if avgLoss == 0 {
			result[i] = optional.Some(100.0)
			continue
		}

		rs := avgGain / avgLoss
		result[i] = optional.Some(100 - (100 / (1 + rs)))
	}

	return result
}
