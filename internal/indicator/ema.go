package indicator

import (
	"github.com/moznion/go-optional"
)

// exponentialMovingAverage computes the EMA recursion seeded by the first
// finite value: ema[0] = value[0], then
// ema[i] = value[i]*alpha + ema[i-1]*(1-alpha).
// Use alpha = 2/(span+1) to match the pandas ewm implementation with
// adjust=False. There is no warmup window: the average is defined from its
// seed onward. A non-finite input keeps the average at its previous value
// for that index; inputs before the seed stay undefined.
func exponentialMovingAverage(values []float64, span int) []optional.Option[float64] {
	result := make([]optional.Option[float64], len(values))
	if span <= 0 {
		return result
	}

	alpha := 2.0 / float64(span+1)

	seeded := false
	ema := 0.0

	for i, v := range values {
		switch {
		case !seeded && isFinite(v):
			ema = v
			seeded = true
		case seeded && isFinite(v):
			ema = v*alpha + ema*(1-alpha)
		}

		if seeded {
			result[i] = optional.Some(ema)
		}
	}

	return result
}
