package indicator

import (
	"github.com/moznion/go-optional"
)

// rollingMean computes the trailing simple moving average over the given
// window. Values stay undefined until the window is filled, and any
// non-finite value inside the window leaves that index undefined as well.
func rollingMean(values []float64, window int) []optional.Option[float64] {
	result := make([]optional.Option[float64], len(values))
	if window <= 0 {
		return result
	}

	sum := 0.0
	invalid := 0

	for i, v := range values {
		if isFinite(v) {
			sum += v
		} else {
			invalid++
		}

		if i >= window {
			if out := values[i-window]; isFinite(out) {
				sum -= out
			} else {
				invalid--
			}
		}

		if i >= window-1 && invalid == 0 {
			result[i] = optional.Some(sum / float64(window))
		}
	}

	return result
}
