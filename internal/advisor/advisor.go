// Package advisor turns the latest point of an augmented series into a
// BUY/SELL/HOLD recommendation with the conditions that produced it. Like
// the indicator engine it is pure and never returns an error: when the
// inputs it needs are not available, the answer is HOLD with a single
// explanatory reason.
package advisor

import (
	"math"

	"github.com/dmirandah/accionpro/internal/types"
)

// Reason strings are user-facing output and are kept verbatim, including
// their Spanish wording.
const (
	ReasonInsufficient = "Faltan indicadores para generar una recomendación."
	ReasonBullishTrend = "Tendencia alcista (Precio > SMA200 > SMA50)"
	ReasonBearishTrend = "Tendencia bajista (Precio < SMA200 < SMA50)"
	ReasonGoldenCross  = "Golden Cross (SMA50 > SMA200)"
	ReasonDeathCross   = "Death Cross (SMA50 < SMA200)"
	ReasonOverbought   = "RSI alto (>70) - posible sobrecompra"
	ReasonOversold     = "RSI bajo (<30) - posible sobreventa"
)

// Thresholds carries the tunable RSI bounds. The reason strings keep their
// fixed 70/30 wording either way; custom bounds change when the rules fire,
// not how they read.
type Thresholds struct {
	RSIUpper float64 `yaml:"rsi_upper" json:"rsi_upper" jsonschema:"title=RSI Upper Threshold,description=RSI above this counts as overbought,minimum=0,maximum=100" validate:"required,gt=0,lt=100,gtfield=RSILower"`
	RSILower float64 `yaml:"rsi_lower" json:"rsi_lower" jsonschema:"title=RSI Lower Threshold,description=RSI below this counts as oversold,minimum=0,maximum=100" validate:"required,gt=0,lt=100"`
}

// DefaultThresholds returns the standard 70/30 RSI bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{RSIUpper: 70, RSILower: 30}
}

// Advisor scores the latest indicator snapshot against a fixed rule table.
type Advisor struct {
	rsiUpperThreshold float64
	rsiLowerThreshold float64
	buyScore          int
	sellScore         int
}

// NewAdvisor creates an advisor with the default thresholds: RSI 70/30 and
// a verdict cut at a score of +2/-2.
func NewAdvisor() *Advisor {
	return NewAdvisorWithThresholds(DefaultThresholds())
}

// NewAdvisorWithThresholds creates an advisor with custom RSI bounds. The
// score cut stays at +2/-2.
func NewAdvisorWithThresholds(t Thresholds) *Advisor {
	return &Advisor{
		rsiUpperThreshold: t.RSIUpper,
		rsiLowerThreshold: t.RSILower,
		buyScore:          2,
		sellScore:         -2,
	}
}

// Recommend reads the most recent point's price, SMA pair and RSI and
// classifies it. If any of those four values is unavailable, whether the
// column was never computed or the latest point predates its lookback, the
// result is HOLD with exactly one reason; this is the sole fallback path.
//
// Otherwise every rule group is evaluated independently. Opposing
// contributions are allowed to cancel, strict inequality means a tie fires
// neither branch of a pair, and each fired condition is appended in rule
// order regardless of the final classification.
func (a *Advisor) Recommend(series types.AugmentedSeries) types.Recommendation {
	last, ok := series.Last()

	//nolint:exhaustruct // reasons filled below
	rec := types.Recommendation{
		Symbol:  series.Symbol,
		Time:    last.Time,
		Verdict: types.VerdictHold,
	}

	if !ok || math.IsNaN(last.Price) ||
		last.SMA50.IsNone() || last.SMA200.IsNone() || last.RSI.IsNone() {
		rec.Reasons = []string{ReasonInsufficient}

		return rec
	}

	price := last.Price
	smaFast := last.SMA50.Unwrap()
	smaSlow := last.SMA200.Unwrap()
	rsi := last.RSI.Unwrap()

	score := 0

	var reasons []string

	if price > smaSlow && smaFast > smaSlow {
		score++

		reasons = append(reasons, ReasonBullishTrend)
	} else if price < smaSlow && smaFast < smaSlow {
		score--

		reasons = append(reasons, ReasonBearishTrend)
	}

	if smaFast > smaSlow {
		score++

		reasons = append(reasons, ReasonGoldenCross)
	} else if smaFast < smaSlow {
		score--

		reasons = append(reasons, ReasonDeathCross)
	}

	if rsi > a.rsiUpperThreshold {
		score--

		reasons = append(reasons, ReasonOverbought)
	} else if rsi < a.rsiLowerThreshold {
		score++

		reasons = append(reasons, ReasonOversold)
	}

	rec.Score = score
	rec.Reasons = reasons

	switch {
	case score >= a.buyScore:
		rec.Verdict = types.VerdictBuy
	case score <= a.sellScore:
		rec.Verdict = types.VerdictSell
	default:
		rec.Verdict = types.VerdictHold
	}

	return rec
}
