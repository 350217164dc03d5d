package types

import "time"

// Verdict is the discrete trading recommendation.
type Verdict string

const (
	// VerdictBuy signals that the scored conditions favor entering.
	VerdictBuy Verdict = "buy"
	// VerdictSell signals that the scored conditions favor exiting.
	VerdictSell Verdict = "sell"
	// VerdictHold signals no actionable edge, including the case where the
	// indicators needed to score are not available.
	VerdictHold Verdict = "hold"
)

// Label returns the Spanish display label used on every report surface.
func (v Verdict) Label() string {
	switch v {
	case VerdictBuy:
		return "COMPRA"
	case VerdictSell:
		return "VENTA"
	case VerdictHold:
		return "MANTENER"
	default:
		return string(v)
	}
}

// Recommendation is the recommendation engine's result for one symbol: the
// verdict, the score behind it, and every condition that fired, in evaluation
// order. Computed fresh on each invocation; never persisted by the core.
type Recommendation struct {
	// Symbol is the instrument the recommendation applies to.
	Symbol string `yaml:"symbol" json:"symbol"`
	// Time is the timestamp of the evaluated point.
	Time time.Time `yaml:"time" json:"time"`
	// Verdict is the classified outcome.
	Verdict Verdict `yaml:"verdict" json:"verdict"`
	// Score is the accumulated rule score the verdict was cut from.
	Score int `yaml:"score" json:"score"`
	// Reasons lists each fired condition verbatim, in rule order.
	Reasons []string `yaml:"reasons" json:"reasons"`
}
