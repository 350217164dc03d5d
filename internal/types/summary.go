package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Summary condenses an analysis window: the price change across it and the
// most recent value of each indicator column. Indicator fields stay None when
// the column was not computed or never became defined.
type Summary struct {
	Symbol     string
	From       time.Time
	To         time.Time
	Points     int
	FirstPrice float64
	LastPrice  float64
	// Change is the absolute price move over the window; ChangePct the move
	// relative to the first price, in percent.
	Change    float64
	ChangePct float64
	SMA50     optional.Option[float64]
	SMA200    optional.Option[float64]
	RSI       optional.Option[float64]
	MACD      optional.Option[float64]
	Signal    optional.Option[float64]
}
