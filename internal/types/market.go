package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Candle is a single daily bar as delivered by a market data provider.
// AdjClose carries the split/dividend adjusted close for feeds that publish
// one; feeds whose bars are already adjusted leave it None.
type Candle struct {
	Symbol   string                   `csv:"symbol"`
	Time     time.Time                `csv:"time"`
	Open     float64                  `csv:"open"`
	High     float64                  `csv:"high"`
	Low      float64                  `csv:"low"`
	Close    float64                  `csv:"close"`
	Volume   float64                  `csv:"volume"`
	AdjClose optional.Option[float64] `csv:"adj_close"`
}

// PrimaryPrice returns the price the analysis runs on: the adjusted close
// when present, the raw close otherwise.
func (c Candle) PrimaryPrice() float64 {
	return c.AdjClose.TakeOr(c.Close)
}
