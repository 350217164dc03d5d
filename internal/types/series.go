package types

import "time"

// PricePoint is one observation of the primary price.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries is an ordered sequence of price observations with strictly
// increasing timestamps. The analysis core never mutates one; it builds a new
// AugmentedSeries instead.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int {
	return len(s.Points)
}

// VolumeSeries holds traded volume aligned index by index with a PriceSeries.
type VolumeSeries struct {
	Symbol string
	Values []float64
}

// Len returns the number of volume observations.
func (s VolumeSeries) Len() int {
	return len(s.Values)
}

// NewPriceSeries builds a PriceSeries and its aligned VolumeSeries from raw
// candles. Candles are assumed to be sorted by time ascending, which every
// provider in this module guarantees.
func NewPriceSeries(symbol string, candles []Candle) (PriceSeries, VolumeSeries) {
	points := make([]PricePoint, 0, len(candles))
	volumes := make([]float64, 0, len(candles))

	for _, c := range candles {
		points = append(points, PricePoint{Time: c.Time, Price: c.PrimaryPrice()})
		volumes = append(volumes, c.Volume)
	}

	return PriceSeries{Symbol: symbol, Points: points},
		VolumeSeries{Symbol: symbol, Values: volumes}
}
