package analyzer

import (
	"github.com/moznion/go-optional"

	"github.com/dmirandah/accionpro/internal/types"
)

// Summarize condenses an augmented series into the window summary: the price
// change across the window and the most recent defined value of each
// indicator column.
func Summarize(series types.AugmentedSeries) types.Summary {
	//nolint:exhaustruct // indicator columns stay None until resolved below
	summary := types.Summary{
		Symbol: series.Symbol,
		Points: series.Len(),
	}

	if series.Len() == 0 {
		return summary
	}

	first := series.Points[0]
	last := series.Points[series.Len()-1]

	summary.From = first.Time
	summary.To = last.Time
	summary.FirstPrice = first.Price
	summary.LastPrice = last.Price
	summary.Change = last.Price - first.Price

	if first.Price != 0 {
		summary.ChangePct = summary.Change / first.Price * 100
	}

	summary.SMA50 = latestDefined(series.Points, func(p types.AugmentedPoint) optional.Option[float64] { return p.SMA50 })
	summary.SMA200 = latestDefined(series.Points, func(p types.AugmentedPoint) optional.Option[float64] { return p.SMA200 })
	summary.RSI = latestDefined(series.Points, func(p types.AugmentedPoint) optional.Option[float64] { return p.RSI })
	summary.MACD = latestDefined(series.Points, func(p types.AugmentedPoint) optional.Option[float64] { return p.MACD })
	summary.Signal = latestDefined(series.Points, func(p types.AugmentedPoint) optional.Option[float64] { return p.Signal })

	return summary
}

// latestDefined walks backwards to the most recent defined value of one
// indicator column.
func latestDefined(points []types.AugmentedPoint, column func(types.AugmentedPoint) optional.Option[float64]) optional.Option[float64] {
	for i := len(points) - 1; i >= 0; i-- {
		if value := column(points[i]); value.IsSome() {
			return value
		}
	}

	return optional.None[float64]()
}
