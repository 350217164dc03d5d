package marketdata

import "github.com/dmirandah/accionpro/pkg/marketdata/provider"

// ProviderInfo describes a registered provider for display purposes.
type ProviderInfo struct {
	Type        provider.ProviderType
	Description string
	Markets     string
	RequiresKey bool
}

// Providers lists every registered provider in display order.
func Providers() []ProviderInfo {
	return []ProviderInfo{
		{
			Type:        provider.ProviderYahoo,
			Description: "Yahoo Finance chart API, split/dividend adjusted closes",
			Markets:     "stocks, ETFs, indices, crypto",
			RequiresKey: false,
		},
		{
			Type:        provider.ProviderBinance,
			Description: "Binance public klines, exchange symbol naming (BTCUSDT)",
			Markets:     "crypto",
			RequiresKey: false,
		},
		{
			Type:        provider.ProviderPolygon,
			Description: "Polygon.io adjusted daily aggregates",
			Markets:     "stocks, options, forex, crypto",
			RequiresKey: true,
		},
	}
}
