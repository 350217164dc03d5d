package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

// binancePageSize is the kline count Binance returns per request without an
// explicit limit; a shorter page marks the last one.
const binancePageSize = 500

// BinanceKlinesService abstracts the kline request builder so tests can
// substitute canned pages.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient abstracts the part of the Binance client this provider
// uses.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

// binanceAPIAdapter adapts the concrete Binance client to BinanceAPIClient.
type binanceAPIAdapter struct {
	client *binance.Client
}

func (a *binanceAPIAdapter) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesAdapter{service: a.client.NewKlinesService()}
}

type binanceKlinesAdapter struct {
	service *binance.KlinesService
}

func (a *binanceKlinesAdapter) Symbol(symbol string) BinanceKlinesService {
	a.service.Symbol(symbol)

	return a
}

func (a *binanceKlinesAdapter) Interval(interval string) BinanceKlinesService {
	a.service.Interval(interval)

	return a
}

func (a *binanceKlinesAdapter) StartTime(startTime int64) BinanceKlinesService {
	a.service.StartTime(startTime)

	return a
}

func (a *binanceKlinesAdapter) EndTime(endTime int64) BinanceKlinesService {
	a.service.EndTime(endTime)

	return a
}

func (a *binanceKlinesAdapter) Do(ctx context.Context) ([]*binance.Kline, error) {
	return a.service.Do(ctx)
}

// BinanceClient fetches daily klines from the public Binance market data
// API, which needs no authentication. Symbols are passed verbatim, so crypto
// pairs use Binance naming (BTCUSDT rather than BTC-USD).
type BinanceClient struct {
	apiClient BinanceAPIClient
}

// NewBinanceClient creates a Binance provider.
func NewBinanceClient() (Provider, error) {
	client := binance.NewClient("", "")

	return &BinanceClient{
		apiClient: &binanceAPIAdapter{client: client},
	}, nil
}

// NewBinanceClientWithAPI creates a Binance provider around an existing API
// client, used in tests.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{apiClient: apiClient}
}

func (c *BinanceClient) Name() string {
	return string(ProviderBinance)
}

// FetchDaily downloads the daily klines for the date range, paginating past
// the per-request limit. Klines never carry a separate adjusted close;
// crypto prices need no adjustment, so AdjClose stays None and the close is
// used as is.
func (c *BinanceClient) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	// Binance API uses milliseconds for timestamps.
	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()

	currentStartTime := startMillis

	var candles []types.Candle

	for {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(currentStartTime).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch klines from Binance for %s", symbol)
		}

		candles = append(candles, convertKlines(symbol, klines)...)

		// A short page is the last one.
		if len(klines) < binancePageSize {
			break
		}

		// Continue from the close time of the last kline + 1ms to avoid
		// duplicates.
		lastKline := klines[len(klines)-1]
		currentStartTime = lastKline.CloseTime + 1

		if currentStartTime >= endMillis {
			break
		}
	}

	if len(candles) == 0 {
		return nil, errors.NewNoDataError(symbol, start, end)
	}

	return candles, nil
}

// convertKlines converts Binance kline data to candles, using the open time
// as the bar timestamp.
func convertKlines(symbol string, klines []*binance.Kline) []types.Candle {
	candles := make([]types.Candle, 0, len(klines))

	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		candles = append(candles, types.Candle{
			Symbol:   symbol,
			Time:     time.UnixMilli(k.OpenTime).UTC(),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			Volume:   volume,
			AdjClose: optional.None[float64](),
		})
	}

	return candles
}
