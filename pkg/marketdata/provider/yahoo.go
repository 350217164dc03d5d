package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches daily bars from the public Yahoo Finance chart API.
// No API key is required; Yahoo does reject requests without a browser-like
// User-Agent.
type YahooClient struct {
	client  *http.Client
	baseURL string
}

// NewYahooClient creates a Yahoo provider against the public endpoint.
func NewYahooClient() Provider {
	return NewYahooClientWithBaseURL(yahooBaseURL)
}

// NewYahooClientWithBaseURL creates a Yahoo provider against a custom
// endpoint. Tests point this at a local mock server.
func NewYahooClientWithBaseURL(baseURL string) Provider {
	return &YahooClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

func (c *YahooClient) Name() string {
	return string(ProviderYahoo)
}

// yahooChart is the response structure of the Yahoo Finance chart API.
// Price arrays use pointers because Yahoo emits null entries for holidays
// and halted sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *YahooClient) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		c.baseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to build yahoo request for %s", symbol)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "yahoo fetch for %s failed", symbol)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to read yahoo response for %s", symbol)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, errors.Newf(errors.ErrCodeFetchFailed, "yahoo returned status %d for %s", resp.StatusCode, symbol)
		}

		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to decode yahoo response for %s", symbol)
	}

	// Yahoo reports symbol and range problems through its error envelope,
	// with the HTTP status mirroring it.
	if chart.Chart.Error != nil {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "yahoo api error for %s: %s (%s)",
			symbol, chart.Chart.Error.Description, chart.Chart.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "yahoo returned status %d for %s", resp.StatusCode, symbol)
	}

	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, errors.NewNoDataError(symbol, start, end)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, errors.NewNoDataError(symbol, start, end)
	}

	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	candles := make([]types.Candle, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		// Null close means no bar for that session.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		candle := types.Candle{
			Symbol:   symbol,
			Time:     time.Unix(ts, 0).UTC(),
			Open:     deref(quote.Open, i),
			High:     deref(quote.High, i),
			Low:      deref(quote.Low, i),
			Close:    *quote.Close[i],
			Volume:   deref(quote.Volume, i),
			AdjClose: optional.None[float64](),
		}

		if i < len(adjClose) && adjClose[i] != nil {
			candle.AdjClose = optional.Some(*adjClose[i])
		}

		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, errors.NewNoDataError(symbol, start, end)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	return candles, nil
}

func deref(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}

	return *values[i]
}
