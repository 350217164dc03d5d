package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/dmirandah/accionpro/pkg/errors"
)

// chartFixture mimics the Yahoo chart payload for five sessions where the
// third close is null (holiday) and adjusted closes run slightly below the
// raw ones.
const chartFixture = `{
  "chart": {
    "result": [{
      "timestamp": [1704153600, 1704240000, 1704326400, 1704412800, 1704499200],
      "indicators": {
        "quote": [{
          "open":   [100.0, 101.0, null, 103.0, 104.0],
          "high":   [101.0, 102.0, null, 104.0, 105.0],
          "low":    [ 99.0, 100.0, null, 102.0, 103.0],
          "close":  [100.5, 101.5, null, 103.5, 104.5],
          "volume": [1000, 2000, null, 4000, 5000]
        }],
        "adjclose": [{
          "adjclose": [100.0, 101.0, null, 103.0, 104.0]
        }]
      }
    }],
    "error": null
  }
}`

const chartNoAdjFixture = `{
  "chart": {
    "result": [{
      "timestamp": [1704153600],
      "indicators": {
        "quote": [{
          "open": [100.0], "high": [101.0], "low": [99.0],
          "close": [100.5], "volume": [1000]
        }]
      }
    }],
    "error": null
  }
}`

const chartErrorFixture = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

const chartEmptyFixture = `{"chart": {"result": [], "error": null}}`

type YahooTestSuite struct {
	suite.Suite
	server      *httptest.Server
	yahoo       Provider
	lastQuery   map[string][]string
	lastHeaders http.Header
}

func TestYahooSuite(t *testing.T) {
	suite.Run(t, new(YahooTestSuite))
}

func (suite *YahooTestSuite) SetupSuite() {
	router := mux.NewRouter()
	router.HandleFunc("/v8/finance/chart/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		suite.lastQuery = r.URL.Query()
		suite.lastHeaders = r.Header

		w.Header().Set("Content-Type", "application/json")

		switch mux.Vars(r)["symbol"] {
		case "BAD":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, chartErrorFixture)
		case "EMPTY":
			fmt.Fprint(w, chartEmptyFixture)
		case "NOADJ":
			fmt.Fprint(w, chartNoAdjFixture)
		case "BROKEN":
			fmt.Fprint(w, "{not json")
		default:
			fmt.Fprint(w, chartFixture)
		}
	}).Methods("GET")

	suite.server = httptest.NewServer(router)
	suite.yahoo = NewYahooClientWithBaseURL(suite.server.URL)
}

func (suite *YahooTestSuite) TearDownSuite() {
	suite.server.Close()
}

func (suite *YahooTestSuite) window() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
}

func (suite *YahooTestSuite) TestFetchDailyParsesChart() {
	start, end := suite.window()

	candles, err := suite.yahoo.FetchDaily(context.Background(), "AAPL", start, end)
	suite.Require().NoError(err)

	// The null bar is skipped.
	suite.Len(candles, 4)

	first := candles[0]
	suite.Equal("AAPL", first.Symbol)
	suite.Equal(time.Unix(1704153600, 0).UTC(), first.Time)
	suite.Equal(100.0, first.Open)
	suite.Equal(101.0, first.High)
	suite.Equal(99.0, first.Low)
	suite.Equal(100.5, first.Close)
	suite.Equal(1000.0, first.Volume)
	suite.Equal(100.0, first.AdjClose.Unwrap())

	// Ascending order.
	for i := 1; i < len(candles); i++ {
		suite.True(candles[i-1].Time.Before(candles[i].Time))
	}
}

func (suite *YahooTestSuite) TestFetchDailySendsExpectedRequest() {
	start, end := suite.window()

	_, err := suite.yahoo.FetchDaily(context.Background(), "AAPL", start, end)
	suite.Require().NoError(err)

	suite.Equal(fmt.Sprintf("%d", start.Unix()), suite.lastQuery["period1"][0])
	suite.Equal(fmt.Sprintf("%d", end.Unix()), suite.lastQuery["period2"][0])
	suite.Equal("1d", suite.lastQuery["interval"][0])
	suite.Equal("div,split", suite.lastQuery["events"][0])
	suite.NotEmpty(suite.lastHeaders.Get("User-Agent"))
}

func (suite *YahooTestSuite) TestFetchDailyWithoutAdjClose() {
	start, end := suite.window()

	candles, err := suite.yahoo.FetchDaily(context.Background(), "NOADJ", start, end)
	suite.Require().NoError(err)
	suite.Len(candles, 1)
	suite.True(candles[0].AdjClose.IsNone())
}

func (suite *YahooTestSuite) TestFetchDailyAPIError() {
	start, end := suite.window()

	_, err := suite.yahoo.FetchDaily(context.Background(), "BAD", start, end)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFetchFailed))
	suite.Contains(err.Error(), "delisted")
}

func (suite *YahooTestSuite) TestFetchDailyNoData() {
	start, end := suite.window()

	_, err := suite.yahoo.FetchDaily(context.Background(), "EMPTY", start, end)
	suite.Error(err)
	suite.True(errors.IsNoDataError(err))
}

func (suite *YahooTestSuite) TestFetchDailyBrokenPayload() {
	start, end := suite.window()

	_, err := suite.yahoo.FetchDaily(context.Background(), "BROKEN", start, end)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeParseFailed))
}

func (suite *YahooTestSuite) TestFetchDailyCancelledContext() {
	start, end := suite.window()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.yahoo.FetchDaily(ctx, "AAPL", start, end)
	suite.Error(err)
}

func (suite *YahooTestSuite) TestName() {
	suite.Equal("yahoo", suite.yahoo.Name())
}
