// Package mockserver provides a mock Yahoo Finance chart server for testing.
// It implements the v8 chart endpoint with configurable per-symbol series,
// error envelopes and transient failures.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// Bar is one daily bar served by the mock.
type Bar struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	AdjClose float64
}

// ChartError is the error envelope body of the chart API.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// chartResponse mirrors the wire format of the v8 chart endpoint. Quote
// arrays use pointers so bars can be served with null entries the way Yahoo
// reports holidays and halted sessions.
type chartResponse struct {
	Chart chartEnvelope `json:"chart"`
}

type chartEnvelope struct {
	Result []chartResult `json:"result"`
	Error  *ChartError   `json:"error"`
}

type chartResult struct {
	Timestamp  []int64         `json:"timestamp"`
	Indicators chartIndicators `json:"indicators"`
}

type chartIndicators struct {
	Quote    []chartQuote    `json:"quote"`
	AdjClose []chartAdjClose `json:"adjclose"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type chartAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

// MockYahooServer serves the Yahoo Finance chart API from in-memory series.
type MockYahooServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	series    map[string][]Bar
	nullBars  map[string]map[int64]bool
	apiErrors map[string]*ChartError
	failures  map[string]int
	requests  map[string]int
}

// NewMockYahooServer creates an empty mock server. Configure symbols with
// SetSeries or SetDailyCloses before issuing requests against it.
func NewMockYahooServer() *MockYahooServer {
	return &MockYahooServer{
		mu:         sync.RWMutex{},
		httpServer: nil,
		listener:   nil,
		series:     make(map[string][]Bar),
		nullBars:   make(map[string]map[int64]bool),
		apiErrors:  make(map[string]*ChartError),
		failures:   make(map[string]int),
		requests:   make(map[string]int),
	}
}

// Start starts the mock server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *MockYahooServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/v8/finance/chart/{symbol}", s.handleChart).Methods("GET")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the mock server.
func (s *MockYahooServer) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Address returns the address the server is listening on.
func (s *MockYahooServer) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *MockYahooServer) BaseURL() string {
	return "http://" + s.Address()
}

// SetSeries replaces the bars served for a symbol.
func (s *MockYahooServer) SetSeries(symbol string, bars []Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[symbol] = bars
}

// SetDailyCloses builds a daily series for a symbol from consecutive closing
// prices, one bar per day starting at start. Opens carry the previous close
// and the adjusted close equals the close.
func (s *MockYahooServer) SetDailyCloses(symbol string, start time.Time, closes []float64) {
	bars := make([]Bar, len(closes))

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		bars[i] = Bar{
			Time:     start.AddDate(0, 0, i),
			Open:     open,
			High:     math.Max(open, c) * 1.01,
			Low:      math.Min(open, c) * 0.99,
			Close:    c,
			Volume:   1_000_000,
			AdjClose: c,
		}
	}

	s.SetSeries(symbol, bars)
}

// SetNullBar marks the bar at t to be served with null quote entries.
func (s *MockYahooServer) SetNullBar(symbol string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nullBars[symbol] == nil {
		s.nullBars[symbol] = make(map[int64]bool)
	}

	s.nullBars[symbol][t.Unix()] = true
}

// SetError makes chart requests for the symbol return the error envelope.
func (s *MockYahooServer) SetError(symbol, code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiErrors[symbol] = &ChartError{Code: code, Description: description}
}

// FailNext makes the next n chart requests for the symbol fail with HTTP 500
// before any of the configured behavior applies.
func (s *MockYahooServer) FailNext(symbol string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[symbol] = n
}

// RequestCount returns how many chart requests the symbol has received.
func (s *MockYahooServer) RequestCount(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.requests[symbol]
}

func (s *MockYahooServer) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	s.mu.Lock()
	s.requests[symbol]++

	if s.failures[symbol] > 0 {
		s.failures[symbol]--
		s.mu.Unlock()
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")

	if apiErr, ok := s.apiErrors[symbol]; ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(chartResponse{
			Chart: chartEnvelope{Result: nil, Error: apiErr},
		})

		return
	}

	from := unixParam(r, "period1", 0)
	to := unixParam(r, "period2", math.MaxInt64)
	nulls := s.nullBars[symbol]

	var (
		timestamps []int64
		quote      chartQuote
		adjclose   chartAdjClose
	)

	for _, bar := range s.series[symbol] {
		ts := bar.Time.Unix()
		if ts < from || ts > to {
			continue
		}

		timestamps = append(timestamps, ts)

		if nulls[ts] {
			quote.Open = append(quote.Open, nil)
			quote.High = append(quote.High, nil)
			quote.Low = append(quote.Low, nil)
			quote.Close = append(quote.Close, nil)
			quote.Volume = append(quote.Volume, nil)
			adjclose.AdjClose = append(adjclose.AdjClose, nil)

			continue
		}

		open, high, low, closePrice, volume, adj := bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.AdjClose
		quote.Open = append(quote.Open, &open)
		quote.High = append(quote.High, &high)
		quote.Low = append(quote.Low, &low)
		quote.Close = append(quote.Close, &closePrice)
		quote.Volume = append(quote.Volume, &volume)
		adjclose.AdjClose = append(adjclose.AdjClose, &adj)
	}

	response := chartResponse{
		Chart: chartEnvelope{
			Result: []chartResult{
				{
					Timestamp: timestamps,
					Indicators: chartIndicators{
						Quote:    []chartQuote{quote},
						AdjClose: []chartAdjClose{adjclose},
					},
				},
			},
			Error: nil,
		},
	}

	json.NewEncoder(w).Encode(response)
}

func unixParam(r *http.Request, name string, fallback int64) int64 {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}

	return parsed
}
