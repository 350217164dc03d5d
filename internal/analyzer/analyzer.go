// Package analyzer orchestrates the analysis pipeline: fetch candles for a
// symbol, compute the indicator columns, summarize the window and produce a
// recommendation.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/dmirandah/accionpro/internal/advisor"
	"github.com/dmirandah/accionpro/internal/indicator"
	"github.com/dmirandah/accionpro/internal/logger"
	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
	"github.com/dmirandah/accionpro/pkg/marketdata"
)

// AnalyzeRequest identifies one symbol and the window to analyze.
type AnalyzeRequest struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Flags  types.IndicatorSet
}

// Report is the complete result of analyzing one symbol.
type Report struct {
	ID             string
	GeneratedAt    time.Time
	Series         types.AugmentedSeries
	Summary        types.Summary
	Recommendation types.Recommendation
}

// Service runs the analysis pipeline against a market data client.
type Service struct {
	client  *marketdata.Client
	engine  *indicator.Engine
	advisor *advisor.Advisor
	logger  *logger.Logger
}

// NewService creates an analyzer service.
func NewService(client *marketdata.Client, engine *indicator.Engine, adv *advisor.Advisor, log *logger.Logger) *Service {
	return &Service{
		client:  client,
		engine:  engine,
		advisor: adv,
		logger:  log,
	}
}

// Analyze runs the pipeline for a single symbol.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*Report, error) {
	s.logger.Info("Analyzing symbol",
		zap.String("symbol", req.Symbol),
		zap.Time("start", req.Start),
		zap.Time("end", req.End))

	candles, err := s.client.FetchDaily(ctx, marketdata.FetchParams{
		Symbol:    req.Symbol,
		StartDate: req.Start,
		EndDate:   req.End,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Fetched candles",
		zap.String("symbol", req.Symbol),
		zap.Int("count", len(candles)))

	prices, volumes := s.client.BuildSeries(req.Symbol, candles)

	series, err := s.engine.Compute(prices, optional.Some(volumes), req.Flags)
	if err != nil {
		return nil, err
	}

	return &Report{
		ID:             uuid.New().String(),
		GeneratedAt:    time.Now().UTC(),
		Series:         series,
		Summary:        Summarize(series),
		Recommendation: s.advisor.Recommend(series),
	}, nil
}

// Scan analyzes every symbol in the watchlist over the same window. Symbols
// with no data in the window are logged and skipped; any other failure
// aborts the scan.
func (s *Service) Scan(ctx context.Context, symbols []string, start, end time.Time, flags types.IndicatorSet) ([]*Report, error) {
	reports := make([]*Report, 0, len(symbols))

	bar := progressbar.Default(int64(len(symbols)))

	for _, symbol := range symbols {
		bar.Describe(fmt.Sprintf("Analyzing %s", symbol))

		report, err := s.Analyze(ctx, AnalyzeRequest{
			Symbol: symbol,
			Start:  start,
			End:    end,
			Flags:  flags,
		})

		switch {
		case errors.IsNoDataError(err):
			s.logger.Warn("No data for symbol, skipping",
				zap.String("symbol", symbol),
				zap.Error(err))
		case err != nil:
			return nil, err
		default:
			reports = append(reports, report)
		}

		bar.Add(1)
	}

	return reports, nil
}
