package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/damdash/dam-levels-service/internal/domain"
)

// referenceLines are the fixed horizontal guides drawn on the trend chart.
var referenceLines = []float64{25, 50, 75}

// TrendResult is the historical trends payload: a chronological series per
// dam plus per-dam summary statistics.
type TrendResult struct {
	Series         []domain.SeriesPoint  `json:"series"`
	Stats          []domain.DamStatistic `json:"stats"`
	ReferenceLines []float64             `json:"reference_lines"`
}

// TrendAggregator computes historical trends over a dam selection and date
// window.
type TrendAggregator struct {
	store  domain.ReportStore
	logger *slog.Logger
}

// NewTrendAggregator creates a TrendAggregator.
func NewTrendAggregator(store domain.ReportStore, logger *slog.Logger) *TrendAggregator {
	return &TrendAggregator{store: store, logger: logger}
}

// Aggregate fetches the named dams' reports within [start, end] inclusive
// and summarizes them. Preconditions are checked before any store access:
// an empty dam set is ErrNoSelection and start after end is ErrInvalidRange.
// Dams with no reports in range are simply absent from the statistics.
func (a *TrendAggregator) Aggregate(ctx context.Context, dams []string, start, end time.Time) (TrendResult, error) {
	if len(dams) == 0 {
		return TrendResult{}, domain.ErrNoSelection
	}
	if start.After(end) {
		return TrendResult{}, fmt.Errorf("%w: %s > %s",
			domain.ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	reports, err := a.store.FindSeries(ctx, dams, start, end)
	if err != nil {
		return TrendResult{}, err
	}

	series, stats := domain.AggregateSeries(reports)
	a.logger.Debug("aggregated trends", "dams", len(dams), "points", len(series))

	return TrendResult{Series: series, Stats: stats, ReferenceLines: referenceLines}, nil
}
