// Package service orchestrates the derived views: filter options, table
// projections, map markers, and historical trends. Components are read-only
// over the report store; ordering contracts live here rather than in the
// store adapter so any ReportStore implementation can stay unordered.
package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/damdash/dam-levels-service/internal/domain"
)

// FilterOptions is the selectable filter domain for the dashboard.
type FilterOptions struct {
	// Dates holds every distinct report date, most recent first.
	Dates []time.Time `json:"dates"`
	// Provinces holds every distinct province, A to Z.
	Provinces []string `json:"provinces"`
	// Latest is the most recent report date, absent when the store is empty.
	Latest *time.Time `json:"latest,omitempty"`
}

// DateRange is the span of available report dates.
type DateRange struct {
	Earliest *time.Time `json:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty"`
}

// FilterResolver derives the selectable report dates, provinces, and dam
// names from the report store.
type FilterResolver struct {
	store  domain.ReportStore
	logger *slog.Logger
}

// NewFilterResolver creates a FilterResolver.
func NewFilterResolver(store domain.ReportStore, logger *slog.Logger) *FilterResolver {
	return &FilterResolver{store: store, logger: logger}
}

// Options resolves the full filter domain. Any store failure fails the whole
// resolution; there is no partial or default substitution.
func (r *FilterResolver) Options(ctx context.Context) (FilterOptions, error) {
	rawDates, err := r.store.DistinctReportDates(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	rawProvinces, err := r.store.DistinctProvinces(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	latest, err := r.store.LatestReportDate(ctx)
	if err != nil {
		return FilterOptions{}, err
	}

	dates := slices.Clone(rawDates)
	slices.SortFunc(dates, func(a, b time.Time) int { return b.Compare(a) })

	provinces := slices.Clone(rawProvinces)
	slices.Sort(provinces)

	return FilterOptions{Dates: dates, Provinces: provinces, Latest: latest}, nil
}

// Dams lists every dam name, A to Z, for the trend selector.
func (r *FilterResolver) Dams(ctx context.Context) ([]string, error) {
	raw, err := r.store.DistinctDams(ctx)
	if err != nil {
		return nil, err
	}
	dams := slices.Clone(raw)
	slices.Sort(dams)
	return dams, nil
}

// Range returns the earliest and latest available report dates. Both are
// nil when the store is empty.
func (r *FilterResolver) Range(ctx context.Context) (DateRange, error) {
	earliest, err := r.store.EarliestReportDate(ctx)
	if err != nil {
		return DateRange{}, err
	}
	latest, err := r.store.LatestReportDate(ctx)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Earliest: earliest, Latest: latest}, nil
}
