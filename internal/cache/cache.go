// Package cache provides a read-through, TTL-expiring decorator for the
// report store. Keys are derived from the query arguments; each operation
// family has its own freshness window (filter options, row projections,
// trend series). The windows are advisory: a stale entry only means the
// view lags the weekly ingestion by at most its TTL. Errors are never cached.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/damdash/dam-levels-service/internal/domain"
	"github.com/damdash/dam-levels-service/internal/observability"
)

// TTLs holds the per-operation freshness windows.
type TTLs struct {
	Filters time.Duration
	Reports time.Duration
	Trends  time.Duration
}

// Store decorates a domain.ReportStore with expiring memoization.
type Store struct {
	inner   domain.ReportStore
	clock   clockwork.Clock
	ttls    TTLs
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value   any
	expires time.Time
}

// New wraps a report store. The clock is injectable so tests can advance
// time without sleeping.
func New(inner domain.ReportStore, clock clockwork.Clock, ttls TTLs, metrics *observability.Metrics) *Store {
	return &Store{
		inner:   inner,
		clock:   clock,
		ttls:    ttls,
		metrics: metrics,
		entries: make(map[string]entry),
	}
}

var _ domain.ReportStore = (*Store)(nil)

func (s *Store) DistinctReportDates(ctx context.Context) ([]time.Time, error) {
	return lookup(s, "filters", "dates", s.ttls.Filters, func() ([]time.Time, error) {
		return s.inner.DistinctReportDates(ctx)
	})
}

func (s *Store) DistinctProvinces(ctx context.Context) ([]string, error) {
	return lookup(s, "filters", "provinces", s.ttls.Filters, func() ([]string, error) {
		return s.inner.DistinctProvinces(ctx)
	})
}

func (s *Store) DistinctDams(ctx context.Context) ([]string, error) {
	return lookup(s, "trends", "dams", s.ttls.Trends, func() ([]string, error) {
		return s.inner.DistinctDams(ctx)
	})
}

func (s *Store) LatestReportDate(ctx context.Context) (*time.Time, error) {
	return lookup(s, "filters", "latest", s.ttls.Filters, func() (*time.Time, error) {
		return s.inner.LatestReportDate(ctx)
	})
}

func (s *Store) EarliestReportDate(ctx context.Context) (*time.Time, error) {
	return lookup(s, "trends", "earliest", s.ttls.Trends, func() (*time.Time, error) {
		return s.inner.EarliestReportDate(ctx)
	})
}

func (s *Store) FindReports(ctx context.Context, sel domain.Selection) ([]domain.Report, error) {
	key := "reports|" + selectionKey(sel)
	return lookup(s, "reports", key, s.ttls.Reports, func() ([]domain.Report, error) {
		return s.inner.FindReports(ctx, sel)
	})
}

func (s *Store) FindSeries(ctx context.Context, dams []string, start, end time.Time) ([]domain.Report, error) {
	key := fmt.Sprintf("series|%s|%s|%s",
		strings.Join(dams, ","),
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
	)
	return lookup(s, "trends", key, s.ttls.Trends, func() ([]domain.Report, error) {
		return s.inner.FindSeries(ctx, dams, start, end)
	})
}

// lookup implements the read-through: serve an unexpired entry, otherwise
// fetch and memoize on success only.
func lookup[T any](s *Store, op, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if v, ok := s.get(key); ok {
		s.metrics.CacheLookups.WithLabelValues(op, "hit").Inc()
		return v.(T), nil
	}
	s.metrics.CacheLookups.WithLabelValues(op, "miss").Inc()

	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	s.put(key, v, ttl)
	return v, nil
}

func (s *Store) get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.clock.Now().After(e.expires) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) put(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expires: s.clock.Now().Add(ttl)}
}

func selectionKey(sel domain.Selection) string {
	date := "all"
	if sel.Date != nil {
		date = sel.Date.Format("2006-01-02")
	}
	province := sel.Province
	if province == "" {
		province = "all"
	}
	return date + "|" + province
}
