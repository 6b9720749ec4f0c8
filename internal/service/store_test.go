package service_test

import (
	"context"
	"time"

	"github.com/damdash/dam-levels-service/internal/domain"
)

// fakeStore is an in-memory ReportStore with error injection and a call
// counter, so tests can assert that precondition failures never touch the
// store.
type fakeStore struct {
	dates     []time.Time
	provinces []string
	dams      []string
	latest    *time.Time
	earliest  *time.Time
	reports   []domain.Report
	series    []domain.Report
	err       error

	calls int
}

func (f *fakeStore) touch() error {
	f.calls++
	return f.err
}

func (f *fakeStore) DistinctReportDates(context.Context) ([]time.Time, error) {
	return f.dates, f.touch()
}

func (f *fakeStore) DistinctProvinces(context.Context) ([]string, error) {
	return f.provinces, f.touch()
}

func (f *fakeStore) DistinctDams(context.Context) ([]string, error) {
	return f.dams, f.touch()
}

func (f *fakeStore) LatestReportDate(context.Context) (*time.Time, error) {
	return f.latest, f.touch()
}

func (f *fakeStore) EarliestReportDate(context.Context) (*time.Time, error) {
	return f.earliest, f.touch()
}

func (f *fakeStore) FindReports(context.Context, domain.Selection) ([]domain.Report, error) {
	return f.reports, f.touch()
}

func (f *fakeStore) FindSeries(context.Context, []string, time.Time, time.Time) ([]domain.Report, error) {
	return f.series, f.touch()
}

func fp(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
