package domain

import (
	"context"
	"time"
)

// Selection narrows a report query. A nil Date means all dates; an empty
// Province means all provinces.
type Selection struct {
	Date     *time.Time
	Province string
}

// AllDates reports whether the selection spans every report date.
func (s Selection) AllDates() bool { return s.Date == nil }

// ReportStore is the query contract this service consumes from the document
// collection. Implementations return values in no particular order unless
// noted; ordering is applied by the callers. Any connection or query failure
// must be reported as an error wrapping [ErrStoreUnavailable].
type ReportStore interface {
	// DistinctReportDates enumerates every distinct report_date.
	DistinctReportDates(ctx context.Context) ([]time.Time, error)

	// DistinctProvinces enumerates every distinct province name.
	DistinctProvinces(ctx context.Context) ([]string, error)

	// DistinctDams enumerates every distinct dam name.
	DistinctDams(ctx context.Context) ([]string, error)

	// LatestReportDate returns the most recent report_date, or nil when the
	// collection is empty.
	LatestReportDate(ctx context.Context) (*time.Time, error)

	// EarliestReportDate returns the oldest report_date, or nil when the
	// collection is empty.
	EarliestReportDate(ctx context.Context) (*time.Time, error)

	// FindReports fetches reports matching the selection, in store order.
	FindReports(ctx context.Context, sel Selection) ([]Report, error)

	// FindSeries fetches reports for the named dams with report_date within
	// [start, end] inclusive.
	FindSeries(ctx context.Context, dams []string, start, end time.Time) ([]Report, error)
}
