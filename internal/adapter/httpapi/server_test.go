package httpapi_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damdash/dam-levels-service/internal/adapter/httpapi"
	"github.com/damdash/dam-levels-service/internal/domain"
	"github.com/damdash/dam-levels-service/internal/observability"
	"github.com/damdash/dam-levels-service/internal/service"
)

type fakeStore struct {
	dates     []time.Time
	provinces []string
	dams      []string
	latest    *time.Time
	earliest  *time.Time
	reports   []domain.Report
	series    []domain.Report
	err       error
	pingErr   error
}

func (f *fakeStore) DistinctReportDates(context.Context) ([]time.Time, error) {
	return f.dates, f.err
}

func (f *fakeStore) DistinctProvinces(context.Context) ([]string, error) {
	return f.provinces, f.err
}

func (f *fakeStore) DistinctDams(context.Context) ([]string, error) {
	return f.dams, f.err
}

func (f *fakeStore) LatestReportDate(context.Context) (*time.Time, error) {
	return f.latest, f.err
}

func (f *fakeStore) EarliestReportDate(context.Context) (*time.Time, error) {
	return f.earliest, f.err
}

func (f *fakeStore) FindReports(context.Context, domain.Selection) ([]domain.Report, error) {
	return f.reports, f.err
}

func (f *fakeStore) FindSeries(context.Context, []string, time.Time, time.Time) ([]domain.Report, error) {
	return f.series, f.err
}

func (f *fakeStore) Ping(context.Context) error {
	return f.pingErr
}

func fp(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newServer(t *testing.T, store *fakeStore) *httpapi.Server {
	t.Helper()
	logger := slog.Default()
	return httpapi.NewServer(
		":0",
		service.NewFilterResolver(store, logger),
		service.NewProjector(store, logger),
		service.NewTrendAggregator(store, logger),
		store,
		logger,
		observability.NewMetricsForTesting(),
	)
}

func get(t *testing.T, s *httpapi.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz always ok", func(t *testing.T) {
		rec := get(t, newServer(t, &fakeStore{}), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz ok when store reachable", func(t *testing.T) {
		rec := get(t, newServer(t, &fakeStore{}), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz unavailable when ping fails", func(t *testing.T) {
		store := &fakeStore{pingErr: domain.ErrStoreUnavailable}
		rec := get(t, newServer(t, store), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestFiltersEndpoint(t *testing.T) {
	latest := date(2025, 2, 10)
	store := &fakeStore{
		dates:     []time.Time{date(2025, 2, 3), latest},
		provinces: []string{"Limpopo", "Gauteng"},
		latest:    &latest,
	}

	rec := get(t, newServer(t, store), "/api/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Dates     []time.Time `json:"dates"`
		Provinces []string    `json:"provinces"`
		Latest    *time.Time  `json:"latest"`
	}
	decode(t, rec, &body)

	assert.Equal(t, []time.Time{latest, date(2025, 2, 3)}, body.Dates)
	assert.Equal(t, []string{"Gauteng", "Limpopo"}, body.Provinces)
	require.NotNil(t, body.Latest)
	assert.Equal(t, latest, *body.Latest)
}

func TestDamsEndpoint(t *testing.T) {
	store := &fakeStore{dams: []string{"Vaal Dam", "Gariep Dam"}}

	rec := get(t, newServer(t, store), "/api/dams")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Dams []string `json:"dams"`
	}
	decode(t, rec, &body)
	assert.Equal(t, []string{"Gariep Dam", "Vaal Dam"}, body.Dams)
}

func TestReportsEndpoint(t *testing.T) {
	reportDate := date(2025, 2, 10)
	store := &fakeStore{reports: []domain.Report{
		{Dam: "Riser", Province: "Gauteng", ReportDate: reportDate, ThisWeek: fp(80), LastWeek: fp(60)},
		{Dam: "Faller", Province: "Gauteng", ReportDate: reportDate, ThisWeek: fp(55), LastWeek: fp(62)},
	}}

	t.Run("specific date includes extremes", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/reports?date=2025-02-10")
		require.Equal(t, http.StatusOK, rec.Code)

		var view service.TableView
		decode(t, rec, &view)

		assert.Equal(t, 2, view.Count)
		assert.Equal(t, "Riser", view.Rows[0].Dam)
		require.NotNil(t, view.BiggestIncrease)
		assert.Equal(t, "Riser", view.BiggestIncrease.Dam)
		require.NotNil(t, view.BiggestDecrease)
		assert.Equal(t, "Faller", view.BiggestDecrease.Dam)
	})

	t.Run("all dates omits extremes", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/reports?date=all")
		require.Equal(t, http.StatusOK, rec.Code)

		var view service.TableView
		decode(t, rec, &view)
		assert.Nil(t, view.BiggestIncrease)
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/reports?date=10-02-2025")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure maps to 503", func(t *testing.T) {
		broken := &fakeStore{err: domain.ErrStoreUnavailable}
		rec := get(t, newServer(t, broken), "/api/reports")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestReportsCSVEndpoint(t *testing.T) {
	reportDate := date(2025, 2, 10)
	store := &fakeStore{reports: []domain.Report{
		{Dam: "Vaal Dam", Province: "Free State", ReportDate: reportDate, ThisWeek: fp(80.5), LastWeek: fp(60.5)},
	}}

	t.Run("specific date names the file", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/reports.csv?date=2025-02-10")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=dam_levels_2025-02-10.csv", rec.Header().Get("Content-Disposition"))

		lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Dam Name,Province,River"))
		assert.Contains(t, lines[1], "Vaal Dam")
	})

	t.Run("all dates fallback file name", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/reports.csv")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "attachment; filename=dam_levels_all_dates.csv", rec.Header().Get("Content-Disposition"))
	})
}

func TestMarkersEndpoint(t *testing.T) {
	reportDate := date(2025, 2, 10)
	store := &fakeStore{reports: []domain.Report{
		{Dam: "Plotted", Province: "Gauteng", ReportDate: reportDate, ThisWeek: fp(95), LatLong: []float64{-26.88, 28.12}},
		{Dam: "No coords", Province: "Gauteng", ReportDate: reportDate, ThisWeek: fp(40)},
		{Dam: "Zero lat", Province: "Gauteng", ReportDate: reportDate, ThisWeek: fp(40), LatLong: []float64{0, 28.12}},
	}}

	t.Run("markers with skip count and legend", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/markers?date=2025-02-10")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Markers []domain.MarkerDescriptor `json:"markers"`
			Skipped int                       `json:"skipped"`
			Legend  []domain.LegendEntry      `json:"legend"`
		}
		decode(t, rec, &body)

		require.Len(t, body.Markers, 1)
		assert.Equal(t, "Plotted", body.Markers[0].Dam)
		assert.Equal(t, domain.LevelHigh, body.Markers[0].Level)
		assert.Equal(t, 2, body.Skipped)
		assert.Len(t, body.Legend, 5)
	})

	t.Run("all dates rejected", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/markers")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTrendsEndpoint(t *testing.T) {
	store := &fakeStore{series: []domain.Report{
		{Dam: "Vaal Dam", Province: "Free State", River: "Vaal River", ReportDate: date(2025, 1, 6), ThisWeek: fp(10)},
		{Dam: "Vaal Dam", Province: "Free State", River: "Vaal River", ReportDate: date(2025, 1, 13), ThisWeek: fp(30)},
	}}

	t.Run("series and stats", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/trends?dams=Vaal+Dam&start=2025-01-01&end=2025-02-01")
		require.Equal(t, http.StatusOK, rec.Code)

		var result service.TrendResult
		decode(t, rec, &result)

		require.Len(t, result.Series, 2)
		require.Len(t, result.Stats, 1)
		assert.Equal(t, "Vaal Dam", result.Stats[0].Dam)
		assert.Equal(t, []float64{25, 50, 75}, result.ReferenceLines)
	})

	t.Run("missing dams rejected", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/trends?start=2025-01-01&end=2025-02-01")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing window rejected", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/trends?dams=Vaal+Dam")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/trends?dams=Vaal+Dam&start=2025-02-01&end=2025-01-01")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("single day window is valid", func(t *testing.T) {
		rec := get(t, newServer(t, store), "/api/trends?dams=Vaal+Dam&start=2025-01-06&end=2025-01-06")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTrendRangeEndpoint(t *testing.T) {
	earliest, latest := date(2024, 11, 4), date(2025, 2, 10)
	store := &fakeStore{earliest: &earliest, latest: &latest}

	rec := get(t, newServer(t, store), "/api/trends/range")
	require.Equal(t, http.StatusOK, rec.Code)

	var rng service.DateRange
	decode(t, rec, &rng)
	require.NotNil(t, rng.Earliest)
	assert.Equal(t, earliest, *rng.Earliest)
	require.NotNil(t, rng.Latest)
	assert.Equal(t, latest, *rng.Latest)
}
