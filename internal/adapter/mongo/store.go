// Package mongo implements the report store query contract against a
// MongoDB reports collection. The collection is treated as an opaque
// document store: exact-match filters, distinct-value enumeration, and
// sorted findOne are the only operations used, and this service never
// writes to it.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/damdash/dam-levels-service/internal/config"
	"github.com/damdash/dam-levels-service/internal/domain"
	"github.com/damdash/dam-levels-service/internal/observability"
)

// reportProjection selects the fields the table view consumes; everything
// else (and _id) stays on the server.
var reportProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: "dam", Value: 1},
	{Key: "province", Value: 1},
	{Key: "river", Value: 1},
	{Key: "nearest_locale", Value: 1},
	{Key: "report_date", Value: 1},
	{Key: "full_storage_capacity", Value: 1},
	{Key: "this_week", Value: 1},
	{Key: "last_week", Value: 1},
	{Key: "last_year", Value: 1},
	{Key: "wall_height_m", Value: 1},
	{Key: "year_completed", Value: 1},
	{Key: "lat_long", Value: 1},
}

// seriesProjection selects the fields the trend views consume.
var seriesProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: "dam", Value: 1},
	{Key: "report_date", Value: 1},
	{Key: "this_week", Value: 1},
	{Key: "province", Value: 1},
	{Key: "river", Value: 1},
}

// Store implements domain.ReportStore on a MongoDB collection.
type Store struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

var _ domain.ReportStore = (*Store)(nil)

// Connect dials the cluster and returns the store plus a disconnect
// function for shutdown.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Store, func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.ConnectionURI()))
	if err != nil {
		return nil, nil, storeErr("connect", err)
	}

	s := &Store{
		client:  client,
		coll:    client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
		timeout: cfg.MongoTimeout,
		logger:  logger,
		metrics: metrics,
	}
	return s, client.Disconnect, nil
}

// Ping verifies the cluster is reachable. Backs the readiness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *Store) DistinctReportDates(ctx context.Context) ([]time.Time, error) {
	values, err := s.distinct(ctx, "report_date")
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		if t, ok := toTime(v); ok {
			dates = append(dates, t)
		}
	}
	return dates, nil
}

func (s *Store) DistinctProvinces(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx, "province")
}

func (s *Store) DistinctDams(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx, "dam")
}

func (s *Store) LatestReportDate(ctx context.Context) (*time.Time, error) {
	return s.boundaryReportDate(ctx, -1)
}

func (s *Store) EarliestReportDate(ctx context.Context) (*time.Time, error) {
	return s.boundaryReportDate(ctx, 1)
}

func (s *Store) FindReports(ctx context.Context, sel domain.Selection) ([]domain.Report, error) {
	return s.find(ctx, "find_reports", selectionFilter(sel), reportProjection)
}

func (s *Store) FindSeries(ctx context.Context, dams []string, start, end time.Time) ([]domain.Report, error) {
	return s.find(ctx, "find_series", seriesFilter(dams, start, end), seriesProjection)
}

func (s *Store) find(ctx context.Context, op string, filter, projection bson.D) ([]domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer s.observe(op)()

	cursor, err := s.coll.Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, storeErrCounted(s.metrics, op, err)
	}

	var reports []domain.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, storeErrCounted(s.metrics, op, err)
	}
	return reports, nil
}

func (s *Store) distinct(ctx context.Context, field string) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer s.observe("distinct_" + field)()

	values, err := s.coll.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, storeErrCounted(s.metrics, "distinct "+field, err)
	}
	return values, nil
}

func (s *Store) distinctStrings(ctx context.Context, field string) ([]string, error) {
	values, err := s.distinct(ctx, field)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	return out, nil
}

// boundaryReportDate finds the newest (sort -1) or oldest (sort 1)
// report_date, or nil when the collection is empty.
func (s *Store) boundaryReportDate(ctx context.Context, sortDir int) (*time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer s.observe("boundary_report_date")()

	opts := options.FindOne().
		SetSort(bson.D{{Key: "report_date", Value: sortDir}}).
		SetProjection(bson.D{{Key: "report_date", Value: 1}})

	var doc struct {
		ReportDate time.Time `bson:"report_date"`
	}
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErrCounted(s.metrics, "boundary report_date", err)
	}
	return &doc.ReportDate, nil
}

func (s *Store) observe(op string) func() {
	start := time.Now()
	return func() {
		s.metrics.StoreQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// selectionFilter builds the exact-match filter for a table selection.
// An "all" axis simply omits its clause.
func selectionFilter(sel domain.Selection) bson.D {
	filter := bson.D{}
	if sel.Date != nil {
		filter = append(filter, bson.E{Key: "report_date", Value: *sel.Date})
	}
	if sel.Province != "" {
		filter = append(filter, bson.E{Key: "province", Value: sel.Province})
	}
	return filter
}

// seriesFilter matches the named dams within [start, end] inclusive.
func seriesFilter(dams []string, start, end time.Time) bson.D {
	return bson.D{
		{Key: "dam", Value: bson.D{{Key: "$in", Value: dams}}},
		{Key: "report_date", Value: bson.D{
			{Key: "$gte", Value: start},
			{Key: "$lte", Value: end},
		}},
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time().UTC(), true
	default:
		return time.Time{}, false
	}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}

func storeErrCounted(m *observability.Metrics, op string, err error) error {
	m.StoreErrors.Inc()
	return storeErr(op, err)
}
