package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/damdash/dam-levels-service/internal/domain"
)

func TestSelectionFilter(t *testing.T) {
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sel  domain.Selection
		want bson.D
	}{
		{"all dates and provinces", domain.Selection{}, bson.D{}},
		{
			"specific date",
			domain.Selection{Date: &date},
			bson.D{{Key: "report_date", Value: date}},
		},
		{
			"specific province",
			domain.Selection{Province: "Gauteng"},
			bson.D{{Key: "province", Value: "Gauteng"}},
		},
		{
			"both axes",
			domain.Selection{Date: &date, Province: "Gauteng"},
			bson.D{
				{Key: "report_date", Value: date},
				{Key: "province", Value: "Gauteng"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectionFilter(tt.sel))
		})
	}
}

func TestSeriesFilter(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	filter := seriesFilter([]string{"Vaal Dam", "Gariep Dam"}, start, end)

	require.Len(t, filter, 2)
	assert.Equal(t, "dam", filter[0].Key)
	assert.Equal(t, bson.D{{Key: "$in", Value: []string{"Vaal Dam", "Gariep Dam"}}}, filter[0].Value)
	assert.Equal(t, "report_date", filter[1].Key)
	assert.Equal(t, bson.D{
		{Key: "$gte", Value: start},
		{Key: "$lte", Value: end},
	}, filter[1].Value)
}

func TestToTime(t *testing.T) {
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	t.Run("native time", func(t *testing.T) {
		got, ok := toTime(date)
		require.True(t, ok)
		assert.Equal(t, date, got)
	})

	t.Run("bson datetime", func(t *testing.T) {
		got, ok := toTime(primitive.NewDateTimeFromTime(date))
		require.True(t, ok)
		assert.Equal(t, date, got)
	})

	t.Run("unexpected type", func(t *testing.T) {
		_, ok := toTime("2025-02-10")
		assert.False(t, ok)
	})
}

func TestStoreErrWrapsSentinel(t *testing.T) {
	err := storeErr("distinct province", assert.AnError)

	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "distinct province")
}
