package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekOf(week int) time.Time {
	return time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*week)
}

func seriesReport(dam string, week int, percent float64) Report {
	return Report{
		Dam:        dam,
		Province:   "Free State",
		River:      "Vaal River",
		ReportDate: weekOf(week),
		ThisWeek:   fp(percent),
	}
}

func TestAggregateSeries(t *testing.T) {
	t.Run("single dam summary", func(t *testing.T) {
		reports := []Report{
			seriesReport("A", 2, 30),
			seriesReport("A", 0, 10),
			seriesReport("A", 1, 20),
		}

		series, stats := AggregateSeries(reports)

		require.Len(t, series, 3)
		assert.Equal(t, 10.0, series[0].Percent)
		assert.Equal(t, 20.0, series[1].Percent)
		assert.Equal(t, 30.0, series[2].Percent)

		require.Len(t, stats, 1)
		s := stats[0]
		assert.Equal(t, "A", s.Dam)
		assert.Equal(t, "Free State", s.Province)
		assert.Equal(t, "Vaal River", s.River)
		assert.Equal(t, 10.0, s.Min)
		assert.Equal(t, 30.0, s.Max)
		assert.Equal(t, 20.0, s.Mean)
		assert.Equal(t, 30.0, s.Current)
		assert.Equal(t, 3, s.SampleCount)
		require.NotNil(t, s.StdDev)
		assert.Equal(t, 10.0, *s.StdDev)
	})

	t.Run("series sorted by dam then date", func(t *testing.T) {
		reports := []Report{
			seriesReport("B", 0, 50),
			seriesReport("A", 1, 20),
			seriesReport("B", 1, 55),
			seriesReport("A", 0, 10),
		}

		series, stats := AggregateSeries(reports)

		require.Len(t, series, 4)
		assert.Equal(t, "A", series[0].Dam)
		assert.Equal(t, "A", series[1].Dam)
		assert.Equal(t, "B", series[2].Dam)
		assert.True(t, series[0].ReportDate.Before(series[1].ReportDate))

		require.Len(t, stats, 2)
		assert.Equal(t, "A", stats[0].Dam)
		assert.Equal(t, "B", stats[1].Dam)
	})

	t.Run("single point has no std dev", func(t *testing.T) {
		_, stats := AggregateSeries([]Report{seriesReport("A", 0, 42.5)})

		require.Len(t, stats, 1)
		assert.Nil(t, stats[0].StdDev)
		assert.Equal(t, 42.5, stats[0].Current)
		assert.Equal(t, 1, stats[0].SampleCount)
	})

	t.Run("reports without percent are dropped", func(t *testing.T) {
		reports := []Report{
			seriesReport("A", 0, 10),
			{Dam: "A", ReportDate: weekOf(1)},
			{Dam: "Ghost", ReportDate: weekOf(0)},
		}

		series, stats := AggregateSeries(reports)

		assert.Len(t, series, 1)
		require.Len(t, stats, 1)
		assert.Equal(t, "A", stats[0].Dam)
		assert.Equal(t, 1, stats[0].SampleCount)
	})

	t.Run("statistics round to one decimal", func(t *testing.T) {
		reports := []Report{
			seriesReport("A", 0, 10.04),
			seriesReport("A", 1, 20.06),
		}

		_, stats := AggregateSeries(reports)

		require.Len(t, stats, 1)
		assert.Equal(t, 10.0, stats[0].Min)
		assert.Equal(t, 20.1, stats[0].Max)
		assert.Equal(t, 15.1, stats[0].Mean)
	})

	t.Run("empty input", func(t *testing.T) {
		series, stats := AggregateSeries(nil)

		assert.Empty(t, series)
		assert.Empty(t, stats)
	})

	t.Run("idempotent over identical input", func(t *testing.T) {
		reports := []Report{
			seriesReport("A", 0, 10),
			seriesReport("B", 0, 60),
			seriesReport("A", 1, 20),
		}

		_, first := AggregateSeries(reports)
		_, second := AggregateSeries(reports)

		assert.Equal(t, first, second)
	})
}
