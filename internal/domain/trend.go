package domain

import (
	"math"
	"sort"
)

// AggregateSeries turns a window of reports into a chronological series and
// per-dam summary statistics. Reports without a this_week value contribute
// nothing. Dams with zero usable points in the window are simply absent from
// the statistics. Statistics are rounded to one decimal for presentation.
func AggregateSeries(reports []Report) ([]SeriesPoint, []DamStatistic) {
	usable := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.ThisWeek != nil {
			usable = append(usable, r)
		}
	}

	sort.SliceStable(usable, func(i, j int) bool {
		if usable[i].Dam != usable[j].Dam {
			return usable[i].Dam < usable[j].Dam
		}
		return usable[i].ReportDate.Before(usable[j].ReportDate)
	})

	series := make([]SeriesPoint, 0, len(usable))
	for _, r := range usable {
		series = append(series, SeriesPoint{
			Dam:        r.Dam,
			ReportDate: r.ReportDate,
			Percent:    *r.ThisWeek,
			Province:   r.Province,
			River:      r.River,
		})
	}

	return series, summarize(usable)
}

// summarize computes per-dam statistics over reports already sorted by
// (dam, report_date) ascending, so the last value per dam is chronologically
// current and the first report supplies province/river.
func summarize(sorted []Report) []DamStatistic {
	var stats []DamStatistic
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].Dam == sorted[i].Dam {
			j++
		}
		stats = append(stats, damStatistic(sorted[i:j]))
		i = j
	}
	return stats
}

func damStatistic(group []Report) DamStatistic {
	first := group[0]
	stat := DamStatistic{
		Dam:         first.Dam,
		Province:    first.Province,
		River:       first.River,
		SampleCount: len(group),
	}

	minV, maxV := *first.ThisWeek, *first.ThisWeek
	sum := 0.0
	for _, r := range group {
		v := *r.ThisWeek
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(group))

	stat.Min = round1(minV)
	stat.Max = round1(maxV)
	stat.Mean = round1(mean)
	stat.Current = round1(*group[len(group)-1].ThisWeek)

	if len(group) >= 2 {
		var sq float64
		for _, r := range group {
			d := *r.ThisWeek - mean
			sq += d * d
		}
		sd := round1(math.Sqrt(sq / float64(len(group)-1)))
		stat.StdDev = &sd
	}
	return stat
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
