package domain

import "fmt"

// Change direction glyphs as rendered in the weekly bulletins dashboard.
const (
	changeUp       = "🔼"
	changeDown     = "🔻"
	changeNoChange = "◼ 0%"
)

// cubicMetersPerMillion converts full_storage_capacity (m³) to million m³.
const cubicMetersPerMillion = 1e6

// BuildTableRow reshapes a Report into its display form. Fields absent from
// the document stay absent in the row; derivable fields are still computed
// ("populate what you can"). The raw last_week value is consumed by the
// change computation and not carried into the row.
func BuildTableRow(r Report) TableRow {
	row := TableRow{
		Dam:            r.Dam,
		Province:       r.Province,
		River:          r.River,
		NearestLocale:  r.NearestLocale,
		ReportDate:     r.ReportDate,
		CurrentPercent: r.ThisWeek,
		LastYear:       r.LastYear,
		WallHeightM:    r.WallHeightM,
		YearCompleted:  r.YearCompleted,
		LatLong:        r.LatLong,
	}

	if r.FullStorageCapacity != nil {
		fsc := *r.FullStorageCapacity / cubicMetersPerMillion
		row.FSCMillions = &fsc
	}

	row.Change, row.ChangeNumeric = formatChange(r.ThisWeek, r.LastWeek)
	return row
}

// formatChange renders the weekly delta. The string carries the magnitude to
// one decimal with a direction glyph; equal weeks or a missing prior week
// collapse to the fixed "◼ 0%" literal. The numeric delta keeps its sign.
func formatChange(thisWeek, lastWeek *float64) (string, *float64) {
	if thisWeek == nil || lastWeek == nil {
		return changeNoChange, nil
	}

	delta := *thisWeek - *lastWeek
	switch {
	case delta > 0:
		return fmt.Sprintf("%s %.1f%%", changeUp, delta), &delta
	case delta < 0:
		return fmt.Sprintf("%s %.1f%%", changeDown, -delta), &delta
	default:
		return changeNoChange, &delta
	}
}
