package domain

import "fmt"

// FillLevel is the color bucket for a dam's percent-filled value.
type FillLevel string

const (
	LevelVeryLow        FillLevel = "very-low"
	LevelModeratelyLow  FillLevel = "moderately-low"
	LevelNearNormal     FillLevel = "near-normal"
	LevelModeratelyHigh FillLevel = "moderately-high"
	LevelHigh           FillLevel = "high"
)

// Marker radius bounds in pixels. Sizes interpolate linearly between them
// by storage capacity.
const (
	minMarkerSize = 6.0
	maxMarkerSize = 15.0
)

// palette maps fill levels to the dashboard's marker colors.
var palette = map[FillLevel]string{
	LevelVeryLow:        "#e60000",
	LevelModeratelyLow:  "#ffaa02",
	LevelNearNormal:     "#fffe03",
	LevelModeratelyHigh: "#4de600",
	LevelHigh:           "#0959df",
}

// LegendEntry describes one fill-level bucket for the map legend.
type LegendEntry struct {
	Level FillLevel `json:"level"`
	Color string    `json:"color"`
	Label string    `json:"label"`
}

// Legend returns the five fill-level buckets in ascending severity order.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Level: LevelVeryLow, Color: palette[LevelVeryLow], Label: "Very Low (0-25%)"},
		{Level: LevelModeratelyLow, Color: palette[LevelModeratelyLow], Label: "Moderately Low (25-50%)"},
		{Level: LevelNearNormal, Color: palette[LevelNearNormal], Label: "Near Normal (50-75%)"},
		{Level: LevelModeratelyHigh, Color: palette[LevelModeratelyHigh], Label: "Moderately High (75-90%)"},
		{Level: LevelHigh, Color: palette[LevelHigh], Label: "High (90%+)"},
	}
}

// LevelFor buckets a percent-filled value. Intervals are half-open, closed on
// the left: a boundary value maps to the upper bucket. Total over the real
// line; out-of-range inputs land in the outermost buckets.
func LevelFor(percent float64) FillLevel {
	switch {
	case percent < 25:
		return LevelVeryLow
	case percent < 50:
		return LevelModeratelyLow
	case percent < 75:
		return LevelNearNormal
	case percent < 90:
		return LevelModeratelyHigh
	default:
		return LevelHigh
	}
}

// ToMarkers converts table rows into map-marker descriptors. Rows without a
// usable coordinate pair are counted as skipped rather than emitted. Marker
// sizes interpolate over the row set's capacity range, so the result depends
// on the set as a whole, not on row order.
func ToMarkers(rows []TableRow) ([]MarkerDescriptor, int) {
	minFSC, maxFSC := fscRange(rows)

	markers := make([]MarkerDescriptor, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if !hasUsableCoords(row.LatLong) {
			skipped++
			continue
		}

		percent := 0.0
		if row.CurrentPercent != nil {
			percent = *row.CurrentPercent
		}
		level := LevelFor(percent)

		markers = append(markers, MarkerDescriptor{
			Dam:     row.Dam,
			Lat:     row.LatLong[0],
			Lon:     row.LatLong[1],
			Size:    markerSize(row.FSCMillions, minFSC, maxFSC),
			Level:   level,
			Color:   palette[level],
			Current: row.CurrentPercent,
			Label:   markerLabel(row),
		})
	}
	return markers, skipped
}

// hasUsableCoords reports whether a coordinate pair can be plotted.
// The upstream scraper writes 0 for unknown components, so any zero is
// treated as "no location data" — including a literal (0, 0). A dam
// genuinely on the equator or prime meridian would be mislabeled, but no
// South African dam is, and the ingestion side relies on this convention.
func hasUsableCoords(pair []float64) bool {
	if len(pair) != 2 {
		return false
	}
	return pair[0] != 0 && pair[1] != 0
}

// markerSize interpolates a radius from the row set's capacity range.
// A degenerate range (all capacities equal, or unknown) collapses to the
// minimum size.
func markerSize(fsc *float64, minFSC, maxFSC float64) float64 {
	if fsc == nil || maxFSC <= minFSC {
		return minMarkerSize
	}
	return minMarkerSize + (maxMarkerSize-minMarkerSize)*((*fsc-minFSC)/(maxFSC-minFSC))
}

// fscRange finds the min and max rescaled storage capacity across the rows.
// Rows without a capacity are ignored.
func fscRange(rows []TableRow) (float64, float64) {
	first := true
	var minFSC, maxFSC float64
	for _, row := range rows {
		if row.FSCMillions == nil {
			continue
		}
		v := *row.FSCMillions
		if first {
			minFSC, maxFSC = v, v
			first = false
			continue
		}
		if v < minFSC {
			minFSC = v
		}
		if v > maxFSC {
			maxFSC = v
		}
	}
	return minFSC, maxFSC
}

func markerLabel(row TableRow) string {
	if row.CurrentPercent == nil {
		return fmt.Sprintf("%s — River: %s", row.Dam, row.River)
	}
	return fmt.Sprintf("%s — Current: %.1f%%, River: %s", row.Dam, *row.CurrentPercent, row.River)
}
