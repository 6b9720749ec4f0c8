package domain

import "time"

// Report is one dam's weekly measurement document from the reports
// collection. Optional fields are pointers so a document that omits them
// stays representable without sentinel values.
type Report struct {
	Dam                 string     `bson:"dam" json:"dam"`
	Province            string     `bson:"province" json:"province"`
	River               string     `bson:"river" json:"river"`
	NearestLocale       string     `bson:"nearest_locale" json:"nearest_locale,omitempty"`
	ReportDate          time.Time  `bson:"report_date" json:"report_date"`
	FullStorageCapacity *float64   `bson:"full_storage_capacity" json:"full_storage_capacity,omitempty"`
	ThisWeek            *float64   `bson:"this_week" json:"this_week,omitempty"`
	LastWeek            *float64   `bson:"last_week" json:"last_week,omitempty"`
	LastYear            *float64   `bson:"last_year" json:"last_year,omitempty"`
	WallHeightM         *float64   `bson:"wall_height_m" json:"wall_height_m,omitempty"`
	YearCompleted       *int       `bson:"year_completed" json:"year_completed,omitempty"`
	LatLong             []float64  `bson:"lat_long" json:"lat_long,omitempty"`
}

// TableRow is a Report reshaped for display: capacity rescaled to million
// cubic meters, the weekly change derived, and the raw last_week value
// dropped. LatLong is carried for the marker mapper but never serialized.
type TableRow struct {
	Dam            string     `json:"dam"`
	Province       string     `json:"province"`
	River          string     `json:"river"`
	NearestLocale  string     `json:"nearest_town,omitempty"`
	ReportDate     time.Time  `json:"report_date"`
	FSCMillions    *float64   `json:"fsc_million_m3,omitempty"`
	CurrentPercent *float64   `json:"current_percent,omitempty"`
	LastYear       *float64   `json:"last_year_percent,omitempty"`
	WallHeightM    *float64   `json:"wall_height_m,omitempty"`
	YearCompleted  *int       `json:"year_built,omitempty"`
	Change         string     `json:"change"`
	ChangeNumeric  *float64   `json:"change_numeric,omitempty"`
	LatLong        []float64  `json:"-"`
}

// MarkerDescriptor is a map point derived from a TableRow: color-coded by
// percent filled, size-coded by storage capacity.
type MarkerDescriptor struct {
	Dam     string    `json:"dam"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	Size    float64   `json:"size"`
	Level   FillLevel `json:"level"`
	Color   string    `json:"color"`
	Current *float64  `json:"current_percent,omitempty"`
	Label   string    `json:"label"`
}

// SeriesPoint is one observation in a dam's historical time series.
// Province and river ride along for chart hover data.
type SeriesPoint struct {
	Dam        string    `json:"dam"`
	ReportDate time.Time `json:"report_date"`
	Percent    float64   `json:"percent"`
	Province   string    `json:"province,omitempty"`
	River      string    `json:"river,omitempty"`
}

// DamStatistic summarizes a dam's percent-filled values over a date window.
// StdDev is the sample standard deviation (n−1) and is nil when the window
// holds fewer than two points.
type DamStatistic struct {
	Dam         string   `json:"dam"`
	Province    string   `json:"province"`
	River       string   `json:"river"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	Mean        float64  `json:"mean"`
	StdDev      *float64 `json:"std_dev,omitempty"`
	Current     float64  `json:"current"`
	SampleCount int      `json:"sample_count"`
}
