// Package domain models South African weekly dam-level reports.
//
// # Data Source
//
// Reports originate from the Department of Water and Sanitation weekly
// provincial bulletins (https://www.dws.gov.za/hydrology/Weekly/Province.aspx).
// An upstream ingestion pipeline scrapes the bulletins once a week and writes
// one document per dam per week into the reports collection. This service
// never writes to the collection; every view is recomputed from a fresh read.
//
// # Document Conventions
//
// Identity:
//
//	Within a single report_date, the dam name is unique. Across dates the same
//	dam recurs with a new report_date and updated percentage fields.
//
// Percentages:
//
//	this_week, last_week and last_year are percent-filled values. They are
//	conceptually in [0,100] but the bulletins occasionally exceed 100% after
//	heavy inflows, so no range is enforced anywhere in this package.
//
// Storage capacity:
//
//	full_storage_capacity is stored in cubic meters. All derived views divide
//	by 1e6 and present million cubic meters (the FSC column).
//
// Coordinates:
//
//	lat_long is an ordered [latitude, longitude] pair. Many dams have no
//	surveyed coordinates; the field may be absent, short, or contain zeros.
//	The upstream scraper writes 0 for "unknown", so a zero component means
//	"no location data" rather than a point on the equator or prime meridian.
//	See [ToMarkers] for how the map view treats these.
//
// Weekly change:
//
//	this_week − last_week, rendered as "🔼 x.x%" / "🔻 x.x%" with the
//	magnitude to one decimal, or the literal "◼ 0%" when the weeks are equal
//	or last_week is missing. See [BuildTableRow].
//
// Fill-level buckets:
//
//	Five half-open intervals over percent filled, closed on the left:
//	<25 very-low | <50 moderately-low | <75 near-normal | <90 moderately-high
//	| ≥90 high. Boundary values map to the upper bucket. See [LevelFor].
package domain
