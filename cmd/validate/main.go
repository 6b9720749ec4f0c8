// Command validate performs integrity checks on a dam-report JSON fixture
// before it is seeded into the reports collection: field presence,
// coordinate sanity, week-over-week chaining, and value plausibility.
//
// Usage:
//
//	go run ./cmd/validate -reports data/mock/reports.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/damdash/dam-levels-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	reportsPath := flag.String("reports", "", "path to the report JSON fixture")
	flag.Parse()

	if *reportsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*reportsPath); code != 0 {
		os.Exit(code)
	}
}

func run(reportsPath string) int {
	fmt.Println("=== Dam Report Fixture Validation ===")
	fmt.Println()

	reports, err := loadJSON(reportsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reports JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRequiredFields(reports),
		validateCoordinates(reports),
		validateWeeklyChaining(reports),
		validatePlausibility(reports),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d reports, %d dams, %d report dates\n",
		len(reports), countDistinctDams(reports), countDistinctDates(reports))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON(path string) ([]domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reports []domain.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func countDistinctDams(reports []domain.Report) int {
	dams := map[string]bool{}
	for i := range reports {
		dams[reports[i].Dam] = true
	}
	return len(dams)
}

func countDistinctDates(reports []domain.Report) int {
	dates := map[time.Time]bool{}
	for i := range reports {
		dates[reports[i].ReportDate] = true
	}
	return len(dates)
}

// ── Phase 1: Required Fields ──
// Every document needs the identity fields the filter and table views key on.

func validateRequiredFields(reports []domain.Report) *phase {
	p := &phase{name: "Phase 1: Required Fields"}

	seen := map[string]int{}
	for i := range reports {
		r := &reports[i]
		if r.Dam == "" {
			p.errorf("record %d: missing dam name", i)
		}
		if r.Province == "" {
			p.errorf("record %d (%s): missing province", i, r.Dam)
		}
		if r.ReportDate.IsZero() {
			p.errorf("record %d (%s): missing report_date", i, r.Dam)
		}

		key := r.Dam + "|" + r.ReportDate.Format("2006-01-02")
		seen[key]++
		if seen[key] == 2 {
			p.errorf("duplicate document for %s", key)
		}
	}
	return p
}

// ── Phase 2: Coordinates ──
// A zero component means "no location data"; anything else must land inside
// a loose southern-Africa bounding box, latitude first.

func validateCoordinates(reports []domain.Report) *phase {
	p := &phase{name: "Phase 2: Coordinate Sanity"}

	var unplottable int
	for i := range reports {
		r := &reports[i]
		if len(r.LatLong) == 0 {
			unplottable++
			continue
		}
		if len(r.LatLong) != 2 {
			p.errorf("record %d (%s): lat_long has %d components", i, r.Dam, len(r.LatLong))
			continue
		}
		lat, lon := r.LatLong[0], r.LatLong[1]
		if lat == 0 || lon == 0 {
			unplottable++
			continue
		}
		if lat < -35 || lat > -22 {
			p.errorf("record %d (%s): latitude %g outside South Africa", i, r.Dam, lat)
		}
		if lon < 16 || lon > 33 {
			p.errorf("record %d (%s): longitude %g outside South Africa", i, r.Dam, lon)
		}
	}

	if unplottable > 0 {
		fmt.Printf("  Note: %d record(s) without plottable coordinates (excluded from the map)\n", unplottable)
	}
	return p
}

// ── Phase 3: Weekly Chaining ──
// Each dam's last_week must equal the previous week's this_week; the
// weekly-change column is derived from exactly that pair.

func validateWeeklyChaining(reports []domain.Report) *phase {
	p := &phase{name: "Phase 3: Week-over-week Chaining"}

	byDam := map[string][]*domain.Report{}
	for i := range reports {
		r := &reports[i]
		byDam[r.Dam] = append(byDam[r.Dam], r)
	}

	for dam, docs := range byDam {
		sort.Slice(docs, func(i, j int) bool { return docs[i].ReportDate.Before(docs[j].ReportDate) })

		for i := 1; i < len(docs); i++ {
			prev, cur := docs[i-1], docs[i]
			if cur.LastWeek == nil || prev.ThisWeek == nil {
				continue
			}
			if *cur.LastWeek != *prev.ThisWeek {
				p.errorf("%s %s: last_week=%g but previous week reported %g",
					dam, cur.ReportDate.Format("2006-01-02"), *cur.LastWeek, *prev.ThisWeek)
			}
		}
	}
	return p
}

// ── Phase 4: Plausibility ──
// Value ranges and the fill-level bucketing the map relies on.

func validatePlausibility(reports []domain.Report) *phase {
	p := &phase{name: "Phase 4: Value Plausibility"}

	levelCounts := map[domain.FillLevel]int{}
	for i := range reports {
		r := &reports[i]

		if r.ThisWeek != nil {
			if *r.ThisWeek < 0 || *r.ThisWeek > 130 {
				p.errorf("record %d (%s): this_week %g%% implausible", i, r.Dam, *r.ThisWeek)
			}
			levelCounts[domain.LevelFor(*r.ThisWeek)]++
		}
		if r.FullStorageCapacity != nil && *r.FullStorageCapacity <= 0 {
			p.errorf("record %d (%s): full_storage_capacity %g not positive", i, r.Dam, *r.FullStorageCapacity)
		}
		if r.WallHeightM != nil && *r.WallHeightM <= 0 {
			p.errorf("record %d (%s): wall_height_m %g not positive", i, r.Dam, *r.WallHeightM)
		}
		if r.YearCompleted != nil && (*r.YearCompleted < 1850 || *r.YearCompleted > time.Now().Year()) {
			p.errorf("record %d (%s): year_completed %d implausible", i, r.Dam, *r.YearCompleted)
		}
	}

	fmt.Printf("  Fill levels: very-low=%d, moderately-low=%d, near-normal=%d, moderately-high=%d, high=%d\n",
		levelCounts[domain.LevelVeryLow], levelCounts[domain.LevelModeratelyLow],
		levelCounts[domain.LevelNearNormal], levelCounts[domain.LevelModeratelyHigh],
		levelCounts[domain.LevelHigh])
	return p
}
