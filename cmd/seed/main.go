// Command seed generates a synthetic weekly dam-report JSON fixture using
// the actual domain types, so seeded documents match what the API reads.
// Percentages follow a per-dam random walk across the requested number of
// weeks; a fixed -seed makes the output reproducible.
//
// Usage:
//
//	go run ./cmd/seed -out data/mock/reports.json -weeks 12 -end 2025-02-10
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/damdash/dam-levels-service/internal/domain"
)

// damDef describes one dam's static attributes. Coordinates follow the
// source convention: 0 for an unknown component, nil when the scraper had
// no location row at all.
type damDef struct {
	name     string
	province string
	river    string
	locale   string
	fsc      float64 // cubic meters
	wall     float64
	year     int
	latLong  []float64
	startPct float64
}

var dams = []damDef{
	{"Vaal Dam", "Free State", "Vaal River", "Deneysville", 2_536_300_000, 63.4, 1938, []float64{-26.8833, 28.1167}, 72},
	{"Gariep Dam", "Free State", "Orange River", "Norvalspont", 5_343_000_000, 88, 1971, []float64{-30.6236, 25.5047}, 85},
	{"Vanderkloof Dam", "Northern Cape", "Orange River", "Petrusville", 3_171_300_000, 108, 1977, []float64{-29.9931, 24.7317}, 90},
	{"Sterkfontein Dam", "Free State", "Nuwejaarspruit", "Harrismith", 2_616_900_000, 93, 1980, []float64{-28.4167, 29.0167}, 97},
	{"Theewaterskloof Dam", "Western Cape", "Sonderend River", "Villiersdorp", 480_188_000, 38, 1978, []float64{-34.0667, 19.2833}, 55},
	{"Pongolapoort Dam", "KwaZulu-Natal", "Phongolo River", "Jozini", 2_267_100_000, 89, 1973, []float64{-27.4167, 31.9833}, 64},
	{"Katse Dam", "Free State", "Malibamat'so River", "Clarens", 1_950_000_000, 185, 1996, []float64{-29.3422, 28.5064}, 48},
	{"Bloemhof Dam", "North West", "Vaal River", "Bloemhof", 1_240_200_000, 35.4, 1970, []float64{-27.6667, 25.6167}, 78},
	{"Loskop Dam", "Mpumalanga", "Olifants River", "Groblersdal", 361_556_000, 54, 1939, []float64{-25.4167, 29.3667}, 82},
	{"Hartbeespoort Dam", "North West", "Crocodile River", "Hartbeespoort", 186_450_000, 59, 1923, []float64{-25.7244, 27.8483}, 94},
	{"Midmar Dam", "KwaZulu-Natal", "Mgeni River", "Howick", 235_400_000, 31, 1965, []float64{-29.5000, 30.2000}, 88},
	{"Kouga Dam", "Eastern Cape", "Kouga River", "Patensie", 128_700_000, 81, 1969, []float64{-33.7333, 24.5833}, 32},
	{"Clanwilliam Dam", "Western Cape", "Olifants River", "Clanwilliam", 121_800_000, 43, 1935, []float64{-32.1833, 18.8833}, 41},
	{"Albert Falls Dam", "KwaZulu-Natal", "Mgeni River", "Pietermaritzburg", 288_100_000, 40, 1976, []float64{-29.4333, 30.4167}, 67},
	{"Roodeplaat Dam", "Gauteng", "Pienaars River", "Pretoria", 41_300_000, 53.7, 1959, []float64{-25.6219, 28.3692}, 99},
	{"Rietvlei Dam", "Gauteng", "Hennops River", "Centurion", 12_300_000, 31, 1934, []float64{-25.8833, 28.2667}, 101.2},
	// Scraper quirks worth exercising: a zero longitude component and a
	// dam with no location row at all.
	{"Ntshingwayo Dam", "KwaZulu-Natal", "Ngagane River", "Newcastle", 194_600_000, 23, 1982, []float64{-27.9167, 0}, 86},
	{"Grootdraai Dam", "Mpumalanga", "Vaal River", "Standerton", 364_000_000, 42, 1981, nil, 74},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the report JSON fixture")
	weeks := flag.Int("weeks", 12, "number of weekly reports per dam")
	endStr := flag.String("end", "2025-02-10", "most recent report date (YYYY-MM-DD, a Monday)")
	seed := flag.Int64("seed", 42, "random walk seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *weeks < 1 {
		return fmt.Errorf("-weeks must be at least 1")
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		return fmt.Errorf("invalid -end date: %w", err)
	}

	reports := generate(*weeks, end, rand.New(rand.NewSource(*seed)))

	if err := writeJSON(*out, reports); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d reports (%d dams x %d weeks): %s", len(reports), len(dams), *weeks, *out)

	printStats(reports, end)
	return nil
}

// generate walks each dam's percentage backwards-compatibly: week n's
// last_week equals week n-1's this_week, which the weekly-change column
// depends on. The oldest week has no last_week.
func generate(weeks int, end time.Time, rng *rand.Rand) []domain.Report {
	reports := make([]domain.Report, 0, len(dams)*weeks)

	for _, d := range dams {
		pct := d.startPct
		var lastWeek *float64

		for w := weeks - 1; w >= 0; w-- {
			reportDate := end.AddDate(0, 0, -7*w)

			thisWeek := round1(pct)
			fsc := d.fsc
			wall := d.wall
			year := d.year

			reports = append(reports, domain.Report{
				Dam:                 d.name,
				Province:            d.province,
				River:               d.river,
				NearestLocale:       d.locale,
				ReportDate:          reportDate,
				FullStorageCapacity: &fsc,
				ThisWeek:            &thisWeek,
				LastWeek:            lastWeek,
				LastYear:            fp(round1(clampPct(pct + rng.Float64()*20 - 10))),
				WallHeightM:         &wall,
				YearCompleted:       &year,
				LatLong:             d.latLong,
			})

			lastWeek = &thisWeek
			pct = clampPct(pct + rng.Float64()*6 - 3)
		}
	}
	return reports
}

// clampPct keeps the walk in a plausible band. Slightly over 100 is real:
// dams do spill.
func clampPct(v float64) float64 {
	if v < 2 {
		return 2
	}
	if v > 110 {
		return 110
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func fp(v float64) *float64 { return &v }

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(reports []domain.Report, end time.Time) {
	provinceCounts := map[string]int{}
	levelCounts := map[domain.FillLevel]int{}
	var latestRows, noCoords int

	for i := range reports {
		r := &reports[i]
		if !r.ReportDate.Equal(end) {
			continue
		}
		latestRows++
		provinceCounts[r.Province]++
		if r.ThisWeek != nil {
			levelCounts[domain.LevelFor(*r.ThisWeek)]++
		}
		if len(r.LatLong) != 2 || r.LatLong[0] == 0 || r.LatLong[1] == 0 {
			noCoords++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(reports))
	fmt.Printf("Latest week (%s): %d rows, %d without plottable coordinates\n",
		end.Format("2006-01-02"), latestRows, noCoords)
	fmt.Printf("By province:")
	for p, c := range provinceCounts {
		fmt.Printf(" %s=%d", p, c)
	}
	fmt.Println()
	fmt.Printf("By fill level: very-low=%d, moderately-low=%d, near-normal=%d, moderately-high=%d, high=%d\n",
		levelCounts[domain.LevelVeryLow], levelCounts[domain.LevelModeratelyLow],
		levelCounts[domain.LevelNearNormal], levelCounts[domain.LevelModeratelyHigh],
		levelCounts[domain.LevelHigh])
}
