package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/damdash/dam-levels-service/internal/domain"
)

// csvHeader matches the dashboard's display column names.
var csvHeader = []string{
	"Dam Name",
	"Province",
	"River",
	"Current %",
	"Weekly Change",
	"FSC Million m³",
	"Last Year %",
	"Wall Height (m)",
	"Year Built",
	"Nearest Town",
}

// WriteCSV serializes table rows as comma-separated values with a header
// row. Absent fields render as empty cells.
func WriteCSV(w io.Writer, rows []domain.TableRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Dam,
			row.Province,
			row.River,
			floatCell(row.CurrentPercent),
			row.Change,
			floatCell(row.FSCMillions),
			floatCell(row.LastYear),
			floatCell(row.WallHeightM),
			intCell(row.YearCompleted),
			row.NearestLocale,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
