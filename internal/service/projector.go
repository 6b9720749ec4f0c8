package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/damdash/dam-levels-service/internal/domain"
)

// Projector turns stored reports into display table rows.
type Projector struct {
	store  domain.ReportStore
	logger *slog.Logger
}

// NewProjector creates a Projector.
func NewProjector(store domain.ReportStore, logger *slog.Logger) *Projector {
	return &Projector{store: store, logger: logger}
}

// Project fetches reports matching the selection and builds one TableRow per
// document, in fetch order. An empty match is an empty slice, not an error.
// Malformed documents degrade to partial rows; only a store failure is fatal.
func (p *Projector) Project(ctx context.Context, sel domain.Selection) ([]domain.TableRow, error) {
	reports, err := p.store.FindReports(ctx, sel)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TableRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, domain.BuildTableRow(r))
	}

	p.logger.Debug("projected reports", "rows", len(rows), "all_dates", sel.AllDates(), "province", sel.Province)
	return rows, nil
}

// Extreme names the dam with the largest weekly movement in a view.
type Extreme struct {
	Dam    string  `json:"dam"`
	Change float64 `json:"change"`
}

// TableView is the table screen's payload: sorted rows plus headline metrics.
type TableView struct {
	Rows            []domain.TableRow `json:"rows"`
	Count           int               `json:"count"`
	BiggestIncrease *Extreme          `json:"biggest_increase,omitempty"`
	BiggestDecrease *Extreme          `json:"biggest_decrease,omitempty"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// TableView projects the selection and shapes it for the table screen:
// rows sorted by province ascending then current percentage descending, and
// the biggest weekly increase/decrease. The extremes only make sense within
// a single week, so they are omitted for an all-dates selection.
func (p *Projector) TableView(ctx context.Context, sel domain.Selection) (TableView, error) {
	rows, err := p.Project(ctx, sel)
	if err != nil {
		return TableView{}, err
	}

	sortRows(rows)

	view := TableView{
		Rows:        rows,
		Count:       len(rows),
		GeneratedAt: domain.Now(),
	}
	if !sel.AllDates() {
		view.BiggestIncrease, view.BiggestDecrease = extremes(rows)
	}
	return view, nil
}

// sortRows orders by province A-Z, then current percentage high to low.
// Rows without a current percentage sink to the bottom of their province.
func sortRows(rows []domain.TableRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Province != rows[j].Province {
			return rows[i].Province < rows[j].Province
		}
		pi, pj := rows[i].CurrentPercent, rows[j].CurrentPercent
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi > *pj
		}
	})
}

// extremes finds the largest increase and decrease across the rows. Rows
// without a numeric change are ignored; with none at all, both are nil.
func extremes(rows []domain.TableRow) (*Extreme, *Extreme) {
	var up, down *Extreme
	for _, row := range rows {
		if row.ChangeNumeric == nil {
			continue
		}
		change := *row.ChangeNumeric
		if up == nil || change > up.Change {
			up = &Extreme{Dam: row.Dam, Change: change}
		}
		if down == nil || change < down.Change {
			down = &Extreme{Dam: row.Dam, Change: change}
		}
	}
	return up, down
}
