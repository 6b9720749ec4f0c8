package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/damdash/dam-levels-service/internal/domain"
	"github.com/damdash/dam-levels-service/internal/service"
)

const dateLayout = "2006-01-02"

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := s.filters.Options(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleDams(w http.ResponseWriter, r *http.Request) {
	dams, err := s.filters.Dams(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"dams": dams})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	view, err := s.projector.TableView(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReportsCSV(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	view, err := s.projector.TableView(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := "all_dates"
	if sel.Date != nil {
		name = sel.Date.Format(dateLayout)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=dam_levels_%s.csv", name))

	if err := service.WriteCSV(w, view.Rows); err != nil {
		s.logger.Error("csv write failed", "error", err)
	}
}

// markersResponse carries the map payload plus the legend so the client does
// not hardcode the bucket palette.
type markersResponse struct {
	Markers []domain.MarkerDescriptor `json:"markers"`
	Skipped int                       `json:"skipped"`
	Legend  []domain.LegendEntry      `json:"legend"`
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	// Marker sizes are scaled within a single week's rows; mixing weeks
	// would plot the same dam many times over.
	if sel.AllDates() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "map markers require a specific report date"})
		return
	}

	rows, err := s.projector.Project(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}

	markers, skipped := domain.ToMarkers(rows)
	if skipped > 0 {
		s.metrics.MarkersSkipped.Add(float64(skipped))
		s.logger.Warn("markers skipped for unusable coordinates", "skipped", skipped)
	}

	writeJSON(w, http.StatusOK, markersResponse{
		Markers: markers,
		Skipped: skipped,
		Legend:  domain.Legend(),
	})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	dams := splitDams(r.URL.Query().Get("dams"))

	start, end, err := parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// The window is inclusive of the end date's whole day.
	result, err := s.trends.Aggregate(r.Context(), dams, start, endOfDay(end))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrendRange(w http.ResponseWriter, r *http.Request) {
	rng, err := s.filters.Range(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rng)
}

// parseSelection reads the date and province filters. Absent or "all" values
// leave the axis unconstrained.
func parseSelection(r *http.Request) (domain.Selection, error) {
	var sel domain.Selection

	if raw := r.URL.Query().Get("date"); raw != "" && !strings.EqualFold(raw, "all") {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.Selection{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
		}
		sel.Date = &date
	}
	if raw := r.URL.Query().Get("province"); raw != "" && !strings.EqualFold(raw, "all") {
		sel.Province = raw
	}
	return sel, nil
}

func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	start, err := requireDate(r, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := requireDate(r, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func requireDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing %s date", key)
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", key, raw)
	}
	return date, nil
}

func splitDams(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	dams := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			dams = append(dams, p)
		}
	}
	return dams
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}
