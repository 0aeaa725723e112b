package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tally/internal/core"
	"tally/internal/report"
)

// dashboardParams are the filter inputs shared by the dashboard partial
// and the buckets endpoint. Missing or malformed bounds stay zero, which
// the report layer treats as "full span".
type dashboardParams struct {
	Start core.Date
	End   core.Date
	Freq  core.Frequency
}

func parseDashboardParams(r *http.Request) dashboardParams {
	var p dashboardParams
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			p.Start = d
		} else {
			slog.WarnContext(r.Context(), "Invalid start parameter ignored", "start", v)
		}
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			p.End = d
		} else {
			slog.WarnContext(r.Context(), "Invalid end parameter ignored", "end", v)
		}
	}
	p.Freq = core.ParseFrequency(q.Get("freq"))
	return p
}

func (p dashboardParams) cacheKey() string {
	return p.Start.String() + "|" + p.End.String() + "|" + string(p.Freq)
}

// getDashboard builds (or returns the cached) dashboard for the params.
func (s *Server) getDashboard(ctx context.Context, p dashboardParams) (report.Dashboard, error) {
	key := p.cacheKey()
	if d, found := s.dashCache.Get(key); found {
		slog.DebugContext(ctx, "Dashboard cache hit", "key", key)
		return d, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	txs, err := s.lister.ListAll(cctx)
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("list transactions: %w", err)
	}

	d := report.BuildDashboard(txs, p.Start, p.End, p.Freq)
	s.dashCache.Set(key, d)
	slog.DebugContext(ctx, "Dashboard cached", "key", key, "rows", len(d.Rows))
	return d, nil
}

// handleDashboard renders the dashboard partial.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	p := parseDashboardParams(r)
	d, err := s.getDashboard(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard build error", "error", err)
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Error loading dashboard</div></section>`))
		return
	}
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Net: ` + d.Totals.Net.String() + `</div></section>`))
		return
	}

	data := dashboardView(d)
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Error rendering dashboard</div></section>`))
	}
}

// dashboardData is the template model for the dashboard partial. Amounts
// arrive pre-formatted; the template does layout only.
type dashboardData struct {
	Start     string
	End       string
	Frequency string
	Income    string
	Expense   string
	Net       string
	NetClass  string
	Breakdown []breakdownRow
	Rows      []tableRow
}

type breakdownRow struct {
	Category string
	Amount   string
	Width    int
}

type tableRow struct {
	Index    int
	ID       int64
	Date     string
	Kind     string
	Category string
	Amount   string
	Notes    string
}

func dashboardView(d report.Dashboard) dashboardData {
	data := dashboardData{
		Frequency: string(d.Frequency),
		Income:    d.Totals.Income.String(),
		Expense:   d.Totals.Expense.String(),
		Net:       d.Totals.Net.String(),
		NetClass:  "positive",
	}
	if d.Totals.Net.Cents < 0 {
		data.NetClass = "negative"
	}
	if !d.Start.IsZero() {
		data.Start = d.Start.String()
	}
	if !d.End.IsZero() {
		data.End = d.End.String()
	}

	var maxCents int64
	for _, b := range d.Breakdown {
		if b.Total.Cents > maxCents {
			maxCents = b.Total.Cents
		}
	}
	for _, b := range d.Breakdown {
		width := 0
		if maxCents > 0 && b.Total.Cents > 0 {
			width = int((b.Total.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 { // keep tiny slices visible
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Breakdown = append(data.Breakdown, breakdownRow{
			Category: b.Category,
			Amount:   b.Total.String(),
			Width:    width,
		})
	}

	for _, row := range d.Rows {
		t := row.Transaction
		data.Rows = append(data.Rows, tableRow{
			Index:    row.Index,
			ID:       t.ID,
			Date:     row.DisplayDate,
			Kind:     string(t.Kind),
			Category: t.Category,
			Amount:   t.Amount.String(),
			Notes:    t.Notes,
		})
	}

	return data
}

// handleBuckets serves the periodic aggregation as JSON for the chart.
func (s *Server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	p := parseDashboardParams(r)
	d, err := s.getDashboard(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Buckets build error", "error", err)
		http.Error(w, "failed to compute buckets", http.StatusInternalServerError)
		return
	}

	type bucketJSON struct {
		Date       string `json:"date"`
		Kind       string `json:"kind"`
		TotalCents int64  `json:"total_cents"`
		Total      string `json:"total"`
	}
	out := struct {
		Frequency string       `json:"frequency"`
		Buckets   []bucketJSON `json:"buckets"`
	}{
		Frequency: string(d.Frequency),
		Buckets:   make([]bucketJSON, 0, len(d.Buckets)),
	}
	for _, b := range d.Buckets {
		out.Buckets = append(out.Buckets, bucketJSON{
			Date:       b.Date.String(),
			Kind:       string(b.Kind),
			TotalCents: b.Total.Cents,
			Total:      b.Total.String(),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.ErrorContext(r.Context(), "Buckets encode error", "error", err)
	}
}
