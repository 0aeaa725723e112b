package http

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"

	"tally/internal/report"
)

// handleExportCSV streams the filtered ledger as CSV. The same start/end
// parameters as the dashboard apply; rows come out newest first, matching
// the on-screen table.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p := parseDashboardParams(r)
	txs, err := s.lister.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export list error", "error", err)
		http.Error(w, "failed to load transactions", http.StatusInternalServerError)
		return
	}
	d := report.BuildDashboard(txs, p.Start, p.End, p.Freq)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "kind", "category", "amount", "notes"}); err != nil {
		slog.ErrorContext(r.Context(), "Export header write error", "error", err)
		return
	}
	for _, row := range d.Rows {
		t := row.Transaction
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Date.String(),
			string(t.Kind),
			t.Category,
			t.Amount.String(),
			t.Notes,
		}
		if err := cw.Write(record); err != nil {
			slog.ErrorContext(r.Context(), "Export row write error", "error", err, "id", t.ID)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "Export flush error", "error", err)
	}
}
