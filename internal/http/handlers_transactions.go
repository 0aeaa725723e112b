package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tally/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	date := core.Today()
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			UnprocessableEntityError("Invalid date, expected YYYY-MM-DD").Write(w)
			return
		}
		date = d
	}

	kind, err := core.ParseKind(r.Form.Get("kind"))
	if err != nil {
		UnprocessableEntityError("Kind must be Income or Expense").Write(w)
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	}

	t := core.Transaction{
		Date:     date,
		Kind:     kind,
		Category: sanitizeInput(r.Form.Get("category")),
		Amount:   core.Money{Cents: cents},
		Notes:    sanitizeInput(r.Form.Get("notes")),
	}
	if err := t.Validate(); err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	id, err := s.writer.Create(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err,
			"kind", string(t.Kind), "category", t.Category, "amount_cents", t.Amount.Cents)
		InternalServerError("Failed to save transaction").Write(w)
		return
	}

	s.invalidateDashboards()

	NewHTMXResponse().
		TriggerTransactionCreated(id).
		TriggerDashboardRefresh().
		TriggerFormReset().
		BodyHTML(`<div class="success">Saved #` + strconv.FormatInt(id, 10) + `: ` +
			template.HTMLEscapeString(t.Category) +
			` ` + template.HTMLEscapeString(t.Amount.String()) +
			` (` + template.HTMLEscapeString(string(t.Kind)) + `)</div>`).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		MethodNotAllowedError("POST, DELETE").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	idStr := strings.TrimSpace(r.Form.Get("id"))
	if idStr == "" {
		idStr = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		UnprocessableEntityError("Invalid transaction id").Write(w)
		return
	}

	// Deleting an absent id is a no-op, same response either way.
	if err := s.writer.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		InternalServerError("Failed to delete transaction").Write(w)
		return
	}

	s.invalidateDashboards()

	NewHTMXResponse().
		TriggerTransactionDeleted(id).
		TriggerDashboardRefresh().
		BodyHTML(`<div class="success">Deleted #` + strconv.FormatInt(id, 10) + `</div>`).
		Write(w)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
