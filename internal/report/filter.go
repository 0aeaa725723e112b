// Package report turns raw transaction rows into the filtered, aggregated
// views the dashboard renders. Every function here is pure and total:
// empty or malformed input degrades to empty or zero output, never an
// error, so the dashboard can always render a "no data" state.
package report

import (
	"tally/internal/core"
)

// FilterRange returns the transactions with start <= date <= end, both
// bounds inclusive. When start == end the result is exactly that day's
// transactions.
//
// A missing (zero) bound, or a range with end before start, substitutes
// the full span of the input instead of failing: half-filled date pickers
// are a normal transient form state and must not blank the dashboard.
func FilterRange(txs []core.Transaction, start, end core.Date) []core.Transaction {
	if len(txs) == 0 {
		return nil
	}
	if start.IsZero() || end.IsZero() || end.Before(start.Time) {
		start, end = Span(txs)
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.Date.Before(start.Time) && !t.Date.After(end.Time) {
			out = append(out, t)
		}
	}
	return out
}

// Span returns the earliest and latest dates present in the input.
// Empty input yields zero dates.
func Span(txs []core.Transaction) (start, end core.Date) {
	for i, t := range txs {
		if i == 0 {
			start, end = t.Date, t.Date
			continue
		}
		if t.Date.Before(start.Time) {
			start = t.Date
		}
		if t.Date.After(end.Time) {
			end = t.Date
		}
	}
	return start, end
}
