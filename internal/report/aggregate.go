package report

import (
	"sort"
	"time"

	"tally/internal/core"
)

// Totals summarizes a transaction collection. Net may be negative.
type Totals struct {
	Income  core.Money
	Expense core.Money
	Net     core.Money
}

// Bucket is one (period, kind) aggregation row. Date is the bucket key:
// the day itself for daily buckets, the Monday of the week for weekly
// buckets, and the last day of the month for monthly buckets (month-end
// labeling convention).
type Bucket struct {
	Date  core.Date
	Kind  core.Kind
	Total core.Money
}

// ComputeTotals sums income and expense amounts. Empty input yields
// all-zero totals.
func ComputeTotals(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case core.KindIncome:
			t.Income = t.Income.Add(tx.Amount)
		case core.KindExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Net = t.Income.Sub(t.Expense)
	return t
}

// CategoryBreakdown groups expense transactions by category and sums the
// amounts. Income rows are ignored; categories without expenses do not
// appear.
func CategoryBreakdown(txs []core.Transaction) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, tx := range txs {
		if tx.Kind != core.KindExpense {
			continue
		}
		out[tx.Category] = out[tx.Category].Add(tx.Amount)
	}
	return out
}

// PeriodicBuckets groups transactions into non-overlapping calendar
// buckets of the chosen frequency and sums amounts per kind within each
// bucket. A bucket with only one kind produces one row; empty buckets
// are not gap-filled. Rows are sorted by bucket date ascending, ties by
// kind.
func PeriodicBuckets(txs []core.Transaction, freq core.Frequency) []Bucket {
	type key struct {
		date time.Time
		kind core.Kind
	}
	sums := make(map[key]int64)
	for _, tx := range txs {
		if tx.Kind.Validate() != nil || tx.Date.IsZero() {
			continue
		}
		k := key{date: bucketDate(tx.Date, freq).Time, kind: tx.Kind}
		sums[k] += tx.Amount.Cents
	}

	out := make([]Bucket, 0, len(sums))
	for k, cents := range sums {
		out = append(out, Bucket{
			Date:  core.Date{Time: k.date},
			Kind:  k.kind,
			Total: core.Money{Cents: cents},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// bucketDate maps a calendar date to its bucket key. Weekly buckets start
// on Monday; monthly buckets are keyed by the last day of the month.
func bucketDate(d core.Date, freq core.Frequency) core.Date {
	switch freq {
	case core.Daily:
		return d
	case core.Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		return core.Date{Time: d.AddDate(0, 0, -offset)}
	default:
		y, m, _ := d.Date()
		return core.NewDate(y, int(m)+1, 0)
	}
}
