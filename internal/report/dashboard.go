package report

import (
	"sort"

	"tally/internal/core"
)

// CategoryTotal is one slice of the expense breakdown, ordered for
// chart display.
type CategoryTotal struct {
	Category string
	Total    core.Money
}

// Row is one line of the transaction table: newest first, 1-based index,
// date reformatted for display only.
type Row struct {
	Index       int
	Transaction core.Transaction
	DisplayDate string
}

// Dashboard is the read-only view handed to the presentation layer.
type Dashboard struct {
	Totals    Totals
	Breakdown []CategoryTotal
	Buckets   []Bucket
	Rows      []Row
	Start     core.Date
	End       core.Date
	Frequency core.Frequency
}

const displayDateFormat = "02/01/2006"

// BuildDashboard runs the full pipeline: filter to the requested range,
// aggregate, and shape the result for rendering. Like the functions it
// composes, it is total: empty input produces an empty but renderable
// dashboard.
func BuildDashboard(txs []core.Transaction, start, end core.Date, freq core.Frequency) Dashboard {
	filtered := FilterRange(txs, start, end)
	if start.IsZero() || end.IsZero() || end.Before(start.Time) {
		start, end = Span(filtered)
	}

	d := Dashboard{
		Totals:    ComputeTotals(filtered),
		Buckets:   PeriodicBuckets(filtered, freq),
		Start:     start,
		End:       end,
		Frequency: freq,
	}

	byCat := CategoryBreakdown(filtered)
	d.Breakdown = make([]CategoryTotal, 0, len(byCat))
	for cat, total := range byCat {
		d.Breakdown = append(d.Breakdown, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(d.Breakdown, func(i, j int) bool {
		if d.Breakdown[i].Total.Cents != d.Breakdown[j].Total.Cents {
			return d.Breakdown[i].Total.Cents > d.Breakdown[j].Total.Cents
		}
		return d.Breakdown[i].Category < d.Breakdown[j].Category
	})

	rows := make([]core.Transaction, len(filtered))
	copy(rows, filtered)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date.Time) {
			return rows[i].Date.After(rows[j].Date.Time)
		}
		return rows[i].ID > rows[j].ID
	})
	d.Rows = make([]Row, len(rows))
	for i, tx := range rows {
		d.Rows[i] = Row{
			Index:       i + 1,
			Transaction: tx,
			DisplayDate: tx.Date.Format(displayDateFormat),
		}
	}

	return d
}
