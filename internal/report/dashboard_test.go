package report

import (
	"testing"

	"tally/internal/core"
)

func TestBuildDashboardShapesRows(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 5), core.KindExpense, "Food", 5000),
		tx(2, core.NewDate(2024, 1, 10), core.KindIncome, "Salary", 100000),
		tx(3, core.NewDate(2024, 1, 10), core.KindExpense, "Transport", 1500),
	}

	d := BuildDashboard(txs, core.Date{}, core.Date{}, core.Monthly)

	// Newest first, same-day ties broken by id descending.
	if len(d.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(d.Rows))
	}
	wantOrder := []int64{3, 2, 1}
	for i, want := range wantOrder {
		if d.Rows[i].Transaction.ID != want {
			t.Fatalf("row %d: id = %d, want %d", i, d.Rows[i].Transaction.ID, want)
		}
		if d.Rows[i].Index != i+1 {
			t.Fatalf("row %d: index = %d, want %d", i, d.Rows[i].Index, i+1)
		}
	}
	if d.Rows[0].DisplayDate != "10/01/2024" {
		t.Fatalf("display date = %q", d.Rows[0].DisplayDate)
	}

	if d.Totals.Net.Cents != 93500 {
		t.Fatalf("net = %d, want 93500", d.Totals.Net.Cents)
	}

	// Breakdown sorted by amount descending.
	if len(d.Breakdown) != 2 || d.Breakdown[0].Category != "Food" || d.Breakdown[1].Category != "Transport" {
		t.Fatalf("unexpected breakdown order: %+v", d.Breakdown)
	}

	// Missing range fell back to the full span.
	if d.Start.String() != "2024-01-05" || d.End.String() != "2024-01-10" {
		t.Fatalf("span = %s..%s", d.Start, d.End)
	}
}

func TestBuildDashboardEmptyInputRenders(t *testing.T) {
	d := BuildDashboard(nil, core.Date{}, core.Date{}, core.Weekly)
	if len(d.Rows) != 0 || len(d.Breakdown) != 0 || len(d.Buckets) != 0 {
		t.Fatalf("expected empty dashboard, got %+v", d)
	}
	if d.Totals.Net.Cents != 0 {
		t.Fatalf("expected zero net, got %d", d.Totals.Net.Cents)
	}
}

func TestBuildDashboardHonorsRange(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 5), core.KindExpense, "Food", 5000),
		tx(2, core.NewDate(2024, 2, 5), core.KindExpense, "Food", 7000),
	}
	d := BuildDashboard(txs, core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 28), core.Monthly)
	if len(d.Rows) != 1 || d.Rows[0].Transaction.ID != 2 {
		t.Fatalf("expected only February row, got %+v", d.Rows)
	}
	if d.Totals.Expense.Cents != 7000 {
		t.Fatalf("expense = %d, want 7000", d.Totals.Expense.Cents)
	}
}
