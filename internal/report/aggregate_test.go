package report

import (
	"testing"

	"tally/internal/core"
)

func TestComputeTotalsIdentity(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 5), core.KindExpense, "Food", 5000),
		tx(2, core.NewDate(2024, 1, 5), core.KindIncome, "Salary", 100000),
		tx(3, core.NewDate(2024, 2, 1), core.KindExpense, "Rent", 80000),
		tx(4, core.NewDate(2024, 2, 10), core.KindIncome, "Freelance", 30000),
	}
	got := ComputeTotals(txs)
	if got.Net.Cents != got.Income.Cents-got.Expense.Cents {
		t.Fatalf("net identity broken: %+v", got)
	}
	if got.Income.Cents != 130000 || got.Expense.Cents != 85000 || got.Net.Cents != 45000 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil)
	if got.Income.Cents != 0 || got.Expense.Cents != 0 || got.Net.Cents != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

// The worked example: one expense and one income on the same day.
func TestTotalsAndBreakdownScenario(t *testing.T) {
	day := core.NewDate(2024, 1, 5)
	txs := []core.Transaction{
		tx(1, day, core.KindExpense, "Food", 5000),
		tx(2, day, core.KindIncome, "Salary", 100000),
	}

	totals := ComputeTotals(txs)
	if totals.Income.Cents != 100000 || totals.Expense.Cents != 5000 || totals.Net.Cents != 95000 {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	breakdown := CategoryBreakdown(txs)
	if len(breakdown) != 1 {
		t.Fatalf("expected single category, got %v", breakdown)
	}
	if breakdown["Food"].Cents != 5000 {
		t.Fatalf("Food = %d, want 5000", breakdown["Food"].Cents)
	}
}

func TestCategoryBreakdownSumsEqualTotalExpense(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 1), core.KindExpense, "Food", 1234),
		tx(2, core.NewDate(2024, 1, 2), core.KindExpense, "Food", 766),
		tx(3, core.NewDate(2024, 1, 3), core.KindExpense, "Rent", 90000),
		tx(4, core.NewDate(2024, 1, 4), core.KindIncome, "Salary", 100000),
	}
	breakdown := CategoryBreakdown(txs)
	var sum int64
	for _, m := range breakdown {
		sum += m.Cents
	}
	if want := ComputeTotals(txs).Expense.Cents; sum != want {
		t.Fatalf("breakdown sum %d != total expense %d", sum, want)
	}
	if _, ok := breakdown["Salary"]; ok {
		t.Fatal("income category must not appear in expense breakdown")
	}
}

func TestPeriodicBucketsDaily(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 5), core.KindExpense, "Food", 100),
		tx(2, core.NewDate(2024, 1, 5), core.KindExpense, "Rent", 200),
		tx(3, core.NewDate(2024, 1, 6), core.KindIncome, "Salary", 300),
	}
	got := PeriodicBuckets(txs, core.Daily)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(got), got)
	}
	if got[0].Date.String() != "2024-01-05" || got[0].Kind != core.KindExpense || got[0].Total.Cents != 300 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].Date.String() != "2024-01-06" || got[1].Kind != core.KindIncome || got[1].Total.Cents != 300 {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}

func TestPeriodicBucketsWeeklyStartsMonday(t *testing.T) {
	// 2024-01-03 is a Wednesday; its week starts Monday 2024-01-01.
	// 2024-01-08 is the following Monday.
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 3), core.KindExpense, "Food", 100),
		tx(2, core.NewDate(2024, 1, 7), core.KindExpense, "Food", 150), // Sunday, same week
		tx(3, core.NewDate(2024, 1, 8), core.KindExpense, "Food", 200), // next week
	}
	got := PeriodicBuckets(txs, core.Weekly)
	if len(got) != 2 {
		t.Fatalf("expected 2 weekly rows, got %d: %+v", len(got), got)
	}
	if got[0].Date.String() != "2024-01-01" || got[0].Total.Cents != 250 {
		t.Fatalf("unexpected first week: %+v", got[0])
	}
	if got[1].Date.String() != "2024-01-08" || got[1].Total.Cents != 200 {
		t.Fatalf("unexpected second week: %+v", got[1])
	}
}

func TestPeriodicBucketsMonthlySpanningTwoMonths(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 5), core.KindExpense, "Food", 5000),
		tx(2, core.NewDate(2024, 1, 20), core.KindExpense, "Rent", 80000),
		tx(3, core.NewDate(2024, 2, 3), core.KindExpense, "Food", 2500),
		tx(4, core.NewDate(2024, 2, 10), core.KindIncome, "Salary", 100000),
	}
	got := PeriodicBuckets(txs, core.Monthly)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows (Jan expense, Feb expense, Feb income), got %d: %+v", len(got), got)
	}
	// Month-end keys.
	if got[0].Date.String() != "2024-01-31" || got[0].Kind != core.KindExpense || got[0].Total.Cents != 85000 {
		t.Fatalf("unexpected January row: %+v", got[0])
	}
	// February 2024 is a leap month: key is the 29th.
	if got[1].Date.String() != "2024-02-29" || got[1].Kind != core.KindExpense || got[1].Total.Cents != 2500 {
		t.Fatalf("unexpected February expense row: %+v", got[1])
	}
	if got[2].Date.String() != "2024-02-29" || got[2].Kind != core.KindIncome || got[2].Total.Cents != 100000 {
		t.Fatalf("unexpected February income row: %+v", got[2])
	}
}

func TestPeriodicBucketsSingleKindProducesSingleRow(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.NewDate(2024, 1, 5), core.KindExpense, "Food", 100),
	}
	got := PeriodicBuckets(txs, core.Monthly)
	if len(got) != 1 {
		t.Fatalf("expected 1 row without zero-filled counterpart, got %d", len(got))
	}
}

func TestPeriodicBucketsEmpty(t *testing.T) {
	if got := PeriodicBuckets(nil, core.Monthly); len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}
