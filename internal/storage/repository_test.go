package storage

import (
	"context"
	"path/filepath"
	"testing"

	"tally/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAppendListRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.KindExpense,
		Category: "Food",
		Amount:   core.Money{Cents: 5000},
		Notes:    "lunch",
	}
	id, err := repo.Append(ctx, in)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(all))
	}
	got := all[0]
	if got.ID != id || got.Date.String() != "2024-01-05" || got.Kind != core.KindExpense ||
		got.Category != "Food" || got.Amount.Cents != 5000 || got.Notes != "lunch" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestAppendAssignsUniqueIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		id, err := repo.Append(ctx, core.Transaction{
			Date:     core.NewDate(2024, 1, i+1),
			Kind:     core.KindIncome,
			Category: "Salary",
			Amount:   core.Money{Cents: 100},
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestAppendRejectsInvalidRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cases := []core.Transaction{
		{Date: core.NewDate(2024, 1, 1), Kind: "Transfer", Category: "X", Amount: core.Money{Cents: 100}},
		{Date: core.NewDate(2024, 1, 1), Kind: core.KindExpense, Category: "X", Amount: core.Money{Cents: 0}},
		{Date: core.NewDate(2024, 1, 1), Kind: core.KindExpense, Category: "X", Amount: core.Money{Cents: -50}},
		{Kind: core.KindExpense, Category: "X", Amount: core.Money{Cents: 100}}, // zero date
	}
	for i, tx := range cases {
		if _, err := repo.Append(ctx, tx); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected rows must not persist, found %d", len(all))
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.KindExpense,
		Category: "Food",
		Amount:   core.Money{Cents: 100},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	// Deleting again, and deleting an id that never existed, are no-ops.
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := repo.Delete(ctx, 99999); err != nil {
		t.Fatalf("delete missing id: %v", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
}

func TestGetAndPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.KindIncome,
		Category: "Salary",
		Amount:   core.Money{Cents: 100000},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 100000 {
		t.Fatalf("unexpected transaction: %+v", got)
	}
	if _, err := repo.Get(ctx, id+1); err != core.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("expected 1 pending row for id %d, got %+v", id, pending)
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending after sync: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %+v", pending)
	}
}
