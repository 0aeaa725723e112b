package services

import (
	"context"
	"path/filepath"
	"testing"

	"tally/internal/core"
	"tally/internal/storage"
)

func newTestService(t *testing.T) *TransactionService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	// nil AMQP client: the service must work standalone
	return NewTransactionService(repo, nil)
}

func TestCreateWithoutBroker(t *testing.T) {
	svc := newTestService(t)
	id, err := svc.Create(context.Background(), core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.KindExpense,
		Category: "Food",
		Amount:   core.Money{Cents: 5000},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.KindExpense,
		Category: "Food",
		Amount:   core.Money{Cents: 0},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.KindIncome,
		Category: "Salary",
		Amount:   core.Money{Cents: 100000},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := &TransactionService{}
	if err := svc.Close(); err != nil {
		t.Fatalf("close with nil components: %v", err)
	}
}
