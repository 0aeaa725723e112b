package amqp

import (
	"context"
	"testing"

	"tally/internal/core"
)

func TestDispatchRoutesByEnvelopeType(t *testing.T) {
	c := &Client{}
	ctx := context.Background()

	syncBody, err := encodeEnvelope(TypeTransactionSync, NewTransactionSyncMessage(42))
	if err != nil {
		t.Fatalf("encode sync: %v", err)
	}
	var gotSync int64
	err = c.dispatch(ctx, syncBody,
		func(_ context.Context, m *TransactionSyncMessage) error { gotSync = m.ID; return nil },
		func(_ context.Context, m *TransactionDeleteMessage) error { t.Fatal("unexpected delete"); return nil })
	if err != nil || gotSync != 42 {
		t.Fatalf("sync dispatch: id=%d err=%v", gotSync, err)
	}

	tx := core.Transaction{ID: 7, Date: core.NewDate(2024, 1, 5), Kind: core.KindExpense, Category: "Food", Amount: core.Money{Cents: 5000}}
	delBody, err := encodeEnvelope(TypeTransactionDelete, &TransactionDeleteMessage{
		ID: tx.ID, Date: tx.Date.String(), Kind: string(tx.Kind), Category: tx.Category, AmountCents: tx.Amount.Cents,
	})
	if err != nil {
		t.Fatalf("encode delete: %v", err)
	}
	var gotDel *TransactionDeleteMessage
	err = c.dispatch(ctx, delBody,
		func(_ context.Context, m *TransactionSyncMessage) error { t.Fatal("unexpected sync"); return nil },
		func(_ context.Context, m *TransactionDeleteMessage) error { gotDel = m; return nil })
	if err != nil {
		t.Fatalf("delete dispatch: %v", err)
	}
	if gotDel == nil || gotDel.ID != 7 || gotDel.Date != "2024-01-05" || gotDel.AmountCents != 5000 {
		t.Fatalf("unexpected delete message: %+v", gotDel)
	}
}

func TestDispatchRejectsMalformedMessages(t *testing.T) {
	c := &Client{}
	ctx := context.Background()
	noop := func(_ context.Context, _ *TransactionSyncMessage) error { return nil }
	noopDel := func(_ context.Context, _ *TransactionDeleteMessage) error { return nil }

	for _, body := range [][]byte{
		[]byte(`not json`),
		[]byte(`{}`),
		[]byte(`{"type":"unknown","payload":{}}`),
	} {
		err := c.dispatch(ctx, body, noop, noopDel)
		if err == nil {
			t.Fatalf("expected error for %q", body)
		}
		if !isDecodeError(err) {
			t.Fatalf("expected decode error (no requeue) for %q, got %v", body, err)
		}
	}
}
