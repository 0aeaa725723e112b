// Package worker mirrors committed transactions to the configured
// off-site backend.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/mirror"
	"tally/internal/storage"
)

// MirrorWorker consumes transaction events and replays them against the
// mirror. A periodic scan over unsynced rows recovers messages lost to
// broker or worker downtime.
type MirrorWorker struct {
	storage   *storage.SQLiteRepository
	appender  mirror.RowAppender
	deleter   mirror.RowDeleter
	batchSize int
}

func NewMirrorWorker(storage *storage.SQLiteRepository, appender mirror.RowAppender, deleter mirror.RowDeleter, batchSize int) *MirrorWorker {
	return &MirrorWorker{
		storage:   storage,
		appender:  appender,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message.
func (w *MirrorWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	t, err := w.storage.Get(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before the worker got to it; nothing to mirror.
		slog.InfoContext(ctx, "Transaction gone before mirroring, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.mirrorTransaction(ctx, t)
}

// HandleDeleteMessage processes a single transaction delete message. The
// row data travels with the message since the local row no longer exists.
func (w *MirrorWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if w.deleter == nil {
		slog.WarnContext(ctx, "No mirror deleter configured, skipping", "id", msg.ID)
		return nil
	}

	date, err := core.ParseDate(msg.Date)
	if err != nil {
		slog.WarnContext(ctx, "Delete message carries invalid date, using id only",
			"id", msg.ID, "date", msg.Date)
	}
	t := core.Transaction{
		ID:       msg.ID,
		Date:     date,
		Kind:     core.Kind(msg.Kind),
		Category: msg.Category,
		Amount:   core.Money{Cents: msg.AmountCents},
	}

	if err := w.deleter.DeleteRow(ctx, t); err != nil {
		return fmt.Errorf("delete mirrored row: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored row removed", "id", msg.ID)
	return nil
}

// ProcessPending mirrors any transactions that never made it through the
// queue. This is the backup path for lost messages.
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		t, err := w.storage.Get(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.mirrorTransaction(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror pending transaction", "id", p.ID, "error", err)
		}
	}

	return nil
}

func (w *MirrorWorker) mirrorTransaction(ctx context.Context, t core.Transaction) error {
	ref, err := w.appender.AppendRow(ctx, t)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, t.ID); err != nil {
		// The mirror write itself succeeded; don't fail the message.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"id", t.ID,
		"mirror_ref", ref,
		"amount_cents", t.Amount.Cents)
	return nil
}
