// Package services orchestrates store mutations with the optional event
// stream feeding the mirror worker.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/storage"
)

// TransactionService writes to SQLite first, then publishes a mirror
// event. Publishing is best-effort: the local ledger is the source of
// truth and a broker outage must not fail the user's request.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Create persists a transaction and returns its assigned id.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (int64, error) {
	id, err := s.storage.Append(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishTransactionSync(ctx, id); err != nil {
			// Transaction is saved locally; the periodic scan recovers it.
			slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
		}
	}

	return id, nil
}

// Delete removes a transaction by id. Absent ids are a no-op; a delete
// event is published only when a row was actually removed.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	t, err := s.storage.Get(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		slog.InfoContext(ctx, "Delete of unknown transaction ignored", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishTransactionDelete(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
		}
	}

	return nil
}

// Close closes both storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
