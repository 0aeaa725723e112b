// Package storage persists transactions to a local SQLite database.
//
// Writes are synchronous: Append and Delete return only after the row is
// durably committed, so a reload immediately after a mutation always sees
// its effect.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// PendingSyncTransaction is the minimal row shape queued for mirroring.
type PendingSyncTransaction struct {
	ID        int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append inserts a new transaction and returns its assigned id. Kind and
// amount are validated here as well as at the form boundary: an invalid
// row must never reach the table.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Kind.Validate(); err != nil {
		return 0, err
	}
	if err := t.Amount.Validate(); err != nil {
		return 0, err
	}
	if err := t.Date.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, kind, category, amount_cents, notes) VALUES (?, ?, ?, ?, ?)`,
		t.Date.String(), string(t.Kind), t.Category, t.Amount.Cents, t.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"kind", t.Kind,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	return id, nil
}

// Delete removes the transaction with the given id. Deleting an absent id
// is a no-op, which keeps the operation idempotent.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		slog.InfoContext(ctx, "Delete of missing transaction ignored", "id", id)
		return nil
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// ListAll returns every persisted transaction. Order is unspecified;
// callers sort for display.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, kind, category, amount_cents, notes FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Get retrieves a single transaction by id. Returns core.ErrNotFound for
// an absent id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, kind, category, amount_cents, notes FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// GetPendingSync returns transactions not yet mirrored, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions
		 WHERE synced_at IS NULL AND sync_error = 0
		 ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful mirror of the transaction.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced_at = CURRENT_TIMESTAMP, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a transaction whose mirror attempt failed so the
// periodic scan stops retrying it until cleared.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t       core.Transaction
		dateStr string
		kindStr string
	)
	if err := row.Scan(&t.ID, &dateStr, &kindStr, &t.Category, &t.Amount.Cents, &t.Notes); err != nil {
		if err == sql.ErrNoRows {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	t.Date = d
	t.Kind = core.Kind(kindStr)
	return t, nil
}
