// Package mirror defines the ports for the off-site ledger mirror.
package mirror

import (
	"context"

	"tally/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// RowAppender appends one transaction row to the mirror.
	RowAppender interface {
		AppendRow(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// RowDeleter removes a previously mirrored row.
	RowDeleter interface {
		DeleteRow(ctx context.Context, t core.Transaction) error
	}
)
