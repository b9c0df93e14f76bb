// Package worker mirrors recorded transactions from SQLite to the export
// sheet, driven by AMQP sync messages with a polling backstop.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetboard/internal/amqp"
	"budgetboard/internal/core"
	"budgetboard/internal/export"
)

// TransactionSource is the slice of the storage layer the worker needs.
type TransactionSource interface {
	Get(ctx context.Context, id int64) (core.Transaction, error)
	GetPendingSync(ctx context.Context, limit int) ([]int64, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker handles synchronization of transactions from SQLite to the
// export sheet.
type SyncWorker struct {
	storage   TransactionSource
	sheet     export.TransactionAppender
	batchSize int
}

func NewSyncWorker(storage TransactionSource, sheet export.TransactionAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	tx, err := w.storage.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.syncToSheet(ctx, msg.ID, tx); err != nil {
		return fmt.Errorf("sync transaction to sheet: %w", err)
	}

	return nil
}

// ProcessPendingTransactions syncs transactions whose messages were lost.
// This is the polling backstop behind the AMQP path.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, id := range pending {
		tx, err := w.storage.Get(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", id, "error", err)
			if err := w.storage.MarkSyncError(ctx, id); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
			}
			continue
		}

		if err := w.syncToSheet(ctx, id, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", id, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup so that
// downtime or missed messages do not leave rows behind.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, id := range pending {
		tx, err := w.storage.Get(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction for startup sync",
				"id", id, "error", err)
			if err := w.storage.MarkSyncError(ctx, id); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
			}
			failed++
			continue
		}

		if err := w.syncToSheet(ctx, id, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", id, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) syncToSheet(ctx context.Context, id int64, tx core.Transaction) error {
	ref, err := w.sheet.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row landed on the sheet; keep going and surface the bookkeeping
		// failure in the logs only.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", id,
		"sheets_ref", ref,
		"month", tx.Month,
		"category", tx.Category,
		"actual_cents", tx.Actual.Cents)

	return nil
}
