// Package services orchestrates the budgeting pipeline across the session
// store, the optional SQLite mirror and the optional AMQP publisher.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"budgetboard/internal/amqp"
	"budgetboard/internal/core"
	"budgetboard/internal/csvio"
	"budgetboard/internal/normalize"
	"budgetboard/internal/pdf"
	"budgetboard/internal/report"
	"budgetboard/internal/state"
	"budgetboard/internal/storage"
)

// BudgetService is the application-facing entry point. The session store is
// required; storage and AMQP are optional and skipped when nil, so the service
// degrades to a purely in-memory dashboard.
type BudgetService struct {
	session         *state.Store
	storage         *storage.SQLiteRepository
	amqpClient      *amqp.Client
	trendCategories []string
}

func NewBudgetService(session *state.Store, storage *storage.SQLiteRepository, amqpClient *amqp.Client, trendCategories []string) *BudgetService {
	return &BudgetService{
		session:         session,
		storage:         storage,
		amqpClient:      amqpClient,
		trendCategories: trendCategories,
	}
}

// RecordTransaction normalizes one raw row, appends it to the session and
// mirrors it to SQLite and the sync queue when configured. Coercion never
// rejects a row; garbage fields land as zero values.
func (s *BudgetService) RecordTransaction(ctx context.Context, row normalize.RawRow) (core.Transaction, error) {
	snap := s.session.Snapshot()
	txs := normalize.Normalize([]normalize.RawRow{row}, snap.Catalog, snap.Settings.DefaultMonth)
	tx := txs[0]

	s.session.Append(tx)
	s.mirror(ctx, tx)

	slog.InfoContext(ctx, "Transaction recorded",
		"month", tx.Month,
		"category", tx.Category,
		"type", string(tx.Type),
		"actual_cents", tx.Actual.Cents)

	return tx, nil
}

// ImportCSV loads transactions from a CSV stream. With replace set the
// session is rebuilt from the file; otherwise rows are appended. Imported
// rows are mirrored like recorded ones.
func (s *BudgetService) ImportCSV(ctx context.Context, r io.Reader, replace bool) (int, error) {
	rows, err := csvio.ReadTransactions(r)
	if err != nil {
		return 0, fmt.Errorf("read transactions csv: %w", err)
	}

	snap := s.session.Snapshot()
	txs := normalize.Normalize(rows, snap.Catalog, snap.Settings.DefaultMonth)

	if replace {
		s.session.ReplaceTransactions(txs)
	} else {
		s.session.Append(txs...)
	}
	for _, tx := range txs {
		s.mirror(ctx, tx)
	}

	slog.InfoContext(ctx, "CSV import completed", "rows", len(txs), "replace", replace)
	return len(txs), nil
}

// ExportCSV writes the current session transactions in canonical column
// order. A re-import of the output is lossless.
func (s *BudgetService) ExportCSV(_ context.Context, w io.Writer) error {
	snap := s.session.Snapshot()
	if err := csvio.WriteTransactions(w, snap.Transactions); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	return nil
}

// MonthReport builds the full dashboard view for one month. An empty month
// selects the month of the most recent transaction.
func (s *BudgetService) MonthReport(_ context.Context, month string, now time.Time) report.MonthReport {
	snap := s.session.Snapshot()
	return report.BuildMonthReport(snap.Transactions, snap.Budgets, snap.Settings, month, now)
}

// MonthReportPDF renders the month report as a PDF document.
func (s *BudgetService) MonthReportPDF(ctx context.Context, month string, now time.Time) ([]byte, error) {
	snap := s.session.Snapshot()
	r := report.BuildMonthReport(snap.Transactions, snap.Budgets, snap.Settings, month, now)
	doc, err := pdf.BuildMonthlyReport(r, snap.Settings)
	if err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	slog.InfoContext(ctx, "PDF report generated", "month", r.Month, "bytes", len(doc))
	return doc, nil
}

// MonthlySummaries returns the per-month income/expense/savings rollup for
// every month in the session, in chronological order.
func (s *BudgetService) MonthlySummaries(_ context.Context) []core.MonthSummary {
	snap := s.session.Snapshot()
	return report.AggregateByMonth(snap.Transactions)
}

// Trends returns the rolling-average series for the configured categories.
func (s *BudgetService) Trends(_ context.Context) map[string][]report.TrendPoint {
	snap := s.session.Snapshot()
	return report.RollingAverages(snap.Transactions, s.trendCategories)
}

// ReplaceCatalogCSV swaps the category catalog from a CSV stream. The swap is
// all-or-nothing: a malformed file leaves the current catalog in place.
func (s *BudgetService) ReplaceCatalogCSV(ctx context.Context, r io.Reader) error {
	entries, err := csvio.ReadCatalog(r)
	if err != nil {
		return fmt.Errorf("read catalog csv: %w", err)
	}
	if err := s.session.ReplaceCatalog(entries); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	slog.InfoContext(ctx, "Catalog replaced", "entries", len(entries))
	return nil
}

// SetBudgets installs the per-category monthly budgets. Non-positive amounts
// are dropped.
func (s *BudgetService) SetBudgets(_ context.Context, budgets map[string]core.Money) {
	s.session.SetBudgets(budgets)
}

// UpdateSettings applies new settings and returns any soft warnings, such as
// a malformed payday list being ignored.
func (s *BudgetService) UpdateSettings(ctx context.Context, next core.Settings, rawPaydays string) []string {
	warnings := s.session.UpdateSettings(next, rawPaydays)
	for _, w := range warnings {
		slog.WarnContext(ctx, "Settings update warning", "warning", w)
	}
	return warnings
}

// Settings returns a copy of the current settings.
func (s *BudgetService) Settings(_ context.Context) core.Settings {
	return s.session.Settings()
}

// Catalog returns the current catalog entries in catalog order.
func (s *BudgetService) Catalog(_ context.Context) []core.CatalogEntry {
	return s.session.Catalog().Entries()
}

// Reload rebuilds the session from the SQLite mirror. Without a storage
// backend it is a no-op.
func (s *BudgetService) Reload(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	txs, err := s.storage.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("reload from storage: %w", err)
	}
	s.session.ReplaceTransactions(txs)
	slog.InfoContext(ctx, "Session reloaded from storage", "rows", len(txs))
	return nil
}

// mirror persists the transaction and publishes a sync message. Failures are
// logged, never surfaced: the session append already succeeded.
func (s *BudgetService) mirror(ctx context.Context, tx core.Transaction) {
	if s.storage == nil {
		return
	}

	id, err := s.storage.Append(ctx, tx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to mirror transaction to storage", "error", err)
		return
	}

	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync message", "id", id)
		return
	}
	if err := s.amqpClient.PublishTransactionSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}

// Close closes the storage and AMQP connections.
func (s *BudgetService) Close() error {
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
		return fmt.Errorf("close budget service: %v", errs)
	}

	return nil
}
