// Package storage is the optional durable backend: transactions appended to
// the session are mirrored into SQLite so a restart can reload them. The core
// pipeline never touches this package; it reads session snapshots only.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgetboard/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
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

// Append stores one transaction and returns its row id.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	var date any
	if !tx.Date.IsEmpty() {
		date = tx.Date.Format(dateLayout)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (month, tx_date, category, tx_type, budget_cents, actual_cents, section)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.Month, date, tx.Category, string(tx.Type), tx.Budget.Cents, tx.Actual.Cents, string(tx.Section))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"month", tx.Month,
		"category", tx.Category,
		"actual_cents", tx.Actual.Cents)

	return id, nil
}

// Get loads one transaction by row id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT month, tx_date, category, tx_type, budget_cents, actual_cents, section
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// ListAll returns every stored transaction in insertion order, which keeps
// "month of the most recent entry" semantics intact after a reload.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, tx_date, category, tx_type, budget_cents, actual_cents, section
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// GetPendingSync returns ids of transactions not yet mirrored to the export
// sheet, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync: %w", err)
	}
	return ids, nil
}

// MarkSynced marks a transaction as successfully mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced %d: %w", id, err)
	}
	return nil
}

// MarkSyncError marks a transaction whose mirroring failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'error'
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark sync error %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		date    sql.NullString
		txType  string
		section string
	)
	err := row.Scan(&tx.Month, &date, &tx.Category, &txType, &tx.Budget.Cents, &tx.Actual.Cents, &section)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TxType(txType)
	tx.Section = core.Section(section)
	if date.Valid {
		if t, err := time.Parse(dateLayout, date.String); err == nil {
			tx.Date = core.Date{Time: t}
		}
	}
	return tx, nil
}
