package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"budgetboard/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAppendAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := core.Transaction{
		Month:    "2024-01",
		Date:     core.Date{Time: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		Category: "Groceries",
		Type:     core.Expense,
		Budget:   core.Money{Cents: 40000},
		Actual:   core.Money{Cents: 35000},
		Section:  core.Needs,
	}

	id, err := repo.Append(ctx, in)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Append() returned zero id")
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Month != in.Month || got.Category != in.Category || got.Type != in.Type ||
		got.Budget != in.Budget || got.Actual != in.Actual || got.Section != in.Section {
		t.Errorf("Get() = %+v, want %+v", got, in)
	}
	if got.Date.IsEmpty() || got.Date.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("Get() date = %v, want 2024-01-15", got.Date)
	}
}

func TestAppendWithoutDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, core.Transaction{Month: "2024-01", Category: "Rent", Type: core.Expense})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Date.IsEmpty() {
		t.Errorf("Date = %v, want empty", got.Date)
	}
}

func TestListAllPreservesInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	months := []string{"2024-03", "2024-01", "2024-02"}
	for _, m := range months {
		if _, err := repo.Append(ctx, core.Transaction{Month: m, Category: "Rent", Type: core.Expense}); err != nil {
			t.Fatal(err)
		}
	}

	txs, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("ListAll() = %d rows, want 3", len(txs))
	}
	for i, m := range months {
		if txs[i].Month != m {
			t.Errorf("txs[%d].Month = %q, want %q (insertion order)", i, txs[i].Month, m)
		}
	}
}

func TestSyncStatusLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id1, _ := repo.Append(ctx, core.Transaction{Month: "2024-01", Category: "Rent", Type: core.Expense})
	id2, _ := repo.Append(ctx, core.Transaction{Month: "2024-01", Category: "Groceries", Type: core.Expense})

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 2 || pending[0] != id1 || pending[1] != id2 {
		t.Fatalf("GetPendingSync() = %v, want [%d %d]", pending, id1, id2)
	}

	if err := repo.MarkSynced(ctx, id1); err != nil {
		t.Fatalf("MarkSynced() error = %v", err)
	}
	if err := repo.MarkSyncError(ctx, id2); err != nil {
		t.Fatalf("MarkSyncError() error = %v", err)
	}

	pending, err = repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("GetPendingSync() = %v, want none after marking", pending)
	}
}

func TestGetPendingSyncLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Append(ctx, core.Transaction{Month: "2024-01", Category: "Rent", Type: core.Expense}); err != nil {
			t.Fatal(err)
		}
	}

	pending, err := repo.GetPendingSync(ctx, 3)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("GetPendingSync() = %d ids, want 3", len(pending))
	}
}
