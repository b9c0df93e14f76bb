package worker

import (
	"context"
	"errors"
	"testing"

	"budgetboard/internal/amqp"
	"budgetboard/internal/core"
	"budgetboard/internal/export/memory"
)

type fakeSource struct {
	txs     map[int64]core.Transaction
	pending []int64
	synced  []int64
	errored []int64
}

func (f *fakeSource) Get(_ context.Context, id int64) (core.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, errors.New("not found")
	}
	return tx, nil
}

func (f *fakeSource) GetPendingSync(_ context.Context, limit int) ([]int64, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeSource) MarkSynced(_ context.Context, id int64) error {
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeSource) MarkSyncError(_ context.Context, id int64) error {
	f.errored = append(f.errored, id)
	return nil
}

func sampleTx(id int64) core.Transaction {
	return core.Transaction{
		Month:    "2024-01",
		Category: "Groceries",
		Type:     core.Expense,
		Actual:   core.Money{Cents: 1000 * id},
		Section:  core.Needs,
	}
}

func TestHandleSyncMessage(t *testing.T) {
	src := &fakeSource{txs: map[int64]core.Transaction{7: sampleTx(7)}}
	sheet := memory.New(nil)
	w := NewSyncWorker(src, sheet, 10)

	err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(7))
	if err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}

	rows := sheet.Rows()
	if len(rows) != 1 || rows[0].Actual.Cents != 7000 {
		t.Fatalf("sheet rows = %+v, want one row with 7000 cents", rows)
	}
	if len(src.synced) != 1 || src.synced[0] != 7 {
		t.Errorf("synced ids = %v, want [7]", src.synced)
	}
}

func TestHandleSyncMessage_MissingTransaction(t *testing.T) {
	src := &fakeSource{txs: map[int64]core.Transaction{}}
	w := NewSyncWorker(src, memory.New(nil), 10)

	err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(99))
	if err == nil {
		t.Fatal("HandleSyncMessage() should fail when the transaction is missing")
	}
}

func TestStartupSyncCheck(t *testing.T) {
	src := &fakeSource{
		txs: map[int64]core.Transaction{
			1: sampleTx(1),
			3: sampleTx(3),
		},
		pending: []int64{1, 2, 3},
	}
	sheet := memory.New(nil)
	w := NewSyncWorker(src, sheet, 10)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck() error = %v", err)
	}

	if got := len(sheet.Rows()); got != 2 {
		t.Errorf("sheet has %d rows, want 2", got)
	}
	if len(src.synced) != 2 {
		t.Errorf("synced ids = %v, want two entries", src.synced)
	}
	// Row 2 cannot be loaded and must be flagged, not synced.
	if len(src.errored) != 1 || src.errored[0] != 2 {
		t.Errorf("errored ids = %v, want [2]", src.errored)
	}
}

func TestProcessPendingTransactions_Empty(t *testing.T) {
	src := &fakeSource{}
	w := NewSyncWorker(src, memory.New(nil), 10)

	if err := w.ProcessPendingTransactions(context.Background()); err != nil {
		t.Fatalf("ProcessPendingTransactions() error = %v", err)
	}
	if len(src.synced) != 0 || len(src.errored) != 0 {
		t.Error("no bookkeeping expected for an empty backlog")
	}
}

type failingSheet struct{}

func (failingSheet) Append(context.Context, core.Transaction) (string, error) {
	return "", errors.New("append failed")
}

func TestSyncFailureMarksError(t *testing.T) {
	src := &fakeSource{
		txs:     map[int64]core.Transaction{1: sampleTx(1)},
		pending: []int64{1},
	}
	w := NewSyncWorker(src, failingSheet{}, 10)

	if err := w.ProcessPendingTransactions(context.Background()); err != nil {
		t.Fatalf("ProcessPendingTransactions() error = %v", err)
	}
	if len(src.errored) != 1 || src.errored[0] != 1 {
		t.Errorf("errored ids = %v, want [1]", src.errored)
	}
	if len(src.synced) != 0 {
		t.Errorf("synced ids = %v, want none", src.synced)
	}
}
