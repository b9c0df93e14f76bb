// Package memory is an in-process export target, used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetboard/internal/core"
	"budgetboard/internal/export"
)

type Store struct {
	mu      sync.Mutex
	rows    []core.Transaction
	catalog []core.CatalogEntry
}

var (
	_ export.TransactionAppender = (*Store)(nil)
	_ export.CatalogReader       = (*Store)(nil)
)

func New(catalog []core.CatalogEntry) *Store {
	return &Store{catalog: append([]core.CatalogEntry(nil), catalog...)}
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, tx)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// ListCatalog returns the seeded catalog entries.
func (s *Store) ListCatalog(_ context.Context) ([]core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CatalogEntry(nil), s.catalog...), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.rows...)
}
