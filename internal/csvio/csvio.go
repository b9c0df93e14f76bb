// Package csvio reads and writes the flat tabular form the session round-trips
// through: transactions with the canonical column set {Month, Date, Category,
// Type, Budget, Actual, Section}, and catalog files with {Category, Type,
// Section}. Transaction imports are lenient (any subset of columns may be
// missing; the normalizer fills the gaps); catalog imports are strict and
// reject files missing a required column.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"budgetboard/internal/core"
	"budgetboard/internal/normalize"
)

// TransactionColumns is the canonical export column set, in order.
var TransactionColumns = []string{"Month", "Date", "Category", "Type", "Budget", "Actual", "Section"}

// CatalogColumns are all required on catalog import.
var CatalogColumns = []string{"Category", "Type", "Section"}

var ErrMissingColumns = errors.New("missing required columns")

const dateLayout = "2006-01-02"

// ReadTransactions parses a transaction CSV into raw rows for the normalizer.
// Column order is free and headers match case-insensitively; columns that are
// absent simply yield blank fields. Only a structurally broken CSV is an
// error.
func ReadTransactions(r io.Reader) ([]normalize.RawRow, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	idx := headerIndex(header)
	rows := make([]normalize.RawRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, normalize.RawRow{
			Month:    field(rec, idx, "month"),
			Date:     field(rec, idx, "date"),
			Category: field(rec, idx, "category"),
			Type:     field(rec, idx, "type"),
			Budget:   field(rec, idx, "budget"),
			Actual:   field(rec, idx, "actual"),
			Section:  field(rec, idx, "section"),
		})
	}
	return rows, nil
}

// WriteTransactions writes the canonical column set so the output re-imports
// losslessly.
func WriteTransactions(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		date := ""
		if !tx.Date.IsEmpty() {
			date = tx.Date.Format(dateLayout)
		}
		rec := []string{
			tx.Month,
			date,
			tx.Category,
			string(tx.Type),
			tx.Budget.String(),
			tx.Actual.String(),
			string(tx.Section),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCatalog parses a catalog CSV. A file missing any of the required columns
// is rejected outright with ErrMissingColumns so the caller can keep its
// existing catalog.
func ReadCatalog(r io.Reader) ([]core.CatalogEntry, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	idx := headerIndex(header)
	var missing []string
	for _, col := range CatalogColumns {
		if _, ok := idx[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	entries := make([]core.CatalogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, core.CatalogEntry{
			Category: field(rec, idx, "category"),
			Type:     core.TxType(field(rec, idx, "type")),
			Section:  core.Section(field(rec, idx, "section")),
		})
	}
	return entries, nil
}

func readAll(r io.Reader) (records [][]string, header []string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may be ragged; missing cells become blanks
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[1:], all[0], nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
