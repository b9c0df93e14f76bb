// Package normalize is the single coercion boundary of the pipeline: raw
// imported or hand-entered rows go in, canonical transactions come out.
// Downstream aggregation assumes fully well-typed input and never repeats
// these fallbacks. This stage never fails; every malformed field has a
// defined default.
package normalize

import (
	"strings"
	"time"

	"budgetboard/internal/core"
)

// RawRow is one imported row before coercion. Every field is an untyped
// string; any of them may be blank.
type RawRow struct {
	Month    string
	Date     string
	Category string
	Type     string
	Budget   string
	Actual   string
	Section  string
}

// dateLayouts are tried in order when coercing the optional date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// Normalize coerces raw rows into canonical transactions:
//   - blank month defaults to defaultMonth; months are truncated to "YYYY-MM"
//     shape, never validated
//   - unparseable dates become the zero date
//   - type is title-cased; unrecognized values pass through unchanged
//   - non-numeric amounts coerce to zero
//   - section is recomputed from the catalog, falling back to the row's own
//     value for unknown categories
func Normalize(rows []RawRow, catalog core.Catalog, defaultMonth string) []core.Transaction {
	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		tx := core.Transaction{
			Month:    core.TruncateMonth(r.Month, defaultMonth),
			Date:     coerceDate(r.Date),
			Category: strings.TrimSpace(r.Category),
			Type:     core.TxType(titleCase(r.Type)),
			Budget:   core.CoerceAmount(r.Budget),
			Actual:   core.CoerceAmount(r.Actual),
		}
		tx.Section = resolveSection(catalog, tx.Category, r.Section)
		out = append(out, tx)
	}
	return out
}

// Renormalize reapplies the coercion rules to already-canonical transactions.
// Its main job is recomputing the derived section against the current catalog;
// on data that already went through Normalize it is a no-op.
func Renormalize(txs []core.Transaction, catalog core.Catalog, defaultMonth string) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		tx.Month = core.TruncateMonth(tx.Month, defaultMonth)
		tx.Category = strings.TrimSpace(tx.Category)
		tx.Type = core.TxType(titleCase(string(tx.Type)))
		tx.Section = resolveSection(catalog, tx.Category, string(tx.Section))
		out = append(out, tx)
	}
	return out
}

// resolveSection looks the category up in the catalog; unknown categories keep
// whatever section the row already carried (possibly empty), not an error.
func resolveSection(catalog core.Catalog, category, rowSection string) core.Section {
	if sec, ok := catalog.SectionFor(category); ok {
		return sec
	}
	return core.Section(strings.TrimSpace(rowSection))
}

func coerceDate(s string) core.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: t}
		}
	}
	return core.Date{}
}

// titleCase uppercases the first letter of each word and lowercases the rest,
// so "income" and "EXPENSE" both land on their canonical spelling. Values that
// still match no known type after casing pass through unchanged.
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		words[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
	}
	return strings.Join(words, " ")
}
