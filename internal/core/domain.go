package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "Income"
	Expense TxType = "Expense"

	Needs   Section = "Needs"
	Wants   Section = "Wants"
	Savings Section = "Savings"
)

// MonthKeyLen is the length of a canonical "YYYY-MM" month key.
const MonthKeyLen = 7

type (
	// TxType distinguishes income from expense rows. Values other than
	// Income/Expense can appear after lenient imports and are carried
	// through unchanged.
	TxType string

	// Section is the 50/30/20 bucket a category belongs to.
	Section string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64 `json:"cents"`
	}

	// Transaction is one canonical budget row. Section is derived from the
	// catalog at normalization time and must never be trusted from storage.
	Transaction struct {
		Month    string // "YYYY-MM"
		Date     Date   // optional; zero when the source row had none
		Category string
		Type     TxType
		Budget   Money
		Actual   Money
		Section  Section
	}

	CatalogEntry struct {
		Category string
		Type     TxType
		Section  Section
	}

	// Catalog maps category names to their type and section. Lookups for
	// unknown categories report absence instead of failing.
	Catalog struct {
		entries map[string]CatalogEntry
		order   []string
	}

	// BudgetMap holds the current monthly budget per category. It is flat:
	// the same budgets apply to whichever month is being analyzed.
	BudgetMap map[string]Money

	// Settings is the process-wide configuration consumed by the guardrail
	// evaluator and the report layer.
	Settings struct {
		DefaultMonth           string
		NearBudgetThresholdPct int
		SavingsGoal            Money
		SavingsRateGoalPct     int
		NoSpendGoal            int
		Paydays                []int
		MaxLossLimitTrade      Money // 0 = disabled
		MaxLossLimitBet        Money // 0 = disabled
		HardCaps               map[string]Money
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyCategory  = errors.New("empty category")
	ErrEmptyCatalog   = errors.New("empty catalog")
	ErrInvalidPaydays = errors.New("invalid paydays")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty reports whether the date is absent (unparseable or never supplied).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// TruncateMonth coerces an arbitrary month string into "YYYY-MM" shape: blanks
// become fallback, anything longer is cut to the first 7 characters. The result
// is shaped, not validated as a real month.
func TruncateMonth(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = fallback
	}
	if len(s) > MonthKeyLen {
		s = s[:MonthKeyLen]
	}
	return s
}

// MonthOf returns the "YYYY-MM" key for a point in time.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

func (e CatalogEntry) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// NewCatalog builds a catalog from entries, preserving first-seen order and
// keeping the last entry for a duplicated category name.
func NewCatalog(entries []CatalogEntry) Catalog {
	c := Catalog{entries: make(map[string]CatalogEntry, len(entries))}
	for _, e := range entries {
		if _, seen := c.entries[e.Category]; !seen {
			c.order = append(c.order, e.Category)
		}
		c.entries[e.Category] = e
	}
	return c
}

// SectionFor resolves the section for a category. The second return value is
// false for unknown categories; callers fall back per their own rules.
func (c Catalog) SectionFor(category string) (Section, bool) {
	e, ok := c.entries[category]
	return e.Section, ok
}

// TypeFor resolves the transaction type for a category.
func (c Catalog) TypeFor(category string) (TxType, bool) {
	e, ok := c.entries[category]
	return e.Type, ok
}

// Entries returns catalog entries in stable first-seen order.
func (c Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name])
	}
	return out
}

// Categories returns category names in stable first-seen order.
func (c Catalog) Categories() []string {
	return append([]string(nil), c.order...)
}

func (c Catalog) Len() int {
	return len(c.order)
}

// Budget returns the configured monthly budget for a category; missing
// categories default to zero.
func (b BudgetMap) Budget(category string) Money {
	return b[category]
}

// ParsePaydays parses a comma-separated day list like "5,20". Blank input is an
// empty list; any non-numeric element fails the whole list so the caller can
// keep the previous value.
func ParsePaydays(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n := 0
		for _, r := range part {
			if r < '0' || r > '9' {
				return nil, ErrInvalidPaydays
			}
			n = n*10 + int(r-'0')
		}
		out = append(out, n)
	}
	return out, nil
}
