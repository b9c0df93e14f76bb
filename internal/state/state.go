// Package state owns the in-process session: the transaction set, category
// catalog, budget map, and settings. One Store instance is the single writer;
// pipeline runs operate on snapshots so the report layer stays pure. Nothing
// here is durable; persistence belongs to the storage and export
// collaborators.
package state

import (
	"fmt"
	"sync"
	"time"

	"budgetboard/internal/core"
	"budgetboard/internal/normalize"
)

// Store holds all session state behind one mutex.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	catalog      core.Catalog
	budgets      core.BudgetMap
	settings     core.Settings
}

// Snapshot is a consistent copy of the session for one pipeline run. Sections
// are recomputed against the snapshot's catalog on the way out, so a catalog
// edit never leaves stale sections behind.
type Snapshot struct {
	Transactions []core.Transaction
	Catalog      core.Catalog
	Budgets      core.BudgetMap
	Settings     core.Settings
}

// New creates a session seeded with the default category catalog and
// settings, mirroring what a fresh dashboard ships with.
func New() *Store {
	return &Store{
		catalog: DefaultCatalog(),
		budgets: core.BudgetMap{},
		settings: core.Settings{
			DefaultMonth:           core.MonthOf(time.Now()),
			NearBudgetThresholdPct: 10,
			SavingsGoal:            core.Money{Cents: 30000},
			SavingsRateGoalPct:     20,
			NoSpendGoal:            8,
			HardCaps:               map[string]core.Money{},
		},
	}
}

// DefaultCatalog is the catalog a new session starts with.
func DefaultCatalog() core.Catalog {
	return core.NewCatalog([]core.CatalogEntry{
		{Category: "Salary", Type: core.Income, Section: core.Savings},
		{Category: "Other Income", Type: core.Income, Section: core.Savings},
		{Category: "Rent", Type: core.Expense, Section: core.Needs},
		{Category: "Insurance", Type: core.Expense, Section: core.Needs},
		{Category: "Phone", Type: core.Expense, Section: core.Needs},
		{Category: "Debts", Type: core.Expense, Section: core.Needs},
		{Category: "Subscriptions", Type: core.Expense, Section: core.Wants},
		{Category: "Clothing", Type: core.Expense, Section: core.Wants},
		{Category: "Restaurant & Food Delivery", Type: core.Expense, Section: core.Wants},
		{Category: "Bet", Type: core.Expense, Section: core.Wants},
		{Category: "Trade", Type: core.Expense, Section: core.Wants},
		{Category: "Groceries", Type: core.Expense, Section: core.Needs},
		{Category: "Transport", Type: core.Expense, Section: core.Needs},
		{Category: "Utilities", Type: core.Expense, Section: core.Needs},
		{Category: "Entertainment", Type: core.Expense, Section: core.Wants},
		{Category: "Miscellaneous", Type: core.Expense, Section: core.Wants},
	})
}

// Append adds already-normalized transactions to the session.
func (s *Store) Append(txs ...core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, txs...)
}

// ReplaceTransactions swaps the whole transaction set, e.g. when reloading a
// session from the durable store at startup.
func (s *Store) ReplaceTransactions(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]core.Transaction(nil), txs...)
}

// Snapshot returns a consistent copy for one pipeline run, with sections
// recomputed against the current catalog.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	budgets := make(core.BudgetMap, len(s.budgets))
	for k, v := range s.budgets {
		budgets[k] = v
	}
	settings := s.settings
	settings.Paydays = append([]int(nil), s.settings.Paydays...)
	settings.HardCaps = make(map[string]core.Money, len(s.settings.HardCaps))
	for k, v := range s.settings.HardCaps {
		settings.HardCaps[k] = v
	}

	return Snapshot{
		Transactions: normalize.Renormalize(s.transactions, s.catalog, s.settings.DefaultMonth),
		Catalog:      s.catalog,
		Budgets:      budgets,
		Settings:     settings,
	}
}

// Catalog returns the current catalog.
func (s *Store) Catalog() core.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.settings
	settings.Paydays = append([]int(nil), s.settings.Paydays...)
	caps := make(map[string]core.Money, len(s.settings.HardCaps))
	for k, v := range s.settings.HardCaps {
		caps[k] = v
	}
	settings.HardCaps = caps
	return settings
}

// ReplaceCatalog swaps the catalog wholesale. Invalid input (no entries, or an
// entry without a category) is rejected and the existing catalog is kept
// unchanged; the caller may retry with corrected input.
func (s *Store) ReplaceCatalog(entries []core.CatalogEntry) error {
	if len(entries) == 0 {
		return core.ErrEmptyCatalog
	}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = core.NewCatalog(entries)
	return nil
}

// SetBudgets replaces the budget map. Entries with a zero or negative budget
// are dropped; categories absent from the map default to zero downstream.
func (s *Store) SetBudgets(budgets map[string]core.Money) {
	next := make(core.BudgetMap, len(budgets))
	for category, amount := range budgets {
		if amount.Cents > 0 {
			next[category] = amount
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = next
}

// UpdateSettings applies new settings. The payday list arrives as the raw
// comma-separated string the settings editor supplies; when it is malformed
// the previous value is retained and a warning is returned instead of an
// error. Hard caps with cap <= 0 are treated as absent.
func (s *Store) UpdateSettings(next core.Settings, rawPaydays string) (warnings []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paydays, err := core.ParsePaydays(rawPaydays)
	if err != nil {
		paydays = s.settings.Paydays
		warnings = append(warnings, fmt.Sprintf("invalid paydays %q: keeping previous value", rawPaydays))
	}

	caps := make(map[string]core.Money, len(next.HardCaps))
	for category, cap := range next.HardCaps {
		if cap.Cents > 0 {
			caps[category] = cap
		}
	}

	if next.DefaultMonth == "" {
		next.DefaultMonth = s.settings.DefaultMonth
	}
	next.DefaultMonth = core.TruncateMonth(next.DefaultMonth, s.settings.DefaultMonth)
	next.Paydays = paydays
	next.HardCaps = caps
	s.settings = next
	return warnings
}
