// Package report rolls normalized transactions into the summaries the
// dashboard consumes: monthly totals, per-category variance, 50/30/20
// breakdowns, rolling averages, pacing, and guardrail alerts. Everything here
// is a pure function of its inputs; state snapshots come from the caller.
package report

import (
	"sort"

	"budgetboard/internal/core"
)

// AggregateByMonth groups transactions by month and sums actual amounts into
// income, expense and savings. One entry per distinct month, sorted ascending
// by month key (lexicographic, which is chronological for "YYYY-MM").
func AggregateByMonth(txs []core.Transaction) []core.MonthSummary {
	byMonth := make(map[string]*core.MonthSummary)
	for _, tx := range txs {
		m, ok := byMonth[tx.Month]
		if !ok {
			m = &core.MonthSummary{Month: tx.Month}
			byMonth[tx.Month] = m
		}
		switch tx.Type {
		case core.Income:
			m.Income = m.Income.Add(tx.Actual)
		case core.Expense:
			m.Expense = m.Expense.Add(tx.Actual)
		}
	}

	out := make([]core.MonthSummary, 0, len(byMonth))
	for _, m := range byMonth {
		m.Savings = m.Income.Sub(m.Expense) // may be negative, not clamped
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

type categoryKey struct {
	Category string
	Type     core.TxType
	Section  core.Section
}

// AggregateByCategory filters to the given month and sums budget and actual
// per (category, type, section) group. A budget-map entry overrides whatever
// budgets the rows carried for that category; income rows always report
// budget 0 and variance 0. An empty month yields an empty slice.
func AggregateByCategory(txs []core.Transaction, month string, budgets core.BudgetMap) []core.CategorySummary {
	groups := make(map[categoryKey]*core.CategorySummary)
	for _, tx := range txs {
		if tx.Month != month {
			continue
		}
		key := categoryKey{Category: tx.Category, Type: tx.Type, Section: tx.Section}
		g, ok := groups[key]
		if !ok {
			g = &core.CategorySummary{Category: tx.Category, Type: tx.Type, Section: tx.Section}
			groups[key] = g
		}
		g.Budget = g.Budget.Add(tx.Budget)
		g.Actual = g.Actual.Add(tx.Actual)
	}

	out := make([]core.CategorySummary, 0, len(groups))
	for _, g := range groups {
		if b, ok := budgets[g.Category]; ok {
			g.Budget = b
		}
		if g.Type == core.Income {
			// Budgets apply to expenses only.
			g.Budget = core.Money{}
			g.Variance = core.Money{}
		} else {
			g.Variance = g.Budget.Sub(g.Actual)
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// SectionBreakdown computes the 50/30/20 view for one month: expense actuals
// split into Needs and Wants, with Savings defined as the income left over,
// floored at zero for presentation.
func SectionBreakdown(txs []core.Transaction, month string) core.SectionTotals {
	out := core.SectionTotals{Month: month}
	for _, tx := range txs {
		if tx.Month != month {
			continue
		}
		switch {
		case tx.Type == core.Income:
			out.Income = out.Income.Add(tx.Actual)
		case tx.Type == core.Expense && tx.Section == core.Needs:
			out.Needs = out.Needs.Add(tx.Actual)
		case tx.Type == core.Expense && tx.Section == core.Wants:
			out.Wants = out.Wants.Add(tx.Actual)
		}
	}
	left := out.Income.Sub(out.Needs).Sub(out.Wants)
	if left.Cents > 0 {
		out.Savings = left
	}
	return out
}

// CurrentMonth picks the month under analysis: the month of the most recently
// recorded transaction, or fallback when there is no data yet.
func CurrentMonth(txs []core.Transaction, fallback string) string {
	if len(txs) == 0 {
		return fallback
	}
	return txs[len(txs)-1].Month
}
